package validator

const (
	Email       = "email"
	Min         = "min"
	Max         = "max"
	Required    = "required"
	RoleCode    = "role_code"
	Resource    = "resource"
	Action      = "action"
	SpecialFlag = "special_flag"
	NotEmpty    = "not_empty"
)
