package validator

import (
	"regexp"

	"comercia/domain"

	"github.com/go-playground/validator/v10"
)

const roleCodeRegexString = `^[a-z][a-z0-9_]{1,49}$`

var roleCodeRegex = regexp.MustCompile(roleCodeRegexString)

type Registration struct {
	Tag  string
	Func validator.Func
}

var defaultRegistrations = [...]Registration{
	{
		Tag:  RoleCode,
		Func: IsValidRoleCode,
	},
	{
		Tag:  Resource,
		Func: IsValidResource,
	},
	{
		Tag:  Action,
		Func: IsValidAction,
	},
	{
		Tag:  SpecialFlag,
		Func: IsValidSpecialFlag,
	},
	{
		Tag:  NotEmpty,
		Func: IsNotEmpty,
	},
}

func IsValidRoleCode(fl validator.FieldLevel) bool {
	return roleCodeRegex.MatchString(fl.Field().String())
}

func IsValidResource(fl validator.FieldLevel) bool {
	return domain.Resource(fl.Field().String()).Valid()
}

func IsValidAction(fl validator.FieldLevel) bool {
	return domain.Action(fl.Field().String()).Valid()
}

func IsValidSpecialFlag(fl validator.FieldLevel) bool {
	return domain.SpecialFlag(fl.Field().String()).Valid()
}

func IsNotEmpty(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) > 0
}
