package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type roleForm struct {
	Code     string `json:"code" binding:"role_code"`
	Resource string `json:"resource" binding:"omitempty,resource"`
	Action   string `json:"action" binding:"omitempty,action"`
	Flag     string `json:"flag" binding:"omitempty,special_flag"`
}

func TestCustomValidations(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		form    roleForm
		wantErr bool
	}{
		{name: "valid form", form: roleForm{Code: "floor_supervisor", Resource: "invoices", Action: "read", Flag: "view_costs"}},
		{name: "code only", form: roleForm{Code: "floor_supervisor"}},
		{name: "uppercase code", form: roleForm{Code: "Supervisor"}, wantErr: true},
		{name: "code with dash", form: roleForm{Code: "floor-supervisor"}, wantErr: true},
		{name: "single char code", form: roleForm{Code: "a"}, wantErr: true},
		{name: "unknown resource", form: roleForm{Code: "ok_code", Resource: "starships"}, wantErr: true},
		{name: "unknown action", form: roleForm{Code: "ok_code", Action: "teleport"}, wantErr: true},
		{name: "unknown flag", form: roleForm{Code: "ok_code", Flag: "launch_rockets"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.form)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultValidatorIsSingleton(t *testing.T) {
	assert.Same(t, DefaultValidator(), DefaultValidator())
}
