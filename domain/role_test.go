package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValidate(t *testing.T) {
	valid := func() *Role {
		return &Role{
			TenantID: "tenant-1",
			Code:     "floor_supervisor",
			Name:     "Floor supervisor",
			Grant:    ResourceGrant{ResourceInventory: NewActionSet(ActionRead)},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Role)
		wantErr bool
	}{
		{name: "valid role", mutate: func(r *Role) {}},
		{name: "missing tenant", mutate: func(r *Role) { r.TenantID = "" }, wantErr: true},
		{name: "missing name", mutate: func(r *Role) { r.Name = "" }, wantErr: true},
		{name: "empty code", mutate: func(r *Role) { r.Code = "" }, wantErr: true},
		{name: "single char code", mutate: func(r *Role) { r.Code = "a" }, wantErr: true},
		{name: "uppercase code", mutate: func(r *Role) { r.Code = "Supervisor" }, wantErr: true},
		{name: "code with dash", mutate: func(r *Role) { r.Code = "floor-supervisor" }, wantErr: true},
		{name: "code starting with digit", mutate: func(r *Role) { r.Code = "1st_shift" }, wantErr: true},
		{name: "code at max length", mutate: func(r *Role) { r.Code = "a" + strings.Repeat("b", 49) }},
		{name: "code over max length", mutate: func(r *Role) { r.Code = "a" + strings.Repeat("b", 50) }, wantErr: true},
		{name: "bad grant", mutate: func(r *Role) { r.Grant = ResourceGrant{"starships": NewActionSet(ActionRead)} }, wantErr: true},
		{name: "bad discount cap", mutate: func(r *Role) { r.Special.MaxDiscountPercent = 101 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := valid()
			tt.mutate(role)
			err := role.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
