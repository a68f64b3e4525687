package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionSetJSONIsSorted(t *testing.T) {
	s := NewActionSet(ActionUpdate, ActionCreate, ActionExport, ActionCreate)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["create","export","update"]`, string(b))

	var back ActionSet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)
}

func TestActionSetCloneIsIndependent(t *testing.T) {
	original := NewActionSet(ActionRead)
	clone := original.Clone()
	clone[ActionDelete] = struct{}{}

	assert.False(t, original.Has(ActionDelete))
	assert.True(t, clone.Has(ActionDelete))
}

func TestMergeGrantsReplacesWholeKey(t *testing.T) {
	base := ResourceGrant{
		ResourceCustomers: NewActionSet(ActionCreate, ActionRead, ActionUpdate),
		ResourceProducts:  NewActionSet(ActionRead),
	}
	override := ResourceGrant{
		ResourceCustomers: NewActionSet(ActionRead),
		ResourceInvoices:  NewActionSet(ActionCreate, ActionRead),
	}

	merged := MergeGrants(base, override)

	// The override entry wins entirely; no per-action union happens.
	assert.Equal(t, NewActionSet(ActionRead), merged[ResourceCustomers])
	assert.Equal(t, NewActionSet(ActionRead), merged[ResourceProducts])
	assert.Equal(t, NewActionSet(ActionCreate, ActionRead), merged[ResourceInvoices])

	// Neither input is touched.
	assert.True(t, base[ResourceCustomers].Has(ActionUpdate))
	merged[ResourceProducts][ActionImport] = struct{}{}
	assert.False(t, base[ResourceProducts].Has(ActionImport))
}

func TestValidatePermissions(t *testing.T) {
	validGrant := ResourceGrant{
		ResourceCustomers: NewActionSet(ActionRead),
	}

	tests := []struct {
		name    string
		grant   ResourceGrant
		special SpecialPermissions
		wantErr bool
	}{
		{
			name:  "valid grant and defaults",
			grant: validGrant,
		},
		{
			name:  "empty grant is valid",
			grant: ResourceGrant{},
		},
		{
			name:    "unknown resource rejected",
			grant:   ResourceGrant{"starships": NewActionSet(ActionRead)},
			wantErr: true,
		},
		{
			name:    "unknown action rejected",
			grant:   ResourceGrant{ResourceCustomers: NewActionSet("teleport")},
			wantErr: true,
		},
		{
			name:    "cap zero is valid",
			grant:   validGrant,
			special: SpecialPermissions{MaxDiscountPercent: 0},
		},
		{
			name:    "cap hundred is valid",
			grant:   validGrant,
			special: SpecialPermissions{MaxDiscountPercent: 100},
		},
		{
			name:    "negative cap rejected",
			grant:   validGrant,
			special: SpecialPermissions{MaxDiscountPercent: -1},
			wantErr: true,
		},
		{
			name:    "cap above hundred rejected",
			grant:   validGrant,
			special: SpecialPermissions{MaxDiscountPercent: 100.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePermissions(tt.grant, tt.special)
			if tt.wantErr {
				require.Error(t, err)
				var dErr *DetailedError
				require.ErrorAs(t, err, &dErr)
				assert.Equal(t, ErrRoleValidationFailed.IDField, dErr.IDField)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSpecialPermissionsFlagCoversCatalog(t *testing.T) {
	all := AllSpecialPermissions()
	for _, f := range AllSpecialFlags() {
		value, known := all.Flag(f)
		assert.True(t, known, "flag %q should be known", f)
		assert.True(t, value, "flag %q should be on in the full record", f)
	}

	var zero SpecialPermissions
	for _, f := range AllSpecialFlags() {
		value, known := zero.Flag(f)
		assert.True(t, known)
		assert.False(t, value, "flag %q should be off in the zero record", f)
	}

	_, known := zero.Flag("launch_rockets")
	assert.False(t, known)
}

func TestFullResourceGrantCoversCatalog(t *testing.T) {
	g := FullResourceGrant()
	require.Len(t, g, len(AllResources()))
	for _, r := range AllResources() {
		for _, a := range AllActions() {
			assert.True(t, g[r].Has(a))
		}
	}
}
