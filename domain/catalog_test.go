package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogSizes(t *testing.T) {
	assert.Len(t, AllResources(), 24)
	assert.Len(t, AllActions(), 6)
	assert.Len(t, AllSpecialFlags(), 19)
}

func TestCatalogValidity(t *testing.T) {
	for _, r := range AllResources() {
		assert.True(t, r.Valid(), "resource %q", r)
	}
	for _, a := range AllActions() {
		assert.True(t, a.Valid(), "action %q", a)
	}
	for _, f := range AllSpecialFlags() {
		assert.True(t, f.Valid(), "flag %q", f)
	}

	assert.False(t, Resource("starships").Valid())
	assert.False(t, Resource("").Valid())
	assert.False(t, Resource("Customers").Valid())
	assert.False(t, Action("teleport").Valid())
	assert.False(t, SpecialFlag("launch_rockets").Valid())
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	resources := AllResources()
	resources[0] = "mutated"
	assert.NotEqual(t, Resource("mutated"), AllResources()[0])

	actions := AllActions()
	actions[0] = "mutated"
	assert.NotEqual(t, Action("mutated"), AllActions()[0])

	flags := AllSpecialFlags()
	flags[0] = "mutated"
	assert.NotEqual(t, SpecialFlag("mutated"), AllSpecialFlags()[0])
}
