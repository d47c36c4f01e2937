package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	for _, in := range []string{"menu_items", "menu-items"} {
		r, err := ParseResource(in)
		require.NoError(t, err)
		assert.Equal(t, ResourceMenuItems, r)
	}

	r, err := ParseResource("promotions")
	require.NoError(t, err)
	assert.Equal(t, "promotions", r.Path())

	_, err = ParseResource("orders")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestResource_Valid(t *testing.T) {
	for _, r := range Resources {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Resource("menu-items").Valid(), "paths are not resource names")
	assert.False(t, Resource("").Valid())
}
