package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/light-bringer/storefront/internal/app/catalog/domain"
)

func TestCart_Add(t *testing.T) {
	t.Run("add twice increments one line", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("7", 100))
		require.NoError(t, c.Add("7", 100))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, catalog.Money(200), c.Subtotal())
	})

	t.Run("price fixed at first add", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("7", 100))
		require.NoError(t, c.Add("7", 80))

		line, ok := c.Line("7")
		require.True(t, ok)
		assert.Equal(t, catalog.Money(100), line.UnitPrice)
		assert.Equal(t, catalog.Money(200), c.Subtotal())
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("b", 1))
		require.NoError(t, c.Add("a", 1))
		require.NoError(t, c.Add("b", 1))

		lines := c.Lines()
		assert.Equal(t, "b", lines[0].ItemID)
		assert.Equal(t, "a", lines[1].ItemID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		var c Cart
		assert.ErrorIs(t, c.Add("", 1), ErrEmptyItemID)
		assert.ErrorIs(t, c.Add("1", -1), ErrNegativePrice)
		assert.True(t, c.Empty())
	})
}

func TestCart_SetQuantity(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 50))

	require.NoError(t, c.SetQuantity("1", 4))
	assert.Equal(t, 4, c.Count())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, catalog.Money(200), c.Subtotal())

	t.Run("zero removes", func(t *testing.T) {
		require.NoError(t, c.SetQuantity("1", 0))
		assert.True(t, c.Empty())
	})

	t.Run("unknown item", func(t *testing.T) {
		assert.ErrorIs(t, c.SetQuantity("nope", 2), ErrLineNotFound)
	})

	t.Run("zero on unknown item is a no-op like remove", func(t *testing.T) {
		var other Cart
		require.NoError(t, other.Add("1", 50))

		assert.NoError(t, other.SetQuantity("nope", 0))
		assert.NoError(t, other.SetQuantity("nope", -3))
		assert.Equal(t, 1, other.Count())
	})
}

func TestCart_SetQuantityNegativeRemoves(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 50))
	require.NoError(t, c.Add("2", 10))

	require.NoError(t, c.SetQuantity("1", -3))
	_, ok := c.Line("1")
	assert.False(t, ok)
	assert.Equal(t, catalog.Money(10), c.Subtotal())
}

func TestCart_RemoveAndClear(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 50))
	require.NoError(t, c.Add("2", 10))

	assert.True(t, c.Remove("1"))
	assert.False(t, c.Remove("1"))
	assert.Equal(t, 1, c.Count())

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, catalog.Money(0), c.Subtotal())
}

func TestCart_LinesIsACopy(t *testing.T) {
	var c Cart
	require.NoError(t, c.Add("1", 50))

	lines := c.Lines()
	lines[0].Quantity = 99

	line, _ := c.Line("1")
	assert.Equal(t, 1, line.Quantity)
}

func TestDecode(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var c Cart
		require.NoError(t, c.Add("1", 50))
		require.NoError(t, c.Add("2", 10))
		require.NoError(t, c.Add("1", 50))

		data, err := c.MarshalJSON()
		require.NoError(t, err)

		back, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, c.Lines(), back.Lines())
	})

	t.Run("empty cart encodes as array", func(t *testing.T) {
		var c Cart
		data, err := c.MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"wrong shape", `{"item_id":"1"}`},
		{"duplicate item", `[{"item_id":"1","quantity":1,"unit_price":5},{"item_id":"1","quantity":2,"unit_price":5}]`},
		{"zero quantity", `[{"item_id":"1","quantity":0,"unit_price":5}]`},
		{"negative price", `[{"item_id":"1","quantity":1,"unit_price":-5}]`},
		{"missing id", `[{"quantity":1,"unit_price":5}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}
