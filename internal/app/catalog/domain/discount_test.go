package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageOff(t *testing.T) {
	t.Run("valid percentage", func(t *testing.T) {
		d, err := PercentageOff(20)
		require.NoError(t, err)
		assert.Equal(t, DiscountPercentage, d.Kind())
		assert.Equal(t, 20.0, d.Percentage())
		assert.Nil(t, d.DiscountedPrice(), "percentage discounts are not priced locally")
	})

	t.Run("percentage below 0 returns error", func(t *testing.T) {
		_, err := PercentageOff(-1)
		assert.ErrorIs(t, err, ErrInvalidPercentage)
	})

	t.Run("percentage above 100 returns error", func(t *testing.T) {
		_, err := PercentageOff(101)
		assert.ErrorIs(t, err, ErrInvalidPercentage)
	})
}

func TestAmountOff(t *testing.T) {
	t.Run("with precomputed price", func(t *testing.T) {
		d, err := AmountOff(200, MoneyPtr(800))
		require.NoError(t, err)
		assert.Equal(t, DiscountAmountOff, d.Kind())
		assert.Equal(t, Money(200), d.Amount())
		require.NotNil(t, d.DiscountedPrice())
		assert.Equal(t, Money(800), *d.DiscountedPrice())
	})

	t.Run("without precomputed price", func(t *testing.T) {
		d, err := AmountOff(200, nil)
		require.NoError(t, err)
		assert.Nil(t, d.DiscountedPrice())
	})

	t.Run("negative amount returns error", func(t *testing.T) {
		_, err := AmountOff(-5, nil)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestFixedPrice(t *testing.T) {
	d, err := FixedPrice(650)
	require.NoError(t, err)
	assert.Equal(t, DiscountFixedPrice, d.Kind())
	require.NotNil(t, d.DiscountedPrice())
	assert.Equal(t, Money(650), *d.DiscountedPrice())

	// callers cannot mutate the spec through the returned pointer
	*d.DiscountedPrice() = 1
	assert.Equal(t, Money(650), *d.DiscountedPrice())

	_, err = FixedPrice(-1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestDiscountSpec_WithPercentage(t *testing.T) {
	d, err := FixedPrice(800)
	require.NoError(t, err)

	d = d.WithPercentage(20)
	assert.Equal(t, 20.0, d.Percentage())
	assert.Equal(t, DiscountFixedPrice, d.Kind())

	d = NoDiscount().WithPercentage(150)
	assert.Equal(t, 0.0, d.Percentage())
}

func TestResolvedEntry_EffectivePrice(t *testing.T) {
	item := MenuItem{ID: "1", Price: 1000}

	assert.Equal(t, Money(1000), ResolvedEntry{Item: item}.EffectivePrice())
	assert.Equal(t, Money(700), ResolvedEntry{Item: item, DiscountPrice: MoneyPtr(700)}.EffectivePrice())
}
