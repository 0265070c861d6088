package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	o, err := NewOrder("ORDER1", dec("100.00"), []string{"mZysk", "", "BosBankrut", "mZysk"})
	require.NoError(t, err)

	assert.Equal(t, "ORDER1", o.ID())
	assert.True(t, o.Value().Equal(dec("100")))
	assert.Equal(t, []string{"BosBankrut", "mZysk"}, o.PromotionIDs())
	assert.True(t, o.IsEligible("mZysk"))
	assert.False(t, o.IsEligible(""))
	assert.False(t, o.IsEligible("PUNKTY"))
}

func TestNewOrder_NoPromotions(t *testing.T) {
	o, err := NewOrder("ORDER2", dec("0"), nil)
	require.NoError(t, err)
	assert.Empty(t, o.PromotionIDs())
	assert.True(t, o.Value().IsZero())
}

func TestNewOrder_Invalid(t *testing.T) {
	_, err := NewOrder("", dec("1"), nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = NewOrder("ORDER1", dec("-0.01"), nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestAllocationState(t *testing.T) {
	assert.False(t, StateEvaluating.IsTerminal())
	assert.True(t, StateAllocated.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
}
