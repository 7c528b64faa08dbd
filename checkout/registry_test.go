package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryEnterAppliesGuards(t *testing.T) {
	r := NewRegistry(0)
	_, err := r.Enter("v1", nil, cartWith(10, 1))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = r.Enter("v1", shopper, &fakeCart{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, ok := r.Current("v1")
	assert.False(t, ok)
}

func TestRegistryResumesRunningFlow(t *testing.T) {
	r := NewRegistry(0)
	cart := cartWith(10, 1)
	f, err := r.Enter("v1", shopper, cart)
	require.NoError(t, err)
	require.NoError(t, f.SubmitShipping(shipping(), Standard))

	again, err := r.Enter("v1", shopper, cart)
	require.NoError(t, err)
	assert.Same(t, f, again)
	assert.Equal(t, StepPayment, again.Step())

	other, err := r.Enter("v2", shopper, cartWith(5, 1))
	require.NoError(t, err)
	assert.NotSame(t, f, other)
}

func TestRegistryDiscardAndEviction(t *testing.T) {
	r := NewRegistry(1)
	_, err := r.Enter("v1", shopper, cartWith(10, 1))
	require.NoError(t, err)
	_, err = r.Enter("v2", shopper, cartWith(10, 1))
	require.NoError(t, err)

	_, ok := r.Current("v1")
	assert.False(t, ok)

	r.Discard("v2")
	_, ok = r.Current("v2")
	assert.False(t, ok)
}

func TestRegistryResumeRebindsCart(t *testing.T) {
	r := NewRegistry(0, WithOrderDelay(0))
	stale := cartWith(10, 1)
	f, err := r.Enter("v1", shopper, stale)
	require.NoError(t, err)
	require.NoError(t, f.SubmitShipping(shipping(), Standard))
	require.NoError(t, f.SubmitPayment(payment()))

	live := cartWith(10, 3)
	resumed, ok := r.Resume("v1", live)
	require.True(t, ok)
	assert.Same(t, f, resumed)

	confirmation, err := resumed.PlaceOrder(context.Background(), shopper)
	require.NoError(t, err)
	assert.Equal(t, 3, confirmation.ItemCount)
	assert.Empty(t, live.CartItems())
	assert.Len(t, stale.CartItems(), 1)

	_, ok = r.Resume("v2", live)
	assert.False(t, ok)
}
