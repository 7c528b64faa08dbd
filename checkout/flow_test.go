package checkout

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/princinho/urbanthreads/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCart struct {
	mu    sync.Mutex
	items []models.CartItem
}

func cartWith(price float64, qty int) *fakeCart {
	return &fakeCart{items: []models.CartItem{{
		Product:       models.Product{ID: "1", Name: "Modern Minimal Tee", Price: price},
		Quantity:      qty,
		SelectedSize:  "M",
		SelectedColor: "Black",
	}}}
}

func (c *fakeCart) CartItems() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem(nil), c.items...)
}

func (c *fakeCart) CartTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (c *fakeCart) ClearCart(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return nil
}

var shopper = &models.User{ID: "u1", Email: "shopper@example.com"}

func shipping() ShippingInfo {
	return ShippingInfo{
		FirstName: "Ada", LastName: "Lovelace", Address: "1 Main St", City: "Springfield",
		State: "IL", ZipCode: "62701", Country: "United States", Phone: "555-0100",
		Email: "shopper@example.com",
	}
}

func payment() PaymentInfo {
	return PaymentInfo{CardName: "Ada Lovelace", CardNumber: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVV: "123"}
}

func reviewFlow(t *testing.T, cart Cart, opts ...Option) *Flow {
	t.Helper()
	f, err := Begin(shopper, cart, opts...)
	require.NoError(t, err)
	require.NoError(t, f.SubmitShipping(shipping(), Express))
	require.NoError(t, f.SubmitPayment(payment()))
	require.Equal(t, StepReview, f.Step())
	return f
}

func TestGuard(t *testing.T) {
	assert.ErrorIs(t, Guard(nil, cartWith(10, 1)), ErrNotAuthenticated)
	assert.ErrorIs(t, Guard(nil, &fakeCart{}), ErrNotAuthenticated)
	assert.ErrorIs(t, Guard(shopper, &fakeCart{}), ErrEmptyCart)
	assert.NoError(t, Guard(shopper, cartWith(10, 1)))
}

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, "/login", RedirectFor(ErrNotAuthenticated))
	assert.Equal(t, "/cart", RedirectFor(ErrEmptyCart))
	assert.Empty(t, RedirectFor(ErrInvalidStep))
}

func TestBeginPrefillsShipping(t *testing.T) {
	f, err := Begin(shopper, cartWith(10, 1))
	require.NoError(t, err)
	assert.Equal(t, StepShipping, f.Step())
	assert.Equal(t, "United States", f.Shipping().Country)
	assert.Equal(t, "shopper@example.com", f.Shipping().Email)
	assert.Equal(t, Standard, f.Method())
}

func TestStepsMoveForwardInOrder(t *testing.T) {
	f, err := Begin(shopper, cartWith(10, 1))
	require.NoError(t, err)

	assert.ErrorIs(t, f.SubmitPayment(payment()), ErrInvalidStep)
	require.NoError(t, f.SubmitShipping(shipping(), NextDay))
	assert.Equal(t, StepPayment, f.Step())
	assert.ErrorIs(t, f.SubmitShipping(shipping(), Standard), ErrInvalidStep)
	require.NoError(t, f.SubmitPayment(payment()))
	assert.Equal(t, StepReview, f.Step())
	assert.Equal(t, NextDay, f.Method())
}

func TestBackKeepsEnteredData(t *testing.T) {
	f := reviewFlow(t, cartWith(10, 1))

	require.NoError(t, f.Back(StepShipping))
	assert.Equal(t, StepShipping, f.Step())
	assert.Equal(t, "Ada", f.Shipping().FirstName)
	assert.Equal(t, "4242424242424242", f.Payment().CardNumber)

	assert.ErrorIs(t, f.Back(StepShipping), ErrInvalidStep)
	assert.ErrorIs(t, f.Back(StepReview), ErrInvalidStep)
}

func TestTotalsFollowCartAndMethod(t *testing.T) {
	cart := cartWith(60, 2)
	f, err := Begin(shopper, cart)
	require.NoError(t, err)
	assert.Equal(t, "0", f.Totals().Shipping.String())
	assert.Equal(t, "129.6", f.Totals().Total.String())

	require.NoError(t, f.SubmitShipping(shipping(), Express))
	assert.Equal(t, "15", f.Totals().Shipping.String())
}

func TestPlaceOrderClearsCartAndCompletes(t *testing.T) {
	cart := cartWith(25, 2)
	f := reviewFlow(t, cart, WithOrderDelay(0))

	conf, err := f.PlaceOrder(context.Background(), shopper)
	require.NoError(t, err)
	assert.Regexp(t, `^UT-\d{6}$`, conf.OrderNumber)
	assert.Equal(t, "shopper@example.com", conf.Email)
	assert.Equal(t, 2, conf.ItemCount)
	assert.Equal(t, "69", conf.Totals.Total.String())
	assert.Equal(t, StepCompleted, f.Step())
	assert.Empty(t, cart.CartItems())

	_, err = f.PlaceOrder(context.Background(), shopper)
	assert.ErrorIs(t, err, ErrInvalidStep)
	assert.ErrorIs(t, f.Back(StepPayment), ErrInvalidStep)
}

func TestPlaceOrderWithoutUserLeavesFlowAtReview(t *testing.T) {
	cart := cartWith(25, 2)
	f := reviewFlow(t, cart, WithOrderDelay(0))

	_, err := f.PlaceOrder(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, StepReview, f.Step())
	assert.Len(t, cart.CartItems(), 1)
}

func TestPlaceOrderWithEmptyCartLeavesFlowAtReview(t *testing.T) {
	cart := cartWith(25, 2)
	f := reviewFlow(t, cart, WithOrderDelay(0))
	require.NoError(t, cart.ClearCart(context.Background()))

	confirmation, err := f.PlaceOrder(context.Background(), shopper)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, confirmation)
	assert.Equal(t, StepReview, f.Step())
	assert.Equal(t, CartPath, RedirectFor(err))
}

func TestPlaceOrderBeforeReview(t *testing.T) {
	f, err := Begin(shopper, cartWith(10, 1))
	require.NoError(t, err)
	_, err = f.PlaceOrder(context.Background(), shopper)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestPlaceOrderCancelledKeepsCart(t *testing.T) {
	cart := cartWith(25, 2)
	f := reviewFlow(t, cart, WithOrderDelay(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.PlaceOrder(ctx, shopper)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StepReview, f.Step())
	assert.Len(t, cart.CartItems(), 1)
}

// gatedCart parks the first armed CartItems call until released.
type gatedCart struct {
	*fakeCart
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedCart) CartItems() []models.CartItem {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.fakeCart.CartItems()
}

func TestPlaceOrderRejectsConcurrentPlacement(t *testing.T) {
	cart := &gatedCart{fakeCart: cartWith(25, 2), entered: make(chan struct{}), release: make(chan struct{})}
	f := reviewFlow(t, cart, WithOrderDelay(0))
	cart.armed.Store(true)

	done := make(chan error, 1)
	go func() {
		_, err := f.PlaceOrder(context.Background(), shopper)
		done <- err
	}()
	<-cart.entered

	_, err := f.PlaceOrder(context.Background(), shopper)
	assert.ErrorIs(t, err, ErrOrderInProgress)
	assert.ErrorIs(t, f.Back(StepShipping), ErrInvalidStep)

	close(cart.release)
	require.NoError(t, <-done)
	assert.Equal(t, StepCompleted, f.Step())
}

func TestMaskedCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 4242", payment().MaskedCardNumber())
	assert.Equal(t, "123", PaymentInfo{CardNumber: "123"}.MaskedCardNumber())
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep("payment")
	require.NoError(t, err)
	assert.Equal(t, StepPayment, s)
	_, err = ParseStep("shipping-ish")
	assert.Error(t, err)
}
