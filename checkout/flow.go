// Package checkout drives the three-step checkout: shipping, payment, review,
// then a simulated order placement.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/princinho/urbanthreads/models"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	case StepCompleted:
		return "completed"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

func ParseStep(s string) (Step, error) {
	for _, st := range []Step{StepShipping, StepPayment, StepReview, StepCompleted} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown checkout step %q", s)
}

// Redirect targets used by the guards.
const (
	SignInPath       = "/login"
	CartPath         = "/cart"
	CheckoutPath     = "/checkout"
	ConfirmationPath = "/order-confirmation"
)

var (
	ErrNotAuthenticated = errors.New("sign in required to check out")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidStep      = errors.New("not allowed at this checkout step")
	ErrOrderInProgress  = errors.New("order is already being placed")
)

// RedirectFor maps a guard error to the page the visitor is sent to, or ""
// when err is not a guard error.
func RedirectFor(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return SignInPath
	case errors.Is(err, ErrEmptyCart):
		return CartPath
	}
	return ""
}

// Cart is the part of the shop store checkout needs.
type Cart interface {
	CartItems() []models.CartItem
	CartTotal() decimal.Decimal
	ClearCart(ctx context.Context) error
}

type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type PaymentInfo struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	ExpMonth   string `json:"expMonth"`
	ExpYear    string `json:"expYear"`
	CVV        string `json:"-"`
}

// MaskedCardNumber keeps the last four digits.
func (p PaymentInfo) MaskedCardNumber() string {
	n := len(p.CardNumber)
	if n <= 4 {
		return p.CardNumber
	}
	return "**** **** **** " + p.CardNumber[n-4:]
}

type Option func(*Flow)

// WithOrderDelay sets the simulated order processing latency.
func WithOrderDelay(d time.Duration) Option {
	return func(f *Flow) { f.delay = d }
}

// Guard checks the entry conditions: a signed-in user and a non-empty cart.
func Guard(user *models.User, cart Cart) error {
	if user == nil {
		return ErrNotAuthenticated
	}
	if len(cart.CartItems()) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// Flow is one visitor's checkout. Nothing in it is persisted.
type Flow struct {
	mu       sync.Mutex
	cart     Cart
	step     Step
	shipping ShippingInfo
	payment  PaymentInfo
	method   ShippingMethod
	delay    time.Duration
	placing  bool
}

// Begin starts a checkout at the shipping step, or fails with a guard error.
func Begin(user *models.User, cart Cart, opts ...Option) (*Flow, error) {
	if err := Guard(user, cart); err != nil {
		return nil, err
	}
	f := &Flow{
		cart:     cart,
		step:     StepShipping,
		method:   Standard,
		shipping: ShippingInfo{Country: "United States", Email: user.Email},
		delay:    2 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Flow) attach(cart Cart) {
	f.mu.Lock()
	f.cart = cart
	f.mu.Unlock()
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Shipping() ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

func (f *Flow) Payment() PaymentInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payment
}

func (f *Flow) Method() ShippingMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.method
}

// Totals is recomputed from the current cart on every call.
func (f *Flow) Totals() models.Totals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ComputeTotals(f.cart.CartTotal(), f.method)
}

func (f *Flow) SubmitShipping(info ShippingInfo, method ShippingMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepShipping {
		return ErrInvalidStep
	}
	f.shipping = info
	f.method = method
	f.step = StepPayment
	return nil
}

func (f *Flow) SubmitPayment(info PaymentInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != StepPayment {
		return ErrInvalidStep
	}
	f.payment = info
	f.step = StepReview
	return nil
}

// Back returns to an earlier step. Entered data is kept.
func (f *Flow) Back(to Step) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepCompleted || f.placing || to < StepShipping || to >= f.step {
		return ErrInvalidStep
	}
	f.step = to
	return nil
}

// PlaceOrder completes the checkout from the review step. The user and the
// cart are checked again because either may have changed mid-flow; in that
// case the flow stays at review. After the simulated delay the cart is cleared.
func (f *Flow) PlaceOrder(ctx context.Context, user *models.User) (*models.OrderConfirmation, error) {
	ctx, span := otel.Tracer("github.com/princinho/urbanthreads/checkout").Start(ctx, "checkout.PlaceOrder")
	defer span.End()

	f.mu.Lock()
	if user == nil {
		f.mu.Unlock()
		span.SetStatus(codes.Error, ErrNotAuthenticated.Error())
		return nil, ErrNotAuthenticated
	}
	if f.step != StepReview {
		f.mu.Unlock()
		return nil, ErrInvalidStep
	}
	if f.placing {
		f.mu.Unlock()
		return nil, ErrOrderInProgress
	}
	f.placing = true
	cart, method, delay := f.cart, f.method, f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.placing = false
		f.mu.Unlock()
	}()

	items := cart.CartItems()
	if len(items) == 0 {
		span.SetStatus(codes.Error, ErrEmptyCart.Error())
		return nil, ErrEmptyCart
	}
	totals := ComputeTotals(cart.CartTotal(), method)
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	span.SetAttributes(
		attribute.Int("checkout.item_count", count),
		attribute.String("checkout.shipping_method", string(method)),
	)

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			span.SetStatus(codes.Error, "cancelled")
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if err := cart.ClearCart(ctx); err != nil {
		// the in-memory cart is empty already; only the snapshot write failed
		log.Printf("checkout: clearing cart after order: %v", err)
	}

	f.mu.Lock()
	f.step = StepCompleted
	f.mu.Unlock()

	confirmation := &models.OrderConfirmation{
		OrderNumber: fmt.Sprintf("UT-%06d", rand.IntN(1000000)),
		Email:       user.Email,
		ItemCount:   count,
		Totals:      totals,
		PlacedAt:    time.Now().UTC(),
	}
	log.Printf("checkout: order %s placed by %s (%d items)", confirmation.OrderNumber, user.Email, count)
	return confirmation, nil
}
