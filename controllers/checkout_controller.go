package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/checkout"
	"github.com/princinho/urbanthreads/dto"
	"github.com/princinho/urbanthreads/middleware"
	"github.com/princinho/urbanthreads/shop"
)

// RedirectAfterLoginCookie remembers where a visitor was sent away from. Only
// the checkout guard writes it and a successful login consumes it.
const RedirectAfterLoginCookie = "redirectAfterLogin"

func (a *App) setRedirectAfterLogin(c *gin.Context, path string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     RedirectAfterLoginCookie,
		Value:    path,
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// respondCheckoutError maps flow errors to responses. Guard failures carry
// the page the client should navigate to.
func (a *App) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		a.setRedirectAfterLogin(c, checkout.CheckoutPath)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": checkout.RedirectFor(err)})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": checkout.RedirectFor(err)})
	case errors.Is(err, checkout.ErrInvalidStep), errors.Is(err, checkout.ErrOrderInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func flowView(f *checkout.Flow) gin.H {
	payment := f.Payment()
	return gin.H{
		"step":           f.Step().String(),
		"shipping":       f.Shipping(),
		"shippingMethod": f.Method(),
		"payment": gin.H{
			"cardName":   payment.CardName,
			"cardNumber": payment.MaskedCardNumber(),
			"expMonth":   payment.ExpMonth,
			"expYear":    payment.ExpYear,
		},
		"totals": totalsView(f.Totals()),
	}
}

// enter applies the checkout guards and returns the visitor's flow.
func (a *App) enter(c *gin.Context) (*checkout.Flow, *shop.Store, bool) {
	st, ok := a.store(c)
	if !ok {
		return nil, nil, false
	}
	f, err := a.Checkouts.Enter(middleware.VisitorID(c), middleware.CurrentUser(c), st)
	if err != nil {
		a.respondCheckoutError(c, err)
		return nil, nil, false
	}
	return f, st, true
}

func (a *App) GetCheckout() gin.HandlerFunc {
	return func(c *gin.Context) {
		f, st, ok := a.enter(c)
		if !ok {
			return
		}
		view := flowView(f)
		view["items"] = st.CartItems()
		c.JSON(http.StatusOK, view)
	}
}

func (a *App) SubmitShipping() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ShippingDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		method, err := checkout.ParseShippingMethod(body.Method)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f, _, ok := a.enter(c)
		if !ok {
			return
		}
		info := checkout.ShippingInfo{
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Address:   body.Address,
			City:      body.City,
			State:     body.State,
			ZipCode:   body.ZipCode,
			Country:   body.Country,
			Phone:     body.Phone,
			Email:     body.Email,
		}
		if err := f.SubmitShipping(info, method); err != nil {
			a.respondCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, flowView(f))
	}
}

func (a *App) SubmitPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.PaymentDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f, _, ok := a.enter(c)
		if !ok {
			return
		}
		info := checkout.PaymentInfo{
			CardName:   body.CardName,
			CardNumber: body.CardNumber,
			ExpMonth:   body.ExpMonth,
			ExpYear:    body.ExpYear,
			CVV:        body.CVV,
		}
		if err := f.SubmitPayment(info); err != nil {
			a.respondCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, flowView(f))
	}
}

func (a *App) CheckoutBack() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.BackDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		to, err := checkout.ParseStep(body.Step)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f, _, ok := a.enter(c)
		if !ok {
			return
		}
		if err := f.Back(to); err != nil {
			a.respondCheckoutError(c, err)
			return
		}
		c.JSON(http.StatusOK, flowView(f))
	}
}

// PlaceOrder blocks for the simulated processing delay. The user and the cart
// are checked again inside the flow, so a session that ended or a cart that
// was emptied mid-checkout leaves the flow at review.
func (a *App) PlaceOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		visitorID := middleware.VisitorID(c)
		f, ok := a.Checkouts.Resume(visitorID, st)
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "no checkout in progress", "redirect": checkout.CheckoutPath})
			return
		}
		confirmation, err := f.PlaceOrder(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			a.respondCheckoutError(c, err)
			return
		}
		a.Checkouts.Discard(visitorID)
		c.JSON(http.StatusOK, gin.H{
			"orderNumber": confirmation.OrderNumber,
			"email":       confirmation.Email,
			"itemCount":   confirmation.ItemCount,
			"totals":      totalsView(confirmation.Totals),
			"placedAt":    confirmation.PlacedAt,
			"redirect":    checkout.ConfirmationPath,
		})
	}
}
