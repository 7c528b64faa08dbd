package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/checkout"
	"github.com/princinho/urbanthreads/middleware"
	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/shop"
	"github.com/princinho/urbanthreads/utils"
	"github.com/shopspring/decimal"
)

// App carries the dependencies every handler needs. It is built once in main.
type App struct {
	Sessions       *shop.Sessions
	Checkouts      *checkout.Registry
	Auth           *auth.Service
	Images         utils.ImageStore
	ImageValidator *utils.FileValidator

	MaxProductImages int
	SuggestDelay     time.Duration
	SecureCookies    bool
}

// store resolves the visitor's shop store, answering 500 itself on failure.
func (a *App) store(c *gin.Context) (*shop.Store, bool) {
	st, err := a.Sessions.Store(c.Request.Context(), middleware.VisitorID(c))
	if err != nil {
		log.Printf("open visitor store: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shop state"})
		return nil, false
	}
	return st, true
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func totalsView(t models.Totals) gin.H {
	return gin.H{
		"subtotal": money(t.Subtotal),
		"shipping": money(t.Shipping),
		"tax":      money(t.Tax),
		"total":    money(t.Total),
	}
}

func cartView(st *shop.Store) gin.H {
	return gin.H{
		"items":     st.CartItems(),
		"cartTotal": money(st.CartTotal()),
		"cartCount": st.CartCount(),
	}
}
