package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/middleware"
)

type RouterConfig struct {
	AllowedOrigins map[string]bool
	AdminEmail     string
}

// NewRouter mounts every storefront route on a fresh gin engine.
func NewRouter(app *App, rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			allowed := rc.AllowedOrigins[origin]
			if !allowed {
				log.Printf("CORS: origin %q rejected", origin)
			}
			return allowed
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.Use(middleware.Visitor(app.SecureCookies))
	r.Use(middleware.Authenticate(app.Auth))

	r.POST("/auth/signup", app.SignUp())
	r.POST("/auth/login", app.Login())
	r.POST("/auth/logout", app.Logout())
	r.POST("/auth/reset-password", app.ResetPassword())
	r.GET("/auth/me", middleware.RequireUser(), app.Me())

	r.GET("/products", app.GetProducts())
	r.GET("/products/facets", app.GetFacets())
	r.GET("/products/suggestions", app.GetSuggestions())
	r.GET("/products/:id", app.GetProduct())
	r.GET("/categories", app.GetCategories())
	r.GET("/categories/:slug", app.GetCategory())

	r.GET("/cart", app.GetCart())
	r.POST("/cart/items", app.AddToCart())
	r.PATCH("/cart/items/:productId", app.UpdateCartItem())
	r.DELETE("/cart/items/:productId", app.RemoveCartItem())
	r.DELETE("/cart", app.ClearCart())

	r.GET("/wishlist", app.GetWishlist())
	r.POST("/wishlist", app.ToggleWishlist())
	r.GET("/wishlist/:productId", app.GetWishlistStatus())
	r.DELETE("/wishlist/:productId", app.RemoveFromWishlist())

	r.GET("/checkout", app.GetCheckout())
	r.POST("/checkout/shipping", app.SubmitShipping())
	r.POST("/checkout/payment", app.SubmitPayment())
	r.POST("/checkout/back", app.CheckoutBack())
	r.POST("/checkout/order", app.PlaceOrder())

	admin := r.Group("/admin")
	admin.Use(middleware.AdminGate(rc.AdminEmail))
	{
		admin.GET("/stats", app.GetStats())
		admin.GET("/products", app.AdminListProducts())
		admin.POST("/products", app.AddProduct())
		admin.PUT("/products/:id", app.UpdateProduct())
		admin.DELETE("/products/:id", app.DeleteProduct())
	}
	return r
}
