package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/dto"
	"github.com/princinho/urbanthreads/models"
)

func (a *App) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cartView(st))
	}
}

func (a *App) AddToCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.AddToCartDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, ok := a.lookupProduct(c, body.ProductID)
		if !ok {
			return
		}
		if !p.HasSize(body.Size) || !p.HasColor(body.Color) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size or color not available for this product"})
			return
		}
		st, ok := a.store(c)
		if !ok {
			return
		}
		if err := st.AddToCart(c.Request.Context(), p, body.Size, body.Color, body.Quantity); err != nil {
			respondSaveError(c, "cart", err)
			return
		}
		c.JSON(http.StatusOK, cartView(st))
	}
}

// lineKey reports the cart line addressed by ?size=&color=. Without both the
// request addresses every line of the product.
func lineKey(c *gin.Context) (models.LineKey, bool) {
	size, hasSize := c.GetQuery("size")
	color, hasColor := c.GetQuery("color")
	key := models.LineKey{ProductID: c.Param("productId"), Size: size, Color: color}
	return key, hasSize && hasColor
}

func (a *App) UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.UpdateQuantityDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st, ok := a.store(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var err error
		if key, single := lineKey(c); single {
			err = st.UpdateCartLineQuantity(ctx, key, body.Quantity)
		} else {
			err = st.UpdateCartItemQuantity(ctx, key.ProductID, body.Quantity)
		}
		if err != nil {
			respondSaveError(c, "cart", err)
			return
		}
		c.JSON(http.StatusOK, cartView(st))
	}
}

func (a *App) RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var err error
		if key, single := lineKey(c); single {
			err = st.RemoveCartLine(ctx, key)
		} else {
			err = st.RemoveFromCart(ctx, key.ProductID)
		}
		if err != nil {
			respondSaveError(c, "cart", err)
			return
		}
		c.JSON(http.StatusOK, cartView(st))
	}
}

func (a *App) ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		if err := st.ClearCart(c.Request.Context()); err != nil {
			respondSaveError(c, "cart", err)
			return
		}
		c.JSON(http.StatusOK, cartView(st))
	}
}

// respondSaveError reports a persistence failure. The in-memory state has
// already changed and stays visible to later requests.
func respondSaveError(c *gin.Context, what string, err error) {
	log.Printf("save %s for visitor: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save " + what})
}

