package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/dto"
)

func (a *App) GetWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		items := st.Wishlist()
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func (a *App) ToggleWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.WishlistDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, ok := a.lookupProduct(c, body.ProductID)
		if !ok {
			return
		}
		st, ok := a.store(c)
		if !ok {
			return
		}
		added, err := st.ToggleWishlist(c.Request.Context(), p)
		if err != nil {
			respondSaveError(c, "wishlist", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"inWishlist": added, "total": len(st.Wishlist())})
	}
}

func (a *App) GetWishlistStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"inWishlist": st.IsInWishlist(c.Param("productId"))})
	}
}

func (a *App) RemoveFromWishlist() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := a.store(c)
		if !ok {
			return
		}
		if err := st.RemoveFromWishlist(c.Request.Context(), c.Param("productId")); err != nil {
			respondSaveError(c, "wishlist", err)
			return
		}
		items := st.Wishlist()
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}
