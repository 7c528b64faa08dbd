package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/shop"
)

func (a *App) GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		items := shop.Categories(a.Sessions.Catalog().Products())
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

// GetCategory returns the category with its products, featured first.
func (a *App) GetCategory() gin.HandlerFunc {
	return func(c *gin.Context) {
		products := a.Sessions.Catalog().Products()
		cat, ok := shop.CategoryBySlug(products, c.Param("slug"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		items := shop.FilterProducts(products, shop.Filter{Categories: []string{cat.Name}})
		c.JSON(http.StatusOK, gin.H{"category": cat, "items": items, "total": len(items)})
	}
}
