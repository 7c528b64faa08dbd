package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/shop"
	"github.com/princinho/urbanthreads/utils"
)

// queryList accepts both repeated params and comma separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		out = append(out, utils.SplitList(v)...)
	}
	return out
}

func (a *App) GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		f := shop.Filter{
			Search:     strings.TrimSpace(c.Query("search")),
			Special:    strings.TrimSpace(c.Query("filter")),
			Categories: queryList(c, "category"),
			Sizes:      queryList(c, "size"),
			Colors:     queryList(c, "color"),
			MinPrice:   utils.ParseFloatQuery(c.Query("minPrice")),
			MaxPrice:   utils.ParseFloatQuery(c.Query("maxPrice")),
			Sort:       strings.TrimSpace(c.Query("sort")),
		}
		featured, err := utils.ParseBoolQuery(c.Query("featured"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "featured must be a boolean"})
			return
		}
		f.Featured = featured
		if f.Special != "" && f.Special != shop.SpecialNew && f.Special != shop.SpecialSale {
			c.JSON(http.StatusBadRequest, gin.H{"error": "filter must be new or sale"})
			return
		}
		switch f.Sort {
		case "", shop.SortFeatured, shop.SortNewest, shop.SortPriceLow, shop.SortPriceHigh:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort"})
			return
		}

		items := shop.FilterProducts(a.Sessions.Catalog().Products(), f)
		c.JSON(http.StatusOK, gin.H{
			"items":  items,
			"total":  len(items),
			"search": f.Search,
			"sort":   f.Sort,
		})
	}
}

func (a *App) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := a.Sessions.Catalog().Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func (a *App) GetFacets() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, shop.CollectFacets(a.Sessions.Catalog().Products()))
	}
}

// GetSuggestions serves type-ahead results. A request cancelled while the
// debounce delay runs gets no body.
func (a *App) GetSuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := utils.ParseIntDefault(c.Query("limit"), shop.DefaultSuggestionLimit)
		hits, err := shop.Suggest(c.Request.Context(), a.Sessions.Catalog().Products(), c.Query("q"), limit, a.SuggestDelay)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.Status(499)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": hits, "total": len(hits)})
	}
}

// lookupProduct resolves a catalog product or answers 404.
func (a *App) lookupProduct(c *gin.Context, id string) (models.Product, bool) {
	p, ok := a.Sessions.Catalog().Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	}
	return p, ok
}
