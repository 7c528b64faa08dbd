package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princinho/urbanthreads/dto"
	"github.com/princinho/urbanthreads/forms"
	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/shop"
	"github.com/princinho/urbanthreads/utils"
)

const defaultMaxProductImages = 4

func (a *App) GetStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, shop.ComputeStats(a.Sessions.Catalog().Products()))
	}
}

func (a *App) AdminListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		items := shop.SearchAdmin(a.Sessions.Catalog().Products(), c.Query("q"))
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func productFromDTO(d dto.ProductDTO) models.Product {
	return models.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Images:      d.Images,
		Category:    d.Category,
		Colors:      d.Colors,
		Sizes:       d.Sizes,
		Featured:    d.Featured,
		NewArrival:  d.NewArrival,
		OnSale:      d.OnSale,
		Discount:    d.Discount,
		SKU:         d.SKU,
		Brand:       d.Brand,
		Material:    d.Material,
		Weight:      d.Weight,
		Stock:       d.Stock,
		Tags:        d.Tags,
	}
}

// validateProduct mirrors the ProductDTO binding rules for form submissions.
func validateProduct(p models.Product) error {
	switch {
	case len(p.Name) < 3:
		return errors.New("name must be at least 3 characters")
	case p.Price < 0:
		return errors.New("price must not be negative")
	case p.Discount < 0 || p.Discount > 100:
		return errors.New("discount must be between 0 and 100")
	case p.Stock < 0:
		return errors.New("stock must not be negative")
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == "multipart/form-data"
}

func (a *App) maxImages() int {
	if a.MaxProductImages > 0 {
		return a.MaxProductImages
	}
	return defaultMaxProductImages
}

// uploadImages validates then stores the files, returning their public URLs.
func (a *App) uploadImages(ctx context.Context, slug string, files []*multipart.FileHeader) ([]string, int, error) {
	if len(files) == 0 {
		return nil, 0, nil
	}
	for _, fh := range files {
		if _, err := a.ImageValidator.ValidateFile(fh); err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("%s: %w", fh.Filename, err)
		}
	}
	urls, err := a.Images.UploadProductImages(ctx, slug, files)
	if err != nil {
		if errors.Is(err, utils.ErrImagesDisabled) {
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusBadGateway, err
	}
	return urls, 0, nil
}

func (a *App) discardImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := a.Images.DeleteImages(ctx, urls); err != nil {
		log.Printf("delete product images: %v", err)
	}
}

func (a *App) AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var (
			product models.Product
			files   []*multipart.FileHeader
		)
		if isMultipart(c) {
			form, err := c.MultipartForm()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
				return
			}
			product = forms.DecodeProduct(models.Product{}, url.Values(form.Value), true)
			if err := validateProduct(product); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			files = form.File["images"]
		} else {
			var body dto.ProductDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product = productFromDTO(body)
		}

		if len(product.Images)+len(files) > a.maxImages() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Max %v images", a.maxImages())})
			return
		}
		product.ID = uuid.NewString()

		uploaded, status, err := a.uploadImages(ctx, utils.GenerateSlug(product.Name), files)
		if err != nil {
			c.JSON(status, gin.H{"image-upload-error": err.Error()})
			return
		}
		product.Images = utils.MergeImageUrlsArrays(product.Images, nil, uploaded)
		product = forms.Normalize(product)

		if err := a.Sessions.Catalog().Add(ctx, product); err != nil {
			if errors.Is(err, shop.ErrDuplicateID) {
				a.discardImages(ctx, uploaded)
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "field": "id"})
				return
			}
			log.Printf("persist catalog after add: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save catalog"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct replaces the product with the submitted fields. Multipart
// edits may also upload images and drop existing ones via removedImages.
func (a *App) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		existing, ok := a.lookupProduct(c, c.Param("id"))
		if !ok {
			return
		}

		var (
			product models.Product
			files   []*multipart.FileHeader
			removed []string
		)
		if isMultipart(c) {
			form, err := c.MultipartForm()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
				return
			}
			values := url.Values(form.Value)
			product = forms.DecodeProduct(existing, values, true)
			if err := validateProduct(product); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			removed = utils.IntersectStrings(utils.SplitList(values.Get("removedImages")), existing.Images)
			files = form.File["images"]
		} else {
			var body dto.ProductDTO
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product = productFromDTO(body)
		}
		product.ID = existing.ID

		kept := utils.MergeImageUrlsArrays(product.Images, removed, nil)
		if len(kept)+len(files) > a.maxImages() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Max %v images", a.maxImages())})
			return
		}
		uploaded, status, err := a.uploadImages(ctx, utils.GenerateSlug(product.Name), files)
		if err != nil {
			c.JSON(status, gin.H{"image-upload-error": err.Error()})
			return
		}
		product.Images = utils.MergeImageUrlsArrays(kept, nil, uploaded)
		if slices.Contains(removed, product.Image) {
			product.Image = ""
		}
		product = forms.Normalize(product)

		if err := a.Sessions.Catalog().Update(ctx, product); err != nil {
			if errors.Is(err, shop.ErrProductNotFound) {
				a.discardImages(ctx, uploaded)
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			log.Printf("persist catalog after update: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save catalog"})
			return
		}
		a.discardImages(ctx, removed)
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProduct keeps the product's images: carts and wishlists may still
// show them from their snapshots.
func (a *App) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.Sessions.Catalog().Remove(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, shop.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			log.Printf("persist catalog after delete: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save catalog"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
