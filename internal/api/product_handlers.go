package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/aura-store/internal/httpx"
	"github.com/MikeMC777/aura-store/internal/media"
	"github.com/MikeMC777/aura-store/internal/product"
)

// imageFields are the multipart file fields accepted for a product, in display order.
var imageFields = []string{"image1", "image2", "image3", "image4"}

// addProductHandler godoc
//
//	@Summary	Create a product with up to four images
//	@Tags		product
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	TokenAuth
//	@Param		name		formData	string	true	"name"
//	@Param		description	formData	string	false	"description"
//	@Param		price		formData	string	true	"price"
//	@Param		category	formData	string	false	"category"
//	@Param		subCategory	formData	string	false	"sub category"
//	@Param		sizes		formData	string	false	"JSON array of sizes"
//	@Param		bestseller	formData	string	false	"true or false"
//	@Param		image1		formData	file	false	"image"
//	@Success	201			{object}	map[string]any
//	@Failure	400			{object}	httpx.ErrorResponse
//	@Router		/product/add [post]
func addProductHandler(repo product.Repository, store media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			httpx.Fail(c, http.StatusBadRequest, "name is required")
			return
		}
		price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
		if err != nil {
			httpx.Fail(c, http.StatusBadRequest, "price must be a positive number")
			return
		}
		if err := product.ValidatePrice(price); err != nil {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		sizes := []string{}
		if raw := strings.TrimSpace(c.PostForm("sizes")); raw != "" {
			if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
				httpx.Fail(c, http.StatusBadRequest, "sizes must be a JSON array of strings")
				return
			}
		}

		ctx := c.Request.Context()
		var assets []media.Asset
		for _, field := range imageFields {
			fh, err := c.FormFile(field)
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			if err != nil {
				discard(ctx, store, assets)
				httpx.Fail(c, http.StatusBadRequest, "invalid "+field)
				return
			}
			f, err := fh.Open()
			if err != nil {
				discard(ctx, store, assets)
				httpx.Fail(c, http.StatusBadRequest, "invalid "+field)
				return
			}
			a, err := store.Upload(ctx, f, fh.Filename)
			_ = f.Close()
			if err != nil {
				discard(ctx, store, assets)
				_ = c.Error(err)
				httpx.Fail(c, http.StatusBadGateway, "image upload failed")
				return
			}
			assets = append(assets, a)
		}

		images := make([]string, 0, len(assets))
		for _, a := range assets {
			images = append(images, a.URL)
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        name,
			Description: c.PostForm("description"),
			Price:       price,
			Images:      images,
			Category:    c.PostForm("category"),
			SubCategory: c.PostForm("subCategory"),
			Sizes:       sizes,
			Bestseller:  c.PostForm("bestseller") == "true",
		}
		if err := repo.Create(ctx, p); err != nil {
			discard(ctx, store, assets)
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not create product")
			return
		}
		log.Info().Str("product_id", p.ID).Int("images", len(images)).Msg("product added")
		httpx.OK(c, http.StatusCreated, gin.H{"message": "Product Added", "product": p})
	}
}

// discard removes already uploaded images after a failed create.
func discard(ctx context.Context, store media.Store, assets []media.Asset) {
	for _, a := range assets {
		if err := store.Delete(context.WithoutCancel(ctx), a.PublicID); err != nil {
			log.Warn().Err(err).Str("public_id", a.PublicID).Msg("orphaned image")
		}
	}
}

func bindProductID(c *gin.Context) (string, bool) {
	var req product.IDRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value() == "" {
		httpx.Fail(c, http.StatusBadRequest, "id is required")
		return "", false
	}
	id, ok := product.CanonicalID(req.Value())
	if !ok {
		httpx.Fail(c, http.StatusNotFound, "product not found")
		return "", false
	}
	return id, true
}

// removeProductHandler godoc
//
//	@Summary	Delete a product
//	@Tags		product
//	@Accept		json
//	@Produce	json
//	@Security	TokenAuth
//	@Param		body	body		product.IDRequest	true	"product id"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/product/remove [post]
func removeProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindProductID(c)
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not remove product")
			return
		}
		if !deleted {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "Product Removed"})
	}
}

// singleProductHandler godoc
//
//	@Summary	Fetch one product
//	@Tags		product
//	@Accept		json
//	@Produce	json
//	@Param		body	body		product.IDRequest	true	"product id"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/product/single [post]
func singleProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bindProductID(c)
		if !ok {
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				httpx.Fail(c, http.StatusNotFound, "product not found")
				return
			}
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not load product")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"product": p})
	}
}

// listProductsHandler godoc
//
//	@Summary	List products, newest first
//	@Tags		product
//	@Produce	json
//	@Param		q			query		string	false	"name/description search"
//	@Param		category	query		string	false	"category"
//	@Param		limit		query		int		false	"page size (max 500)"
//	@Param		offset		query		int		false	"offset"
//	@Success	200			{object}	product.ListResponse
//	@Router		/product/list [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(product.DefaultLimit)))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		q := product.Query{
			Q:        c.Query("q"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   offset,
		}.Normalize()

		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not list products")
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{
			Success:  true,
			Q:        q.Q,
			Category: q.Category,
			Limit:    q.Limit,
			Offset:   q.Offset,
			Products: items,
		})
	}
}
