package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/aura-store/internal/cart"
	"github.com/MikeMC777/aura-store/internal/httpx"
	"github.com/MikeMC777/aura-store/internal/product"
)

// AddToCartRequest adds one unit of a product size.
// swagger:model AddToCartRequest
type AddToCartRequest struct {
	ItemID string `json:"itemId" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Size   string `json:"size"   binding:"required" example:"M"`
}

// UpdateCartRequest sets the quantity of a product size; zero removes it.
// swagger:model UpdateCartRequest
type UpdateCartRequest struct {
	ItemID   string `json:"itemId"   binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Size     string `json:"size"     binding:"required" example:"M"`
	Quantity *int   `json:"quantity" binding:"required" example:"2"`
}

// lookupCartProduct loads the product and checks the size; it writes the
// failure response itself. The returned id is in canonical form.
func lookupCartProduct(c *gin.Context, products product.Repository, rawID, size string) (string, bool) {
	id, ok := product.CanonicalID(rawID)
	if !ok {
		httpx.Fail(c, http.StatusNotFound, "product not found")
		return "", false
	}
	p, err := products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return "", false
		}
		_ = c.Error(err)
		httpx.Fail(c, http.StatusInternalServerError, "could not load product")
		return "", false
	}
	if !p.HasSize(size) {
		httpx.Fail(c, http.StatusBadRequest, "size not available")
		return "", false
	}
	return id, true
}

// getCartHandler godoc
//
//	@Summary	Current cart
//	@Tags		cart
//	@Produce	json
//	@Security	TokenAuth
//	@Success	200	{object}	map[string]any
//	@Router		/cart/get [post]
func getCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := carts.Get(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not load cart")
			return
		}
		if data == nil {
			data = cart.Data{}
		}
		httpx.OK(c, http.StatusOK, gin.H{"cartData": data})
	}
}

// addToCartHandler godoc
//
//	@Summary	Add one unit to the cart
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	TokenAuth
//	@Param		body	body		AddToCartRequest	true	"line"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/cart/add [post]
func addToCartHandler(carts cart.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "itemId and size are required")
			return
		}
		size := strings.TrimSpace(req.Size)
		if size == "" {
			httpx.Fail(c, http.StatusBadRequest, "size is required")
			return
		}
		id, ok := lookupCartProduct(c, products, req.ItemID, size)
		if !ok {
			return
		}
		if err := carts.Add(c.Request.Context(), httpx.UserID(c), id, size); err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not update cart")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "Added To Cart"})
	}
}

// updateCartHandler godoc
//
//	@Summary	Set the quantity of a cart line
//	@Tags		cart
//	@Accept		json
//	@Produce	json
//	@Security	TokenAuth
//	@Param		body	body		UpdateCartRequest	true	"line"
//	@Success	200		{object}	map[string]any
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Router		/cart/update [post]
func updateCartHandler(carts cart.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "itemId, size and quantity are required")
			return
		}
		qty := *req.Quantity
		if qty < 0 {
			httpx.Fail(c, http.StatusBadRequest, "quantity must not be negative")
			return
		}
		size := strings.TrimSpace(req.Size)
		if size == "" {
			httpx.Fail(c, http.StatusBadRequest, "size is required")
			return
		}
		// removing a line must work even after the product was deleted
		id, ok := product.CanonicalID(req.ItemID)
		if !ok {
			httpx.Fail(c, http.StatusNotFound, "product not found")
			return
		}
		if qty > 0 {
			if id, ok = lookupCartProduct(c, products, id, size); !ok {
				return
			}
		}
		err := carts.SetQuantity(c.Request.Context(), httpx.UserID(c), id, size, qty)
		if errors.Is(err, cart.ErrInvalidQuantity) {
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not update cart")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "Cart Updated"})
	}
}
