package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/aura-store/internal/httpx"
	"github.com/MikeMC777/aura-store/internal/order"
)

// placeOrderHandler godoc
//
//	@Summary	Place a cash-on-delivery order
//	@Tags		order
//	@Accept		json
//	@Produce	json
//	@Security	TokenAuth
//	@Param		body	body		order.PlaceOrderRequest	true	"order"
//	@Success	201		{object}	map[string]any
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/order/place [post]
func placeOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "invalid order: "+err.Error())
			return
		}
		o, err := orders.Place(c.Request.Context(), httpx.UserID(c), req)
		switch {
		case errors.Is(err, order.ErrEmptyOrder),
			errors.Is(err, order.ErrInvalidQuantity),
			errors.Is(err, order.ErrInvalidSize):
			httpx.Fail(c, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, order.ErrUnknownProduct):
			httpx.Fail(c, http.StatusNotFound, err.Error())
			return
		case err != nil:
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not place order")
			return
		}
		httpx.OK(c, http.StatusCreated, gin.H{"message": "Order Placed", "order": o})
	}
}

// userOrdersHandler godoc
//
//	@Summary	Orders of the current user
//	@Tags		order
//	@Produce	json
//	@Security	TokenAuth
//	@Success	200	{object}	map[string]any
//	@Router		/order/userorders [post]
func userOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListByUser(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not list orders")
			return
		}
		if list == nil {
			list = []order.Order{}
		}
		httpx.OK(c, http.StatusOK, gin.H{"orders": list})
	}
}

// listOrdersHandler godoc
//
//	@Summary	All orders (admin)
//	@Tags		order
//	@Produce	json
//	@Security	TokenAuth
//	@Success	200	{object}	map[string]any
//	@Router		/order/list [post]
func listOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.ListAll(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not list orders")
			return
		}
		if list == nil {
			list = []order.Order{}
		}
		httpx.OK(c, http.StatusOK, gin.H{"orders": list})
	}
}

// updateOrderStatusHandler godoc
//
//	@Summary	Set an order status (admin)
//	@Tags		order
//	@Accept		json
//	@Produce	json
//	@Security	TokenAuth
//	@Param		body	body		order.StatusRequest	true	"status"
//	@Success	200		{object}	map[string]any
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/order/status [post]
func updateOrderStatusHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "orderId and status are required")
			return
		}
		err := orders.UpdateStatus(c.Request.Context(), req.OrderID, req.Status)
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			httpx.Fail(c, http.StatusBadRequest, "invalid status")
			return
		case errors.Is(err, order.ErrNotFound):
			httpx.Fail(c, http.StatusNotFound, "order not found")
			return
		case err != nil:
			_ = c.Error(err)
			httpx.Fail(c, http.StatusInternalServerError, "could not update status")
			return
		}
		httpx.OK(c, http.StatusOK, gin.H{"message": "Status Updated"})
	}
}
