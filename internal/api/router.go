// Package api mounts the storefront and admin REST endpoints.
//
//	@title			Aura store API
//	@version		1.0
//	@description	Users, products, carts and orders for the Aura storefront and admin dashboard.
//	@BasePath		/api
//	@securityDefinitions.apikey	TokenAuth
//	@in							header
//	@name						Token
package api

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/aura-store/docs"
	"github.com/MikeMC777/aura-store/internal/auth"
	"github.com/MikeMC777/aura-store/internal/cart"
	"github.com/MikeMC777/aura-store/internal/httpx"
	"github.com/MikeMC777/aura-store/internal/media"
	"github.com/MikeMC777/aura-store/internal/order"
	"github.com/MikeMC777/aura-store/internal/product"
	"github.com/MikeMC777/aura-store/internal/user"
)

type Options struct {
	AllowedOrigins []string
	TrustedProxies []string
}

type Deps struct {
	Users    *user.Service
	Products product.Repository
	Carts    cart.Repository
	Orders   *order.Service
	Media    media.Store
	Tokens   *auth.Tokens
	// Ready gates /healthz; nil means always ready.
	Ready *atomic.Bool
}

func NewRouter(opts Options, d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(httpx.RequestID(), httpx.Logger(), httpx.Recovery(), httpx.CORS(opts.AllowedOrigins))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API working") })
	r.GET("/healthz", func(c *gin.Context) {
		if d.Ready != nil && !d.Ready.Load() {
			c.String(http.StatusServiceUnavailable, "starting")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	userAuth := httpx.RequireRole(d.Tokens, auth.RoleUser)
	adminAuth := httpx.RequireRole(d.Tokens, auth.RoleAdmin)

	api := r.Group("/api")

	u := api.Group("/user")
	u.POST("/register", registerHandler(d.Users, d.Tokens))
	u.POST("/login", loginHandler(d.Users, d.Tokens))
	u.POST("/admin", adminLoginHandler(d.Users, d.Tokens))
	u.GET("/profile", userAuth, profileHandler(d.Users))

	p := api.Group("/product")
	p.POST("/add", adminAuth, addProductHandler(d.Products, d.Media))
	p.POST("/remove", adminAuth, removeProductHandler(d.Products))
	p.POST("/single", singleProductHandler(d.Products))
	p.GET("/list", listProductsHandler(d.Products))

	ct := api.Group("/cart", userAuth)
	ct.POST("/get", getCartHandler(d.Carts))
	ct.POST("/add", addToCartHandler(d.Carts, d.Products))
	ct.POST("/update", updateCartHandler(d.Carts, d.Products))

	o := api.Group("/order")
	o.POST("/place", userAuth, placeOrderHandler(d.Orders))
	o.POST("/userorders", userAuth, userOrdersHandler(d.Orders))
	o.POST("/list", adminAuth, listOrdersHandler(d.Orders))
	o.POST("/status", adminAuth, updateOrderStatusHandler(d.Orders))

	return r, nil
}
