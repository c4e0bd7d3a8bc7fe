package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals are JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// BasePath is the prefix every storefront route is mounted under.
const BasePath = "/api"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of each API section.
type ApiHandleFunctions struct {
	CatalogAPI CatalogAPI
	OrderAPI   OrderAPI
}

// NewRouter returns a gin engine serving the storefront API.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the storefront routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router.Use(gin.Recovery())
	router.Use(middleware...)
	group := router.Group(BasePath)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		group.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListProducts",
			http.MethodGet,
			"/products",
			handleFunctions.CatalogAPI.ListProducts,
		},
		{
			"GetProduct",
			http.MethodGet,
			"/products/:id",
			handleFunctions.CatalogAPI.GetProduct,
		},
		{
			"ListCategories",
			http.MethodGet,
			"/categories",
			handleFunctions.CatalogAPI.ListCategories,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:id",
			handleFunctions.OrderAPI.GetOrder,
		},
	}
}
