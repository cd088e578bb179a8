package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"croplife/internal/config"
	"croplife/internal/handler"
	"croplife/internal/middleware"
	"croplife/internal/validation"
)

// uploadBodyLimit caps request bodies; images are read fully into memory.
const uploadBodyLimit = "10M"

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Product *handler.ProductHandler
	Upload  *handler.UploadHandler
	Admin   *handler.AdminHandler
	Page    *handler.PageHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	authenticator middleware.Authenticator,
	h Handlers,
) {
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.BaseURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit(uploadBodyLimit))
	e.Use(middleware.SessionGuard(authenticator))

	// Add validator
	e.Validator = validation.New()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public pages
	e.GET("/", h.Page.Home)
	e.GET("/products", h.Page.Catalog)
	e.GET("/products/:id", h.Page.ProductDetail)

	api := e.Group("/api")

	// Writes optionally require a session
	var writeGuard []echo.MiddlewareFunc
	if cfg.APIWriteAuth {
		writeGuard = append(writeGuard, middleware.RequireSession(authenticator))
	}

	api.GET("/products", h.Product.ListProducts)
	api.GET("/products/:id", h.Product.GetProduct)
	api.POST("/products", h.Product.CreateProduct, writeGuard...)
	api.PATCH("/products/:id", h.Product.UpdateProduct, writeGuard...)
	api.DELETE("/products/:id", h.Product.DeleteProduct, writeGuard...)
	api.POST("/upload", h.Upload.Upload, writeGuard...)

	// Admin panel; SessionGuard protects everything but the login page
	admin := e.Group(middleware.AdminPrefix)
	admin.GET("", h.Admin.Index)
	admin.GET("/login", h.Admin.LoginPage)
	admin.POST("/login", h.Admin.Login)
	admin.POST("/logout", h.Admin.Logout)
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/dashboard/edit/:id", h.Admin.EditProductPage)
	admin.GET("/dashboard/settings", h.Admin.SettingsPage)
	admin.POST("/settings/username", h.Admin.UpdateUsername)
	admin.POST("/settings/password", h.Admin.UpdatePassword)
	admin.POST("/settings/credentials", h.Admin.UpdateCredentials)
}
