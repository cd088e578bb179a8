package handler

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"croplife/internal/auth"
	"croplife/internal/errors"
	"croplife/internal/logging"
	"croplife/internal/middleware"
	"croplife/internal/model"
	"croplife/internal/service"
)

// Messages returned by the admin form actions.
const (
	MsgInvalidLogin      = "Invalid username or password."
	MsgAdminNotFound     = "Admin user not found."
	MsgIncorrectPassword = "Incorrect current password."
	MsgActionFailed      = "An error occurred."
	MsgUsernameUpdated   = "Username updated successfully. It will be effective on your next login."
	MsgPasswordUpdated   = "Password updated successfully. Please log in again with your new password."
	MsgCredentialsUpdate = "Credentials updated successfully. Please log in again with your new credentials."
)

// FormState is the result of an admin form action.
type FormState struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Success bool                `json:"success"`
}

// DashboardPage is the data behind the admin dashboard.
type DashboardPage struct {
	Username string          `json:"username"`
	Products []model.Product `json:"products"`
}

// SettingsPage is the data behind the credentials page.
type SettingsPage struct {
	Username string `json:"username"`
}

// AdminHandler handles the admin panel: sign in and out, credential
// rotation and the data the panel pages render.
type AdminHandler struct {
	authService    service.AuthService
	productService service.ProductService
	secureCookies  bool
}

// NewAdminHandler creates a new admin handler. secureCookies marks the
// session cookie Secure and should be set in production.
func NewAdminHandler(authService service.AuthService, productService service.ProductService, secureCookies bool) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		productService: productService,
		secureCookies:  secureCookies,
	}
}

// Index sends the bare admin path to the login page, which forwards
// signed-in admins to the dashboard.
func (h *AdminHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath)
}

// LoginPage godoc
// @Summary Login form state
// @Tags admin
// @Produce json
// @Success 200 {object} FormState
// @Success 307 "Already signed in; redirects to the dashboard"
// @Router /admin/login [get]
func (h *AdminHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, FormState{})
}

// Login godoc
// @Summary Sign in
// @Tags admin
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 303 "Session cookie set; redirects to the dashboard"
// @Failure 400 {object} FormState
// @Failure 401 {object} FormState
// @Failure 500 {object} FormState
// @Router /admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var in service.LoginInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, FormState{Message: service.MsgInvalidFormData})
	}

	session, err := h.authService.Login(c.Request().Context(), in)
	if err != nil {
		return h.formError(c, err)
	}

	c.SetCookie(h.sessionCookie(session.Token, int(auth.SessionTTL.Seconds()), session.ExpiresAt))
	return c.Redirect(http.StatusSeeOther, middleware.DashboardPath)
}

// Logout godoc
// @Summary Sign out
// @Tags admin
// @Success 303 "Session cookie cleared; redirects home"
// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			logging.FromContext(c.Request().Context()).Warn("revoke session on logout", zap.Error(err))
		}
	}
	h.clearSession(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Dashboard godoc
// @Summary Admin dashboard data
// @Tags admin
// @Produce json
// @Success 200 {object} DashboardPage
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, DashboardPage{Username: sessionUsername(c), Products: products})
}

// EditProductPage godoc
// @Summary Product to edit
// @Tags admin
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/dashboard/edit/{id} [get]
func (h *AdminHandler) EditProductPage(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// SettingsPage godoc
// @Summary Credentials page data
// @Tags admin
// @Produce json
// @Success 200 {object} SettingsPage
// @Failure 404 {object} FormState
// @Router /admin/dashboard/settings [get]
func (h *AdminHandler) SettingsPage(c echo.Context) error {
	admin, err := h.authService.CurrentAdmin(c.Request().Context())
	if err != nil {
		return h.formError(c, err)
	}
	return c.JSON(http.StatusOK, SettingsPage{Username: admin.Username})
}

// UpdateUsername godoc
// @Summary Change the admin username
// @Tags admin
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body service.UpdateUsernameInput true "New username"
// @Success 200 {object} FormState
// @Failure 400 {object} FormState
// @Failure 404 {object} FormState
// @Failure 500 {object} FormState
// @Router /admin/settings/username [post]
func (h *AdminHandler) UpdateUsername(c echo.Context) error {
	var in service.UpdateUsernameInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, FormState{Message: service.MsgInvalidFormData})
	}
	if err := h.authService.ChangeUsername(c.Request().Context(), in); err != nil {
		return h.formError(c, err)
	}
	return c.JSON(http.StatusOK, FormState{Message: MsgUsernameUpdated, Success: true})
}

// UpdatePassword godoc
// @Summary Change the admin password
// @Description Signs the caller out on success.
// @Tags admin
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body service.UpdatePasswordInput true "New password"
// @Success 200 {object} FormState
// @Failure 400 {object} FormState
// @Failure 404 {object} FormState
// @Failure 500 {object} FormState
// @Router /admin/settings/password [post]
func (h *AdminHandler) UpdatePassword(c echo.Context) error {
	var in service.UpdatePasswordInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, FormState{Message: service.MsgInvalidFormData})
	}
	if err := h.authService.ChangePassword(c.Request().Context(), sessionToken(c), in); err != nil {
		return h.formError(c, err)
	}
	h.clearSession(c)
	return c.JSON(http.StatusOK, FormState{Message: MsgPasswordUpdated, Success: true})
}

// UpdateCredentials godoc
// @Summary Change username and password together
// @Description Signs the caller out on success.
// @Tags admin
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body service.UpdateCredentialsInput true "New credentials"
// @Success 200 {object} FormState
// @Failure 400 {object} FormState
// @Failure 404 {object} FormState
// @Failure 500 {object} FormState
// @Router /admin/settings/credentials [post]
func (h *AdminHandler) UpdateCredentials(c echo.Context) error {
	var in service.UpdateCredentialsInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, FormState{Message: service.MsgInvalidFormData})
	}
	if err := h.authService.ChangeCredentials(c.Request().Context(), sessionToken(c), in); err != nil {
		return h.formError(c, err)
	}
	h.clearSession(c)
	return c.JSON(http.StatusOK, FormState{Message: MsgCredentialsUpdate, Success: true})
}

// formError translates an auth failure into a FormState response.
func (h *AdminHandler) formError(c echo.Context, err error) error {
	var verr *errors.ValidationError
	switch {
	case stderrors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, FormState{Message: verr.Message, Errors: verr.Fields})
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, FormState{Message: MsgInvalidLogin})
	case stderrors.Is(err, errors.ErrAdminNotFound):
		return c.JSON(http.StatusNotFound, FormState{Message: MsgAdminNotFound})
	case stderrors.Is(err, errors.ErrIncorrectPassword):
		return c.JSON(http.StatusBadRequest, FormState{Message: MsgIncorrectPassword})
	default:
		logging.FromContext(c.Request().Context()).Error("admin action failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, FormState{Message: MsgActionFailed})
	}
}

func (h *AdminHandler) sessionCookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AdminHandler) clearSession(c echo.Context) {
	c.SetCookie(h.sessionCookie("", -1, time.Unix(0, 0)))
}

func sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func sessionUsername(c echo.Context) string {
	if claims, ok := middleware.ClaimsFromContext(c); ok {
		return claims.Username
	}
	return ""
}
