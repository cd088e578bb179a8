package middleware

import (
	"context"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"croplife/internal/auth"
	"croplife/internal/errors"
	"croplife/internal/logging"
)

// Admin panel paths.
const (
	AdminPrefix   = "/admin"
	LoginPath     = "/admin/login"
	DashboardPath = "/admin/dashboard"
)

// ContextKeyClaims is the echo context key holding *auth.Claims of the
// authenticated admin.
const ContextKeyClaims = "session"

// Authenticator resolves a session token to its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// SessionGuard protects the admin panel. Requests under /admin without a
// valid session cookie are redirected to the login page, and a signed-in
// admin loading the login page is sent to the dashboard. Every other path
// passes through untouched.
func SessionGuard(authenticator Authenticator) echo.MiddlewareFunc {
	guard := echojwt.WithConfig(echojwt.Config{
		Skipper: func(c echo.Context) bool {
			return !IsGuardedPath(c.Request().URL.Path)
		},
		TokenLookup:    "cookie:" + auth.SessionCookieName,
		ContextKey:     ContextKeyClaims,
		ParseTokenFunc: parseWith(authenticator),
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Debug("session rejected", zap.Error(err))
			return c.Redirect(http.StatusTemporaryRedirect, LoginPath)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := guard(next)
		return func(c echo.Context) error {
			if isLoginPath(c.Request().URL.Path) {
				if !isRead(c.Request().Method) {
					return next(c)
				}
				if claims, ok := sessionFromCookie(c, authenticator); ok {
					c.Set(ContextKeyClaims, claims)
					return c.Redirect(http.StatusTemporaryRedirect, DashboardPath)
				}
				return next(c)
			}
			return guarded(c)
		}
	}
}

// RequireSession rejects requests without a valid session with a 401 JSON
// body instead of a redirect. It guards API writes when enabled.
func RequireSession(authenticator Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:    "cookie:" + auth.SessionCookieName,
		ContextKey:     ContextKeyClaims,
		ParseTokenFunc: parseWith(authenticator),
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := errors.MapErrorToHTTP(errors.ErrInvalidToken)
			return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// ClaimsFromContext returns the claims stored by the guard.
func ClaimsFromContext(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

// IsGuardedPath reports whether path needs a session: /admin and everything
// below it except the login page.
func IsGuardedPath(path string) bool {
	if path != AdminPrefix && !strings.HasPrefix(path, AdminPrefix+"/") {
		return false
	}
	return !isLoginPath(path)
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func isLoginPath(path string) bool {
	return strings.TrimSuffix(path, "/") == LoginPath
}

func parseWith(authenticator Authenticator) func(echo.Context, string) (interface{}, error) {
	return func(c echo.Context, token string) (interface{}, error) {
		claims, err := authenticator.Authenticate(c.Request().Context(), token)
		if err != nil {
			return nil, err
		}
		return claims, nil
	}
}

func sessionFromCookie(c echo.Context, authenticator Authenticator) (*auth.Claims, bool) {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims, err := authenticator.Authenticate(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}
