package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"croplife/internal/errors"
	"croplife/internal/logging"
)

// respondError writes err as the API error envelope. Upstream failures are
// logged in full and reach the client only as the generic message.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.IsInternal() {
		logging.FromContext(c.Request().Context()).Error("request failed", zap.Error(err))
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
