package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reoring/lossy"
	"github.com/reoring/lossy/middleware"
)

// BindJSON decodes request JSON into T, stores the value and its losses in
// the request context on success, or returns 400 when decoding fails.
func BindJSON[T any](opt lossy.DecodeOpt) echo.MiddlewareFunc {
	if opt == (lossy.DecodeOpt{}) {
		opt = middleware.DefaultDecodeOpt()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, losses, err := lossy.DecodeReaderCollect[T](c.Request().Context(), c.Request().Body, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err, losses))
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), middleware.Decoded[T]{Value: v, Losses: losses})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches Decoded[T] from echo.Context.
func GetDecoded[T any](c echo.Context) (middleware.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
