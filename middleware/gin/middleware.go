package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reoring/lossy"
	"github.com/reoring/lossy/middleware"
)

// BindJSON decodes the request body into T using opt (or DefaultDecodeOpt
// when zero value), stores the value and its losses in the request context,
// and on an unrecoverable error returns 400 with an error payload.
func BindJSON[T any](opt lossy.DecodeOpt) gin.HandlerFunc {
	if opt == (lossy.DecodeOpt{}) {
		opt = middleware.DefaultDecodeOpt()
	}
	return func(c *gin.Context) {
		v, losses, err := lossy.DecodeReaderCollect[T](c.Request.Context(), c.Request.Body, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(err, losses))
			return
		}
		d := middleware.Decoded[T]{Value: v, Losses: losses}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), d))
		c.Next()
	}
}

// GetDecoded fetches Decoded[T] from gin.Context.
func GetDecoded[T any](c *gin.Context) (middleware.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
