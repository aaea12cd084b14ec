package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/cardstore/internal/inventory"
	"github.com/MikeMC777/cardstore/internal/order"
)

type mapping struct {
	err    error
	status int
	code   string
}

var mappings = []mapping{
	{order.ErrNotFound, http.StatusNotFound, "not_found"},
	{inventory.ErrNotFound, http.StatusNotFound, "not_found"},
	{order.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{order.ErrUnauthorized, http.StatusForbidden, "forbidden"},
	{order.ErrInvalidState, http.StatusBadRequest, "invalid_state"},
	{order.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{inventory.ErrInvalidQuantity, http.StatusBadRequest, "invalid_request"},
}

// StatusFor maps a service error to an HTTP status and a stable error code.
func StatusFor(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// WriteError writes the JSON error body. Internal errors are logged and
// their detail is not exposed.
func WriteError(c *gin.Context, logger *zap.Logger, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("rid", c.GetString(RequestIDKey)), zap.Error(err))
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(status, gin.H{"error": code, "msg": err.Error()})
}
