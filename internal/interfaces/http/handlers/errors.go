// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/pkg/apperrors"
)

// handleServiceError translates domain errors to HTTP responses. Unrecognized
// errors are treated as rejected input rather than server faults; store and
// infrastructure failures arrive wrapped in the typed conflict errors.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	case apperrors.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case apperrors.IsInsufficientStock(err), apperrors.IsInsufficientAvailableStock(err):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case apperrors.IsDuplicateNumber(err), apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	}
}
