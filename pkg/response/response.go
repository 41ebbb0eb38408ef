package response

import (
	"log"
	"net/http"

	"github.com/formforge/backend/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Development mode widens error responses with the underlying detail. Set from
// config at startup; off by default so internals never leak in production.
var devMode bool

func SetDevMode(enabled bool) {
	devMode = enabled
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Error writes a standardized error response.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[internal error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if !devMode {
			c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
			return
		}
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
