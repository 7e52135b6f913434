package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
)

// UserStore records authenticated users so rows owned by them can reference
// the users table.
type UserStore interface {
	EnsureUser(ctx context.Context, id int64, email string) error
}

// WithUser upserts the caller set by RequireUser. It must run after it.
func WithUser(store UserStore, logger logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(c *gin.Context) {
		id, ok := OwnerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing token"})
			return
		}

		if err := store.EnsureUser(c.Request.Context(), id, Email(c)); err != nil {
			logger.Error(c.Request.Context(), "ensure user failed", "owner_id", id, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.Next()
	}
}
