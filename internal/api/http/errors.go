package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hourly-labs/timetrack-backend/internal/logging"
	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

// RespondError writes the JSON error body for err. Client-facing kinds map to
// 400 with their message; anything else is logged and reported as an opaque
// 500.
func RespondError(c *gin.Context, logger logging.Logger, err error) {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindStorage {
		msg := de.Message
		if msg == "" {
			msg = de.Kind.String()
		}
		body := gin.H{"message": msg}
		if de.Kind == domain.KindValidation && len(de.Fields) > 0 {
			body["errors"] = de.Fields
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	logger.Error(c.Request.Context(), "request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}
