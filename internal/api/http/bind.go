package http

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

// BindJSON decodes the request body into dst. An empty body leaves dst
// untouched. Malformed JSON and type mismatches become validation errors.
func BindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return nil
	}
	err := json.NewDecoder(c.Request.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.Validation(map[string]string{typeErr.Field: "has the wrong type"})
	}
	return domain.Validation(map[string]string{"body": "invalid JSON"})
}
