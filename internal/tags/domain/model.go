package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	ttdomain "github.com/hourly-labs/timetrack-backend/internal/timetracking/domain"
)

const (
	MaxNameLength  = 100
	MaxColorLength = 16
)

var ErrNotFound = errors.New("tag not found")

type Tag struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type Input struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// Normalize trims the name and turns an empty color into null.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	if in.Color != nil && strings.TrimSpace(*in.Color) == "" {
		in.Color = nil
	}
	return in
}

func (in Input) Validate() error {
	fields := map[string]string{}
	if n := utf8.RuneCountInString(in.Name); n == 0 || n > MaxNameLength {
		fields["name"] = fmt.Sprintf("must be between 1 and %d characters", MaxNameLength)
	}
	if in.Color != nil && utf8.RuneCountInString(*in.Color) > MaxColorLength {
		fields["color"] = fmt.Sprintf("must be at most %d characters", MaxColorLength)
	}
	if len(fields) > 0 {
		return ttdomain.Validation(fields)
	}
	return nil
}
