package dtos

import (
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ValidationErrorDetail describes one failed field of a request body.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// ConfirmationResponse acknowledges a mutation that returns no record.
type ConfirmationResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ParseDate parses an optional YYYY-MM-DD value. Validation has already
// checked the layout, so errors only surface for direct callers.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
