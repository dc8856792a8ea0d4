package voice

import (
	"fmt"

	"PortfolioVoice/pkg/response"
)

var (
	ErrMissingFields         = response.NewError(400, "Missing systemPrompt or transcript")
	ErrMethodNotAllowed      = response.NewError(405, "Method not allowed")
	ErrUpstreamNotConfigured = response.NewCodedError(500, "UPSTREAM_NOT_CONFIGURED", "API key not configured")
	ErrUnknownKind           = response.NewCodedError(400, "UNKNOWN_KIND", "unknown destination kind")
	ErrInvalidFrame          = response.NewCodedError(400, "INVALID_FRAME", "invalid command frame")
)

// UpstreamError is a failed call to the hosted model. Status is passed
// through to the client unchanged.
type UpstreamError struct {
	Status  int
	Details string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Upstream API error: %d", e.Status)
}
