package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCommunity is returned when the client has no community configured.
var ErrNoCommunity = errors.New("no community configured")

// StatusError is returned when Thunderstore answers with a non-200 status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("thunderstore API error: %d %s", e.Code, http.StatusText(e.Code))
}

// Temporary reports whether the request may succeed when retried.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}
