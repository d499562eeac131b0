package transport

import (
	"net/http"
	"time"
)

// Payload is the raw result of a single upstream fetch. It is transient:
// created per request and discarded once a parser has consumed the bytes.
type Payload struct {
	Body        []byte
	ContentType string
	SourcePath  string
	FetchedAt   time.Time
}

// BasicAuth carries credentials for upstream calls that require them.
type BasicAuth struct {
	Username string
	Password string
}

// Request describes a single upstream call. Method defaults to GET.
type Request struct {
	Method  string
	URL     string
	Auth    *BasicAuth
	Headers map[string]string
	Query   map[string]string
	Timeout time.Duration
}

// Error is the single failure type for upstream calls. Status is zero for
// connection-level failures where no response was received.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsRateLimited reports whether the upstream answered with HTTP 429.
func (e *Error) IsRateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}
