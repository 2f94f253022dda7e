package requestutil

import (
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Request and golfer ids are opaque slugs or UUIDs; anything else is dropped.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// SanitizeRequestID keeps a well-formed incoming request id and mints a new one otherwise.
func SanitizeRequestID(incoming string) string {
	if ValidID(incoming) {
		return incoming
	}
	return NewRequestID()
}

// NewRequestID returns a random request id.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidID reports whether v is usable as a request or golfer id.
func ValidID(v string) bool {
	return v != "" && idPattern.MatchString(v)
}

// GolferID returns the trimmed golfer header, or "" when it is malformed.
func GolferID(r *http.Request, header string) string {
	if r == nil {
		return ""
	}
	v := strings.TrimSpace(r.Header.Get(header))
	if !ValidID(v) {
		return ""
	}
	return v
}

// ClientIP extracts the client address from X-Forwarded-For or RemoteAddr, without the port.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
