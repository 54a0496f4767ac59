package yahoo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOfflineMode is returned by every query of a client configured offline.
	// No network access is attempted.
	ErrOfflineMode = errors.New("yahoo queries are unavailable in offline mode")

	ErrTransport       = errors.New("yahoo transport error")
	ErrKeyPathNotFound = errors.New("key path not found in yahoo response")
)

// TransportError is returned when a request fails, Yahoo answers with a
// non-200 status, or the body is not the expected JSON envelope.
type TransportError struct {
	URL        string
	StatusCode int    // zero when no response was received
	Message    string // error description from Yahoo, when one was sent
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "yahoo request %s failed", e.URL)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " with status %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// KeyPathError reports the first key of a key path that was missing.
type KeyPathError struct {
	Path  []string
	Index int
}

func (e *KeyPathError) Error() string {
	return fmt.Sprintf("key %q (position %d of %v) not found in yahoo response", e.Path[e.Index], e.Index, e.Path)
}

func (e *KeyPathError) Is(target error) bool {
	return target == ErrKeyPathNotFound
}

// result labels the outcome of a query for metrics.
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrOfflineMode):
		return "offline"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrKeyPathNotFound):
		return "key_path_not_found"
	default:
		return "error"
	}
}
