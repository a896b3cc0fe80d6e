package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrTooManyRefreshes indicates a meta-refresh chain did not settle.
var ErrTooManyRefreshes = errors.New("fetch: too many meta-refresh redirects")

// StatusError is a final non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int

	// RetryAfter is the server-requested delay, if any.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("got 404 error response for %s", e.URL)
	}
	return fmt.Sprintf("%d %s (unexpected status code)", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error is a 404 response.
func IsNotFound(err error) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound
}

// IsRetryable returns true if the error is a response worth retrying:
// rate limiting or a server-side failure.
func IsRetryable(err error) bool {
	var serr *StatusError
	if !errors.As(err, &serr) {
		return false
	}
	return serr.StatusCode == http.StatusTooManyRequests || serr.StatusCode >= 500
}
