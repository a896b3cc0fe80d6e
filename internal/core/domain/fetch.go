package domain

import "time"

// CachedResponse is a stored response used for conditional requests.
type CachedResponse struct {
	URL          string
	ETag         string
	LastModified string
	ContentType  string
	Body         []byte
	FetchedAt    time.Time
}

// Validators reports whether the response carries an ETag or Last-Modified value.
func (c *CachedResponse) Validators() bool {
	return c != nil && (c.ETag != "" || c.LastModified != "")
}

// FetchLogEntry records one completed request of a run.
type FetchLogEntry struct {
	RunID      string
	URL        string
	StatusCode int
	Attempts   int
	FromCache  bool
	Duration   time.Duration
	Err        string
	At         time.Time
}
