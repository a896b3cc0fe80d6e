// Package fetch retrieves remote spec documents and datasets over HTTP.
//
// The client implements driven.Fetcher. Requests are spaced by a token
// bucket, transient failures (429 and 5xx) are retried with backoff,
// Retry-After is honored and HTML meta-refresh redirects are followed.
// An optional driven.FetchCache turns repeat fetches into conditional
// requests and receives a log entry per completed fetch.
package fetch
