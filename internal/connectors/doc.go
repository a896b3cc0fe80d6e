// Package connectors provides the data sources a cross-reference run reads:
//
//   - bcd: browser-compat-data JSON trees on disk
//   - caniuse: the caniuse.com feature dataset
//   - mdn: MDN article metadata
//
// Remote connectors fetch through driven.Fetcher, so retries, throttling
// and caching are shared with anchor harvesting.
package connectors
