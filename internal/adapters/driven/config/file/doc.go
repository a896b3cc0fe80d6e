// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//
// LoadSettings turns any driven.ConfigStore plus the process environment
// into domain.Settings.
package file
