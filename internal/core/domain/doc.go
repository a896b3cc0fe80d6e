// Package domain defines the core entities of specmap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SpecIdentity: the (shortname, base URL, location key) join key
//   - SpecMap: the persistent base URL to output file mapping
//   - AnchorRegistry: the set of known-valid document#fragment URLs
//   - Feature: one catalogued BCD entry
//   - SupportBlock: the per-browser support union
//   - Classification: output files grouped by spec generator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
