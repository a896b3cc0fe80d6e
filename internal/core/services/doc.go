// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - AnchorService: Harvests spec anchors into the registry
//   - XrefService: Links BCD features to spec fragments, or checks them
//   - NormalizeService: Exposes the URL rewrite engine
//   - Resolver: Derives spec identities and registers new base URLs
//
// Support summarisation (engine statuses, Edge derivation) lives here as
// plain functions since both the run and its tests call it directly.
//
// Services are pure Go with no CGO or external dependencies.
package services
