// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a run to function:
//
//   - Fetcher: Retrieves remote spec documents
//   - SpecMapStore: SPECMAP.json persistence
//   - RegistryStore: SPECURLS.json persistence
//   - SupplementaryStore: Static anchor list
//   - ClassificationStore: Generator classification lists
//   - SpecWriter: Per-shortname output files
//   - BCDSource: Browser-compat-data tree traversal
//   - CaniuseSource: caniuse dataset
//   - MDNClient: MDN article metadata
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - FetchCache: Conditional-GET cache and fetch log. Without it every request is unconditional.
//   - TextNormaliser: Summary cleanup. Without it summaries are kept verbatim.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
