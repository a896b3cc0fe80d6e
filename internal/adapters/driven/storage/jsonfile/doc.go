// Package jsonfile persists the control and output files on the local filesystem.
//
// Adapters:
//   - SpecMapStore: SPECMAP.json, base URL to output file mapping
//   - RegistryStore: SPECURLS.json, the sorted anchor registry
//   - SupplementaryStore: The static anchor list (a JSON array)
//   - ClassificationStore: RESPEC_SPECS.txt, BIKESHED_SPECS.txt and OTHER_SPECS.txt
//   - SpecWriter: One <shortname>.json per output spec
//
// JSON files are written with 4-space indentation and a trailing newline,
// without HTML escaping. Writes go to a temporary file that is renamed into
// place, so an interrupted run never leaves a truncated control file.
package jsonfile
