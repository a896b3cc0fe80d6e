// Package bcd reads browser-compat-data JSON trees from disk.
//
// A Source walks .json files in lexical order and reports every object
// carrying a __compat block as a domain.FeatureNode. Within a file, nodes
// are reported children first, in document key order, so a feature's
// subfeatures precede it.
//
// support_from lookups re-read the referenced file through a bounded LRU
// of raw file contents.
package bcd
