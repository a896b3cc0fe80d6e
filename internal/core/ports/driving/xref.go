package driving

import "context"

// XrefOptions restricts a cross-reference run.
type XrefOptions struct {
	// Subdirectory limits traversal to one tree under the BCD root.
	Subdirectory string

	// Target limits output to one "<shortname>.json" file.
	Target string
}

// CrossReferencer links BCD features to spec fragments.
type CrossReferencer interface {
	// Run walks BCD, validates every spec URL against SPECURLS.json and
	// writes the per-shortname files and SPECMAP.json.
	Run(ctx context.Context, opts XrefOptions) (*XrefReport, error)

	// Check validates spec URLs only, without fetching metadata or
	// writing output.
	Check(ctx context.Context, opts XrefOptions) (*XrefReport, error)
}

// XrefReport summarises a cross-reference run.
type XrefReport struct {
	// Features is the number of feature nodes visited.
	Features int

	// Linked counts Feature records appended to output buckets, or
	// accepted spec URLs in a check.
	Linked int

	// Dropped counts obsolete or ignored spec URLs.
	Dropped int

	// Errors and Warnings count diagnostics raised by the run.
	Errors   int
	Warnings int

	// Files lists the output files written, sorted.
	Files []string
}
