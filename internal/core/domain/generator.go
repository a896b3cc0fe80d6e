package domain

import "sort"

// Generator identifies the toolchain that produced a spec document.
type Generator string

// Known generators.
const (
	GeneratorReSpec   Generator = "respec"
	GeneratorBikeshed Generator = "bikeshed"
	GeneratorOther    Generator = "other"
)

// Classification records which output files belong to each generator.
// Each filename appears at most once per generator.
type Classification struct {
	lists map[Generator]map[string]struct{}
}

// NewClassification creates an empty classification.
func NewClassification() *Classification {
	return &Classification{lists: make(map[Generator]map[string]struct{})}
}

// Record adds filename under generator. Repeated calls are no-ops.
func (c *Classification) Record(g Generator, filename string) {
	set, ok := c.lists[g]
	if !ok {
		set = make(map[string]struct{})
		c.lists[g] = set
	}
	set[filename] = struct{}{}
}

// List returns the sorted filenames recorded under generator.
func (c *Classification) List(g Generator) []string {
	set := c.lists[g]
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
