package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
	"github.com/custodia-labs/specmap/internal/logger"
	"github.com/custodia-labs/specmap/internal/rewrite"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// Ensure XrefService implements the interface.
var _ driving.CrossReferencer = (*XrefService)(nil)

// mdnArticleBase prefixes article paths in output and diagnostics.
const mdnArticleBase = "https://developer.mozilla.org/en-US"

// XrefDeps are the collaborators of an XrefService.
// Local, Caniuse and Summary are optional.
type XrefDeps struct {
	BCD      driven.BCDSource
	Local    driven.BCDSource
	Caniuse  driven.CaniuseSource
	MDN      driven.MDNClient
	Summary  driven.TextNormaliser
	SpecMap  driven.SpecMapStore
	Registry driven.RegistryStore
	Writer   driven.SpecWriter
}

// XrefService links BCD features to spec fragments.
type XrefService struct {
	rules  *ruleset.RuleSet
	engine *rewrite.Engine
	roots  []string
	deps   XrefDeps
}

// NewXrefService creates a cross-reference service walking roots under
// the BCD source on a full run.
func NewXrefService(rules *ruleset.RuleSet, roots []string, deps XrefDeps) *XrefService {
	return &XrefService{
		rules:  rules,
		engine: rewrite.New(rules),
		roots:  roots,
		deps:   deps,
	}
}

// xrefRun is the state of one run.
type xrefRun struct {
	opts     driving.XrefOptions
	check    bool
	specs    *domain.SpecMap
	registry *domain.AnchorRegistry
	resolver *Resolver
	book     domain.SpecBook
	caniuse  *CaniuseIndex
	report   driving.XrefReport
}

// Run links every feature and writes the output files and SPECMAP.json.
func (s *XrefService) Run(ctx context.Context, opts driving.XrefOptions) (*driving.XrefReport, error) {
	warns, errs := logger.Counts()
	run, err := s.start(ctx, opts, false)
	if err != nil {
		return nil, err
	}

	if s.deps.Caniuse != nil {
		features, err := s.deps.Caniuse.Features(ctx)
		switch {
		case isCancel(err):
			return nil, err
		case err != nil:
			logger.Error("caniuse: %v", err)
		default:
			run.caniuse = BuildCaniuseIndex(features, s.engine, s.rules, run.registry)
			logger.Info("caniuse: %d spec URLs indexed", run.caniuse.Len())
		}
	}

	if err := s.walk(ctx, run); err != nil {
		return nil, err
	}

	if err := s.deps.SpecMap.Save(ctx, run.specs); err != nil {
		return nil, fmt.Errorf("save spec map: %w", err)
	}
	shortnames := make([]string, 0, len(run.book))
	for name := range run.book {
		shortnames = append(shortnames, name)
	}
	sort.Strings(shortnames)
	for _, name := range shortnames {
		filename := name + ".json"
		if opts.Target != "" && filename != opts.Target {
			continue
		}
		if err := s.deps.Writer.Write(ctx, name, run.book[name]); err != nil {
			return nil, fmt.Errorf("write %s: %w", filename, err)
		}
		run.report.Files = append(run.report.Files, filename)
	}

	return s.finish(run, warns, errs), nil
}

// Check validates every spec URL against the registry. Nothing is fetched
// from MDN and nothing is written.
func (s *XrefService) Check(ctx context.Context, opts driving.XrefOptions) (*driving.XrefReport, error) {
	warns, errs := logger.Counts()
	run, err := s.start(ctx, opts, true)
	if err != nil {
		return nil, err
	}
	if err := s.walk(ctx, run); err != nil {
		return nil, err
	}
	return s.finish(run, warns, errs), nil
}

func (s *XrefService) start(ctx context.Context, opts driving.XrefOptions, check bool) (*xrefRun, error) {
	specs, err := s.deps.SpecMap.Load(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := s.deps.Registry.Load(ctx)
	if err != nil {
		return nil, err
	}
	run := &xrefRun{
		opts:     opts,
		check:    check,
		specs:    specs,
		registry: registry,
		book:     make(domain.SpecBook),
	}
	if check {
		// Check never persists the map; registrations stay local.
		run.resolver = NewResolver(s.rules, domain.NewSpecMap(specs.Entries()), nil)
	} else {
		run.resolver = NewResolver(s.rules, specs, run.book)
	}
	return run, nil
}

func (s *XrefService) finish(run *xrefRun, warns, errs int) *driving.XrefReport {
	w, e := logger.Counts()
	run.report.Warnings = w - warns
	run.report.Errors = e - errs
	return &run.report
}

func (s *XrefService) walk(ctx context.Context, run *xrefRun) error {
	visit := func(node domain.FeatureNode) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.process(ctx, run, node)
	}

	roots := s.roots
	if run.opts.Subdirectory != "" {
		roots = []string{run.opts.Subdirectory}
	}
	for _, root := range roots {
		logger.Section(root)
		if err := s.deps.BCD.Walk(ctx, root, visit); err != nil {
			return err
		}
	}
	// local features only feed output files
	if s.deps.Local != nil && !run.check {
		logger.Section("local")
		if err := s.deps.Local.Walk(ctx, ".", visit); err != nil {
			return err
		}
	}
	return nil
}

// process handles one feature node. Only cancellation is returned; every
// other problem is logged at the narrowest scope.
func (s *XrefService) process(ctx context.Context, run *xrefRun, node domain.FeatureNode) error {
	run.report.Features++
	c := &node.Compat
	key := featureKey(node.Name)
	label := key
	if run.check && node.Filename != "" {
		label = node.Filename + ":" + key
	}
	logger.Debug("%s: getting BCD data", label)

	if len(c.SpecURL) == 0 {
		logger.Debug("%s: no spec_url", label)
		return nil
	}
	if c.Deprecated() {
		logger.Warn("%s: deprecated but has spec_url", label)
		return nil
	}
	if c.MDNURL == "" {
		logger.Warn("%s: no mdn_url", label)
		return nil
	}
	if c.Status != nil && !c.Standard() {
		if run.check {
			logger.Warn("%s: nonstandard but has spec_url", label)
		} else {
			logger.Note("%s: non-standard", label)
		}
	}

	if run.opts.Target != "" && !s.forTarget(run, c.SpecURL, label) {
		logger.Debug("%s not in %s", label, run.opts.Target)
		return nil
	}

	if run.check {
		for _, specURL := range c.SpecURL {
			s.checkURL(run, label, specURL)
		}
		return nil
	}

	mdnURL, err := articleURL(c.MDNURL)
	if err != nil {
		logger.Warn("%s: odd MDN URL: %s", label, c.MDNURL)
		return nil
	}
	base := domain.Feature{
		Name: key,
		Slug: mdnSlug(mdnURL, label),
	}
	article, err := s.deps.MDN.Article(ctx, mdnURL)
	switch {
	case isCancel(err):
		return err
	case err != nil:
		logger.Error("%s: %v", label, err)
	default:
		base.Title = article.Title
		base.Summary = s.normaliseSummary(article.Summary)
	}
	if node.Filename != "" {
		filename := node.Filename
		base.Filename = &filename
	}
	support := c.Support
	if support == nil {
		base.Name = path.Base(strings.SplitN(mdnURL, "#", 2)[0])
		base.Filename = nil
	}
	if len(c.SupportFrom) == 2 {
		inherited, err := s.deps.BCD.SupportFrom(ctx, c.SupportFrom[0], c.SupportFrom[1])
		switch {
		case isCancel(err):
			return err
		case err != nil:
			logger.Error("%s: support_from %s %s: %v", label, c.SupportFrom[0], c.SupportFrom[1], err)
		default:
			support = inherited
		}
	}

	for _, specURL := range c.SpecURL {
		s.link(run, c, base, support, specURL)
	}
	return nil
}

// accept rewrites specURL and reports whether it survives the drop,
// broken and anchor checks.
func (s *XrefService) accept(run *xrefRun, label, specURL string) (string, bool) {
	res := s.engine.Rewrite(specURL)
	for _, w := range res.Warnings {
		logger.Warn("%s: %s", label, w)
	}
	if res.Dropped() {
		logger.Debug("%s: dropped %s", label, specURL)
		run.report.Dropped++
		return "", false
	}
	if rewrite.IsBroken(res.URL) {
		logger.Error("%s: broken spec URL %s", label, specURL)
		return "", false
	}
	if !s.knownAnchor(run.registry, res.URL) {
		logger.Error("%s: bad spec URL %s", label, specURL)
		return "", false
	}
	return res.URL, true
}

func (s *XrefService) checkURL(run *xrefRun, label, specURL string) {
	if _, ok := s.accept(run, label, specURL); ok {
		run.report.Linked++
	}
}

func (s *XrefService) link(run *xrefRun, c *domain.Compat, base domain.Feature, support domain.Support, specURL string) {
	label := base.Name
	specURL, ok := s.accept(run, label, specURL)
	if !ok {
		return
	}
	id := run.resolver.Resolve(specURL, label)

	f := base
	ApplySummary(&f, SummarizeSupport(support))
	f.Support = DeriveEdge(support)
	NormalizeVersions(f.Support)
	f.Caniuse = c.Caniuse
	if f.Caniuse == nil {
		f.Caniuse, _ = run.caniuse.Lookup(specURL)
	}

	if !c.Experimental() {
		switch len(f.Engines) {
		case 0:
			logger.Warn("%s: %s/docs/Web/%s is implemented in zero engines.", label, mdnArticleBase, f.Slug)
		case 1:
			logger.Warn("%s: %s/docs/Web/%s is implemented in one engine or less.", label, mdnArticleBase, f.Slug)
		}
	}
	if len(f.Engines) > 1 {
		logger.Note("%s: %s %s %s%s in two or more engines.", label, id.LocationKey, f.Title, id.BaseURL, id.LocationKey)
	}
	if f.Caniuse != nil {
		logger.Note("%s: %s added https://www.caniuse.com/#feat=%s link for %s.", label, id.LocationKey, f.Caniuse.Feature, f.Caniuse.Title)
	}

	run.book.Append(id.Shortname, id.LocationKey, f)
	run.report.Linked++
	logger.Success("%s: %s added to %s (%s).", label, id.LocationKey, id.Filename(), id.BaseURL)
}

// knownAnchor reports whether u names a registered anchor. Lenient
// families only need the fragment somewhere on the same host.
func (s *XrefService) knownAnchor(registry *domain.AnchorRegistry, u string) bool {
	if !hasFragment(u) {
		return true
	}
	if ruleset.HasPrefix(u, s.rules.Validation.Lenient) {
		return registry.HasFragmentOnHost(u)
	}
	return registry.Has(canonicalURL(s.rules.Validation.Aliases, u))
}

// forTarget reports whether any of specURLs is catalogued in the target
// output file. Family members count for the whole family.
func (s *XrefService) forTarget(run *xrefRun, specURLs []string, label string) bool {
	for _, specURL := range specURLs {
		res := s.engine.Rewrite(specURL)
		if res.Dropped() || rewrite.IsBroken(res.URL) {
			continue
		}
		id, _ := run.resolver.Derive(res.URL, label)
		bases := []string{id.BaseURL}
		if family, ok := s.rules.Anchors.FamilyFor(id.BaseURL); ok {
			bases = family.Bases
		}
		for _, b := range bases {
			if f, ok := run.specs.Lookup(b); ok && f == run.opts.Target {
				return true
			}
		}
		if _, mapped := run.specs.Lookup(id.BaseURL); !mapped && id.Filename() == run.opts.Target {
			return true
		}
	}
	return false
}

func (s *XrefService) normaliseSummary(summary string) string {
	if s.deps.Summary != nil {
		return s.deps.Summary.Normalise(summary)
	}
	return strings.Join(strings.Fields(summary), " ")
}

// articleURL maps a BCD mdn_url onto the en-US article URL, keeping the hash.
func articleURL(mdnURL string) (string, error) {
	u, err := url.Parse(mdnURL)
	if err != nil {
		return "", err
	}
	if u.Path == "" {
		return "", fmt.Errorf("%s: %w", mdnURL, domain.ErrInvalidInput)
	}
	p := u.Path
	if strings.HasPrefix(strings.ToLower(p), "/en-us/") {
		p = p[len("/en-us"):]
	}
	out := mdnArticleBase + p
	if u.Fragment != "" {
		out += "#" + u.Fragment
	}
	return out, nil
}

// mdnSlug strips the Web or Learn docs prefix from an article URL.
func mdnSlug(mdnURL, label string) string {
	lower := strings.ToLower(mdnURL)
	for _, prefix := range []string{"https://developer.mozilla.org/en-us/docs/web/", "https://developer.mozilla.org/en-us/docs/learn/"} {
		if strings.HasPrefix(lower, prefix) {
			return mdnURL[len(prefix):]
		}
	}
	logger.Warn("%s: odd MDN URL: %s", label, mdnURL)
	return mdnURL
}

// featureKey returns the last segment of a dotted feature path.
func featureKey(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
