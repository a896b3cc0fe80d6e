package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
	"github.com/custodia-labs/specmap/internal/extractors"
	"github.com/custodia-labs/specmap/internal/logger"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// Ensure AnchorService implements the interface.
var _ driving.AnchorBuilder = (*AnchorService)(nil)

// AnchorService builds the anchor registry by harvesting spec documents.
type AnchorService struct {
	rules          *ruleset.AnchorRules
	fetcher        driven.Fetcher
	specStore      driven.SpecMapStore
	registryStore  driven.RegistryStore
	supplementary  driven.SupplementaryStore
	classification driven.ClassificationStore
}

// NewAnchorService creates a new anchor service.
// The stores are only used by Run; Build needs the fetcher alone.
func NewAnchorService(
	rules *ruleset.RuleSet,
	fetcher driven.Fetcher,
	specStore driven.SpecMapStore,
	registryStore driven.RegistryStore,
	supplementary driven.SupplementaryStore,
	classification driven.ClassificationStore,
) *AnchorService {
	return &AnchorService{
		rules:          &rules.Anchors,
		fetcher:        fetcher,
		specStore:      specStore,
		registryStore:  registryStore,
		supplementary:  supplementary,
		classification: classification,
	}
}

// anchorRun holds the accumulators of one build.
type anchorRun struct {
	registry *domain.AnchorRegistry
	class    *domain.Classification
	report   driving.AnchorReport
	families map[string]bool
}

// Build harvests every spec in specs.
func (s *AnchorService) Build(ctx context.Context, specs *domain.SpecMap, supplementary []string) (*domain.AnchorRegistry, *domain.Classification, error) {
	run, err := s.build(ctx, specs, supplementary)
	if err != nil {
		return nil, nil, err
	}
	return run.registry, run.class, nil
}

// Run loads the control files, builds the registry and writes the outputs.
func (s *AnchorService) Run(ctx context.Context) (*driving.AnchorReport, error) {
	specs, err := s.specStore.Load(ctx)
	if err != nil {
		return nil, err
	}
	supplementary, err := s.supplementary.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supplementary anchors: %w", err)
	}

	run, err := s.build(ctx, specs, supplementary)
	if err != nil {
		return nil, err
	}

	if err := s.registryStore.Save(ctx, run.registry); err != nil {
		return nil, fmt.Errorf("save registry: %w", err)
	}
	if err := s.classification.Save(ctx, run.class); err != nil {
		return nil, fmt.Errorf("save classification: %w", err)
	}
	run.report.Anchors = run.registry.Len()
	return &run.report, nil
}

func (s *AnchorService) build(ctx context.Context, specs *domain.SpecMap, supplementary []string) (*anchorRun, error) {
	run := &anchorRun{
		registry: domain.NewAnchorRegistry(supplementary...),
		class:    domain.NewClassification(),
		families: make(map[string]bool),
	}

	for _, base := range specs.BaseURLs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, _ := specs.Lookup(base)
		run.report.Specs++

		if slices.Contains(s.rules.Stable, base) {
			logger.Debug("%s: stable, trusted from supplementary list", base)
			run.class.Record(domain.GeneratorOther, file)
			run.report.Stable++
			continue
		}
		if ruleset.HasPrefix(base, s.rules.Skip) {
			logger.Debug("%s: not fetched", base)
			continue
		}

		if family, ok := s.rules.FamilyFor(base); ok {
			if run.families[family.Name] {
				continue
			}
			run.families[family.Name] = true
			if err := s.harvestFamily(ctx, run, family, file); err != nil {
				return nil, err
			}
			continue
		}

		if err := s.harvest(ctx, run, base, file); err != nil {
			return nil, err
		}
	}
	return run, nil
}

// harvestFamily accumulates every page of a multi-page spec. A family with
// its own output file is classified once as "other"; its pages are not
// classified individually.
func (s *AnchorService) harvestFamily(ctx context.Context, run *anchorRun, family ruleset.Family, file string) error {
	logger.Info("harvesting %s (%d pages)", family.Name, len(family.Pages))
	if family.Output != "" {
		run.class.Record(domain.GeneratorOther, family.Output)
		file = ""
	}
	for _, page := range family.Pages {
		if err := s.harvest(ctx, run, family.Root+page, file); err != nil {
			return err
		}
	}
	return nil
}

// harvest fetches one document and adds its anchors. Fetch and parse
// failures are logged and skipped; only cancellation is returned.
func (s *AnchorService) harvest(ctx context.Context, run *anchorRun, specURL, file string) error {
	requestURL := s.requestURL(specURL)

	res, err := s.fetcher.Fetch(ctx, requestURL)
	if err != nil {
		if isCancel(err) {
			return err
		}
		logger.Error("%s: %v", specURL, err)
		run.report.Failed++
		return nil
	}
	run.report.Fetched++

	page, err := extractors.Parse(res.Body)
	if err != nil {
		logger.Error("%s: %v", specURL, err)
		run.report.Failed++
		return nil
	}
	if page.LoadsRespec() {
		logger.Warn("%s loads respec", specURL)
	}
	generator := page.Generator()
	if file != "" {
		run.class.Record(generator, file)
	}

	origin := res.RequestURL
	if origin == "" {
		origin = requestURL
	}
	anchorBase := strings.TrimPrefix(origin, s.rules.Proxy)
	var strip []string
	for _, rule := range s.rules.Strip {
		if strings.HasPrefix(anchorBase, rule.Host) {
			anchorBase = strings.Replace(anchorBase, rule.Prefix, "", 1)
			strip = append(strip, rule.Prefix)
		}
	}

	added := 0
	for _, id := range page.IDs() {
		if s.rules.IsExcludedID(id) {
			continue
		}
		for _, prefix := range strip {
			id = strings.Replace(id, prefix, "", 1)
		}
		run.registry.Add(anchorBase + "#" + id)
		added++
	}
	if !ruleset.HasPrefix(anchorBase, s.rules.NoNameHosts) {
		for _, name := range page.Names() {
			run.registry.Add(anchorBase + "#" + name)
			added++
		}
	}
	logger.Note("%s: %s, %d anchors", specURL, generator, added)
	return nil
}

// requestURL maps a spec URL onto the URL it is fetched from.
func (s *AnchorService) requestURL(specURL string) string {
	requestURL := specURL
	for _, r := range s.rules.Redirects {
		if r.Matches(requestURL) {
			requestURL = r.Apply(requestURL)
			break
		}
	}
	if slices.Contains(s.rules.RespecRaw, specURL) || slices.Contains(s.rules.RespecRaw, requestURL) {
		requestURL = s.rules.Proxy + requestURL
	}
	return requestURL
}
