package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/specmap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/specmap/internal/adapters/driven/fetch"
	"github.com/custodia-labs/specmap/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/specmap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/specmap/internal/adapters/driving/cli"
	"github.com/custodia-labs/specmap/internal/connectors/bcd"
	"github.com/custodia-labs/specmap/internal/connectors/caniuse"
	"github.com/custodia-labs/specmap/internal/connectors/mdn"
	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
	"github.com/custodia-labs/specmap/internal/core/services"
	"github.com/custodia-labs/specmap/internal/logger"
	"github.com/custodia-labs/specmap/internal/normalisers/html"
	"github.com/custodia-labs/specmap/internal/rewrite"
	"github.com/custodia-labs/specmap/internal/ruleset"
)

// build loads settings from the config file and environment, then wires
// the services.
func build(_ context.Context, opts cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settings, err := file.LoadSettings(store, nil)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", store.Path(), err)
	}
	if opts.RulesPath != "" {
		settings.Paths.Rules = opts.RulesPath
	}
	s, err := wire(settings)
	if err != nil {
		return nil, err
	}
	s.ConfigPath = store.Path()
	s.SetSetting = func(key, value string) error {
		return file.SetSetting(store, key, value)
	}
	return s, nil
}

// wire connects adapters and services for settings.
func wire(settings domain.Settings, fetchOpts ...fetch.Option) (*cli.Services, error) {
	rules, err := ruleset.Load(settings.Paths.Rules)
	if err != nil {
		return nil, err
	}

	closers := []func() error{}
	if settings.Fetch.CachePath != "" {
		cache, err := sqlite.NewStore(settings.Fetch.CachePath)
		if err != nil {
			return nil, fmt.Errorf("open fetch cache: %w", err)
		}
		closers = append(closers, cache.Close)
		fetchOpts = append(fetchOpts, fetch.WithCache(cache))
	}
	client := fetch.New(settings.Fetch, fetchOpts...)
	logger.Debug("fetch run %s", client.RunID())

	paths := settings.Paths
	specStore := jsonfile.NewSpecMapStore(paths.SpecMapPath())
	registryStore := jsonfile.NewRegistryStore(paths.SpecURLsPath())

	bcdSource, err := bcd.NewSource(paths.BCDDir, settings.ParsedFileCache)
	if err != nil {
		return nil, err
	}
	deps := services.XrefDeps{
		BCD:      bcdSource,
		Caniuse:  caniuse.NewSource(client, settings.Remote.CaniuseURL),
		MDN:      mdn.NewClient(client, settings.Remote.MDNOrigin),
		Summary:  html.New(),
		SpecMap:  specStore,
		Registry: registryStore,
		Writer:   jsonfile.NewSpecWriter(paths.OutputDir),
	}
	if paths.LocalDir != "" {
		local, err := bcd.NewSource(paths.LocalDir, settings.ParsedFileCache, bcd.WithoutFilenames())
		if err != nil {
			return nil, err
		}
		deps.Local = local
	}

	anchors := services.NewAnchorService(
		rules,
		client,
		specStore,
		registryStore,
		jsonfile.NewSupplementaryStore(paths.SupplementaryPath()),
		jsonfile.NewClassificationStore(filepath.Clean(paths.WorkDir)),
	)

	return &cli.Services{
		Settings:   settings,
		Anchors:    anchors,
		Xref:       services.NewXrefService(rules, paths.BCDDirectories, deps),
		Normalizer: services.NewNormalizeService(rewrite.New(rules)),
		Resolver: func(ctx context.Context) (driving.IdentityResolver, error) {
			specs, err := specStore.Load(ctx)
			if err != nil {
				return nil, err
			}
			return services.NewResolver(rules, specs, nil), nil
		},
		Close: func() error {
			var first error
			for _, c := range closers {
				if err := c(); err != nil && first == nil {
					first = err
				}
			}
			return first
		},
	}, nil
}
