package cli

import (
	"context"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driving"
)

// Options are the global flags passed to the Factory.
type Options struct {
	ConfigPath string
	RulesPath  string
}

// Services are the driving ports the commands call.
type Services struct {
	Settings   domain.Settings
	Anchors    driving.AnchorBuilder
	Xref       driving.CrossReferencer
	Normalizer driving.URLNormalizer

	// Resolver builds an identity resolver over the current SPECMAP.json.
	Resolver func(ctx context.Context) (driving.IdentityResolver, error)

	// SetSetting persists one configuration value to the config file.
	SetSetting func(key, value string) error

	// ConfigPath is the config file settings are read from and saved to.
	ConfigPath string

	// Close releases resources such as the fetch cache.
	Close func() error
}

// Factory builds the services from the global options.
type Factory func(ctx context.Context, opts Options) (*Services, error)

var (
	factory  Factory
	services *Services
)

// SetFactory registers the function that builds services on first use.
func SetFactory(f Factory) {
	factory = f
}

func closeServices() {
	if services != nil && services.Close != nil {
		_ = services.Close()
	}
}
