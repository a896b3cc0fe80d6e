package file

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

// Configuration keys read by LoadSettings.
const (
	KeyWorkDir           = "paths.workdir"
	KeyOutputDir         = "paths.output"
	KeyBCDDir            = "paths.bcd"
	KeyBCDDirectories    = "paths.bcd_directories"
	KeyLocalDir          = "paths.local"
	KeySupplementary     = "paths.supplementary"
	KeyRules             = "paths.rules"
	KeyUserAgent         = "fetch.user_agent"
	KeyTimeout           = "fetch.timeout"
	KeyMaxAttempts       = "fetch.max_attempts"
	KeyRetryDelay        = "fetch.retry_delay"
	KeyMaxRetryDelay     = "fetch.max_retry_delay"
	KeyRequestsPerSecond = "fetch.requests_per_second"
	KeyCachePath         = "fetch.cache"
	KeyMDNOrigin         = "remote.mdn_origin"
	KeyCaniuseURL        = "remote.caniuse_url"
	KeyParsedFileCache   = "cache.parsed_files"
)

// envNames maps configuration keys onto their environment overrides.
// The environment wins over the config file.
var envNames = map[string]string{
	KeyWorkDir:           "SPECMAP_WORKDIR",
	KeyOutputDir:         "SPECMAP_OUTPUT_DIR",
	KeyBCDDir:            "SPECMAP_BCD_DIR",
	KeyLocalDir:          "SPECMAP_LOCAL_DIR",
	KeyRules:             "SPECMAP_RULES",
	KeyUserAgent:         "SPECMAP_USER_AGENT",
	KeyTimeout:           "SPECMAP_TIMEOUT",
	KeyMaxAttempts:       "SPECMAP_MAX_ATTEMPTS",
	KeyRequestsPerSecond: "SPECMAP_REQUESTS_PER_SECOND",
	KeyCachePath:         "SPECMAP_CACHE",
	KeyCaniuseURL:        "SPECMAP_CANIUSE_URL",
	KeyMDNOrigin:         "MDN_ORIGIN",
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// LoadSettings builds settings from defaults, the config store and the
// environment, in increasing precedence. A nil lookup uses os.LookupEnv.
func LoadSettings(store driven.ConfigStore, lookup LookupFunc) (domain.Settings, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	r := &reader{store: store, lookup: lookup}
	s := domain.DefaultSettings()

	r.str(KeyWorkDir, &s.Paths.WorkDir)
	r.str(KeyOutputDir, &s.Paths.OutputDir)
	r.str(KeyBCDDir, &s.Paths.BCDDir)
	if dirs := store.GetStringSlice(KeyBCDDirectories); len(dirs) > 0 {
		s.Paths.BCDDirectories = dirs
	}
	r.str(KeyLocalDir, &s.Paths.LocalDir)
	r.str(KeySupplementary, &s.Paths.Supplementary)
	r.str(KeyRules, &s.Paths.Rules)

	r.str(KeyUserAgent, &s.Fetch.UserAgent)
	r.duration(KeyTimeout, &s.Fetch.Timeout)
	r.integer(KeyMaxAttempts, &s.Fetch.MaxAttempts)
	r.duration(KeyRetryDelay, &s.Fetch.RetryDelay)
	r.duration(KeyMaxRetryDelay, &s.Fetch.MaxRetryDelay)
	r.float(KeyRequestsPerSecond, &s.Fetch.RequestsPerSecond)
	r.str(KeyCachePath, &s.Fetch.CachePath)

	r.str(KeyMDNOrigin, &s.Remote.MDNOrigin)
	r.str(KeyCaniuseURL, &s.Remote.CaniuseURL)
	r.integer(KeyParsedFileCache, &s.ParsedFileCache)

	if r.err != nil {
		return domain.Settings{}, r.err
	}
	s.Remote.MDNOrigin = strings.TrimSuffix(s.Remote.MDNOrigin, "/")
	if s.Fetch.MaxAttempts < 1 {
		return domain.Settings{}, fmt.Errorf("%s must be at least 1: %w", KeyMaxAttempts, domain.ErrInvalidInput)
	}
	return s, nil
}

// reader applies config values and environment overrides, keeping the
// first conversion error.
type reader struct {
	store  driven.ConfigStore
	lookup LookupFunc
	err    error
}

func (r *reader) env(key string) (string, bool) {
	name, ok := envNames[key]
	if !ok {
		return "", false
	}
	v, ok := r.lookup(name)
	return v, ok && v != ""
}

func (r *reader) str(key string, dst *string) {
	if v, ok := r.env(key); ok {
		*dst = v
		return
	}
	if v := r.store.GetString(key); v != "" {
		*dst = v
	}
}

func (r *reader) integer(key string, dst *int) {
	if v, ok := r.env(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, v)
			return
		}
		*dst = n
		return
	}
	if _, ok := r.store.Get(key); ok {
		*dst = r.store.GetInt(key)
	}
}

func (r *reader) float(key string, dst *float64) {
	if v, ok := r.env(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, v)
			return
		}
		*dst = f
		return
	}
	if _, ok := r.store.Get(key); ok {
		*dst = r.store.GetFloat(key)
	}
}

// duration accepts Go duration strings ("30s") or whole seconds.
func (r *reader) duration(key string, dst *time.Duration) {
	raw, ok := r.env(key)
	if !ok {
		val, found := r.store.Get(key)
		if !found {
			return
		}
		switch v := val.(type) {
		case string:
			raw = v
		case int64:
			*dst = time.Duration(v) * time.Second
			return
		case int:
			*dst = time.Duration(v) * time.Second
			return
		default:
			r.fail(key, fmt.Sprint(val))
			return
		}
	}
	if n, err := strconv.Atoi(raw); err == nil {
		*dst = time.Duration(n) * time.Second
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, raw)
		return
	}
	*dst = d
}

func (r *reader) fail(key, value string) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: invalid value %q: %w", key, value, domain.ErrInvalidInput)
	}
}
