package file

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
)

type kind int

const (
	kindString kind = iota
	kindList
	kindInt
	kindFloat
	kindDuration
)

var keyKinds = map[string]kind{
	KeyWorkDir:           kindString,
	KeyOutputDir:         kindString,
	KeyBCDDir:            kindString,
	KeyBCDDirectories:    kindList,
	KeyLocalDir:          kindString,
	KeySupplementary:     kindString,
	KeyRules:             kindString,
	KeyUserAgent:         kindString,
	KeyTimeout:           kindDuration,
	KeyMaxAttempts:       kindInt,
	KeyRetryDelay:        kindDuration,
	KeyMaxRetryDelay:     kindDuration,
	KeyRequestsPerSecond: kindFloat,
	KeyCachePath:         kindString,
	KeyMDNOrigin:         kindString,
	KeyCaniuseURL:        kindString,
	KeyParsedFileCache:   kindInt,
}

// SetSetting parses raw for key and persists it in store. Lists are
// comma-separated; durations are stored in their string form.
func SetSetting(store driven.ConfigStore, key, raw string) error {
	k, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("unknown setting %q, expected one of %s: %w",
			key, strings.Join(SettingKeys(), ", "), domain.ErrInvalidInput)
	}
	raw = strings.TrimSpace(raw)

	var value any
	switch k {
	case kindString:
		value = raw
	case kindList:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		value = items
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return fmt.Errorf("%s: invalid value %q: %w", key, raw, domain.ErrInvalidInput)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s: invalid value %q: %w", key, raw, domain.ErrInvalidInput)
		}
		value = f
	case kindDuration:
		if n, err := strconv.Atoi(raw); err == nil {
			raw = (time.Duration(n) * time.Second).String()
		} else if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: invalid value %q: %w", key, raw, domain.ErrInvalidInput)
		}
		value = raw
	}
	return store.Set(key, value)
}

// SettingKeys lists the keys SetSetting accepts, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
