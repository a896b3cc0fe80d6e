package domain

import (
	"path/filepath"
	"time"
)

// Default file names of the control and output files.
const (
	SpecMapFile          = "SPECMAP.json"
	SpecURLsFile         = "SPECURLS.json"
	SupplementaryFile    = ".specurls.json"
	RespecSpecsFile      = "RESPEC_SPECS.txt"
	BikeshedSpecsFile    = "BIKESHED_SPECS.txt"
	OtherSpecsFile       = "OTHER_SPECS.txt"
	DefaultMDNOrigin     = "https://developer.mozilla.org"
	DefaultCaniuseURL    = "https://raw.githubusercontent.com/Fyrd/caniuse/main/fulldata-json/data-2.0.json"
	DefaultUserAgent     = "mdn-spec-links-script"
	DefaultBCDDir        = "browser-compat-data"
	DefaultLocalDir      = ".local"
	DefaultParsedFileLRU = 64
)

// DefaultBCDDirectories lists the BCD top-level trees walked by a full run.
var DefaultBCDDirectories = []string{
	"api", "css", "html", "http", "javascript", "mathml", "svg", "webdriver",
}

// PathSettings locates the control, input and output files.
type PathSettings struct {
	// WorkDir holds SPECMAP.json, SPECURLS.json and the classification lists.
	WorkDir string

	// OutputDir receives the per-shortname JSON files.
	OutputDir string

	// BCDDir is the root of the browser-compat-data checkout.
	BCDDir string

	// BCDDirectories are the trees walked under BCDDir by a full run.
	BCDDirectories []string

	// LocalDir holds local feature files processed after BCD.
	LocalDir string

	// Supplementary is the static anchor list merged into the registry.
	Supplementary string

	// Rules optionally overrides the embedded rule set.
	Rules string
}

// SpecMapPath returns the path of SPECMAP.json.
func (p PathSettings) SpecMapPath() string {
	return filepath.Join(p.WorkDir, SpecMapFile)
}

// SpecURLsPath returns the path of SPECURLS.json.
func (p PathSettings) SpecURLsPath() string {
	return filepath.Join(p.WorkDir, SpecURLsFile)
}

// SupplementaryPath returns the path of the supplementary anchor list.
func (p PathSettings) SupplementaryPath() string {
	if filepath.IsAbs(p.Supplementary) {
		return p.Supplementary
	}
	return filepath.Join(p.WorkDir, p.Supplementary)
}

// FetchSettings configures remote document retrieval.
type FetchSettings struct {
	UserAgent string

	// Timeout bounds each request.
	Timeout time.Duration

	// MaxAttempts is the total number of tries per request.
	MaxAttempts int

	// RetryDelay is the first backoff delay; MaxRetryDelay caps it.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	// RequestsPerSecond spaces requests; zero disables throttling.
	RequestsPerSecond float64

	// CachePath is the conditional-GET cache database; empty disables it.
	CachePath string
}

// RemoteSettings locates the remote datasets.
type RemoteSettings struct {
	// MDNOrigin is prefixed to article paths when fetching metadata.
	MDNOrigin string

	// CaniuseURL is the caniuse dataset location.
	CaniuseURL string
}

// Settings holds all tool settings.
type Settings struct {
	Paths  PathSettings
	Fetch  FetchSettings
	Remote RemoteSettings

	// ParsedFileCache is the number of parsed BCD files kept for support_from lookups.
	ParsedFileCache int
}

// DefaultSettings returns settings for a run from the current directory.
func DefaultSettings() Settings {
	dirs := make([]string, len(DefaultBCDDirectories))
	copy(dirs, DefaultBCDDirectories)
	return Settings{
		Paths: PathSettings{
			WorkDir:        ".",
			OutputDir:      ".",
			BCDDir:         DefaultBCDDir,
			BCDDirectories: dirs,
			LocalDir:       DefaultLocalDir,
			Supplementary:  SupplementaryFile,
		},
		Fetch: FetchSettings{
			UserAgent:         DefaultUserAgent,
			Timeout:           60 * time.Second,
			MaxAttempts:       4,
			RetryDelay:        10 * time.Second,
			MaxRetryDelay:     60 * time.Second,
			RequestsPerSecond: 2,
		},
		Remote: RemoteSettings{
			MDNOrigin:  DefaultMDNOrigin,
			CaniuseURL: DefaultCaniuseURL,
		},
		ParsedFileCache: DefaultParsedFileLRU,
	}
}
