package domain

// Engine identifies a browser rendering engine family.
type Engine string

// Tracked rendering engines, in output order.
const (
	EngineBlink  Engine = "blink"
	EngineGecko  Engine = "gecko"
	EngineWebKit Engine = "webkit"
)

// Engines lists the tracked engines in output order.
var Engines = []Engine{EngineBlink, EngineGecko, EngineWebKit}

// EngineBrowsers maps each engine to its tracked desktop and mobile browsers.
var EngineBrowsers = map[Engine][]string{
	EngineBlink:  {"chrome", "chrome_android"},
	EngineGecko:  {"firefox", "firefox_android"},
	EngineWebKit: {"safari", "safari_ios"},
}

// SupportStatus is an engine's summarized support, ordered by precedence:
// a higher value always overrides a lower one.
type SupportStatus int

const (
	// StatusNone means no qualifying support entry.
	StatusNone SupportStatus = iota

	// StatusFlagged means support only behind a flag.
	StatusFlagged

	// StatusAltName means support only under an alternative name.
	StatusAltName

	// StatusPrefixed means support only with a vendor prefix.
	StatusPrefixed

	// StatusPartial means a partial implementation.
	StatusPartial

	// StatusFull means unprefixed, unflagged, complete support.
	StatusFull
)

// String returns the status name.
func (s SupportStatus) String() string {
	switch s {
	case StatusFlagged:
		return "flagged"
	case StatusAltName:
		return "altname"
	case StatusPrefixed:
		return "prefixed"
	case StatusPartial:
		return "partial"
	case StatusFull:
		return "full"
	default:
		return "none"
	}
}

// EngineSummary is the per-engine reduction of a support block.
type EngineSummary map[Engine]SupportStatus

// With returns the engines whose status equals s, in output order.
func (e EngineSummary) With(s SupportStatus) []string {
	var out []string
	for _, eng := range Engines {
		if e[eng] == s {
			out = append(out, string(eng))
		}
	}
	return out
}

// Supporting returns the engines with full support, in output order.
func (e EngineSummary) Supporting() []string {
	return e.With(StatusFull)
}
