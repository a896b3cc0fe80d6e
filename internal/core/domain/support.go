package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Version is a BCD version value: a version string, true, false or null.
// The empty Version is null; "true" and "false" are the boolean forms.
type Version string

// Version sentinels for the non-string BCD forms.
const (
	VersionNull  Version = ""
	VersionTrue  Version = "true"
	VersionFalse Version = "false"
)

// Trimmed drops the "≤" ranged-version marker.
func (v Version) Trimmed() Version {
	return Version(strings.TrimPrefix(string(v), "≤"))
}

// Truthy reports whether the version records support of some kind.
func (v Version) Truthy() bool {
	return v != VersionNull && v != VersionFalse
}

// Number parses the numeric part of the version ("≤79" → 79).
// ok is false for booleans, null, "preview" and other non-numeric forms.
func (v Version) Number() (float64, bool) {
	s := strings.TrimPrefix(string(v), "≤")
	if s == "" || v == VersionTrue || v == VersionFalse {
		return 0, false
	}
	// Only the major.minor prefix matters for comparison.
	if parts := strings.SplitN(s, ".", 3); len(parts) == 3 {
		s = parts[0] + "." + parts[1]
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON encodes the BCD union form.
func (v Version) MarshalJSON() ([]byte, error) {
	switch v {
	case VersionNull:
		return []byte("null"), nil
	case VersionTrue:
		return []byte("true"), nil
	case VersionFalse:
		return []byte("false"), nil
	}
	return json.Marshal(string(v))
}

// UnmarshalJSON decodes the BCD union form.
func (v *Version) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*v = VersionNull
		return nil
	case "true":
		*v = VersionTrue
		return nil
	case "false":
		*v = VersionFalse
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Version(s)
	return nil
}

// Flag describes a browser flag gating a feature.
type Flag struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	ValueToSet string `json:"value_to_set,omitempty"`
}

// SupportStatement is one historical support revision for a browser.
type SupportStatement struct {
	VersionAdded          Version         `json:"version_added"`
	VersionRemoved        Version         `json:"version_removed,omitempty"`
	Prefix                string          `json:"prefix,omitempty"`
	AlternativeName       string          `json:"alternative_name,omitempty"`
	Flags                 []Flag          `json:"flags,omitempty"`
	PartialImplementation bool            `json:"partial_implementation,omitempty"`
	Notes                 json.RawMessage `json:"notes,omitempty"`
}

// Removed reports whether the statement records a removal.
func (s SupportStatement) Removed() bool {
	return s.VersionRemoved.Truthy()
}

// Unconditional reports whether the statement is unprefixed, unflagged,
// under the standard name and not partial.
func (s SupportStatement) Unconditional() bool {
	return s.Prefix == "" && s.AlternativeName == "" && len(s.Flags) == 0 && !s.PartialImplementation
}

// SupportBlock is a single support statement or an ordered list of them.
// A block decoded from an object re-encodes as an object; a list as an array.
// Mirror marks the "mirror" placeholder used in BCD source data.
type SupportBlock struct {
	Statements []SupportStatement
	List       bool
	Mirror     bool
}

const mirrorValue = "mirror"

// Clone returns a deep copy of the statements.
func (b SupportBlock) Clone() SupportBlock {
	out := SupportBlock{List: b.List, Mirror: b.Mirror}
	if b.Statements != nil {
		out.Statements = make([]SupportStatement, len(b.Statements))
		for i, s := range b.Statements {
			if s.Flags != nil {
				s.Flags = append([]Flag(nil), s.Flags...)
			}
			if s.Notes != nil {
				s.Notes = append(json.RawMessage(nil), s.Notes...)
			}
			out.Statements[i] = s
		}
	}
	return out
}

// NewSupportBlock creates a block from statements; more than one statement
// always encodes as a list.
func NewSupportBlock(statements ...SupportStatement) SupportBlock {
	return SupportBlock{Statements: statements, List: len(statements) != 1}
}

// MarshalJSON encodes the union form.
func (b SupportBlock) MarshalJSON() ([]byte, error) {
	if b.Mirror {
		return json.Marshal(mirrorValue)
	}
	if !b.List && len(b.Statements) == 1 {
		return json.Marshal(b.Statements[0])
	}
	if b.Statements == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.Statements)
}

// UnmarshalJSON decodes the union form.
func (b *SupportBlock) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*b = SupportBlock{Mirror: s == mirrorValue}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []SupportStatement
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*b = SupportBlock{Statements: list, List: true}
		return nil
	}
	var single SupportStatement
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*b = SupportBlock{Statements: []SupportStatement{single}}
	return nil
}

// Support maps BCD browser identifiers (chrome, firefox_android, ...) to support blocks.
type Support map[string]SupportBlock
