// Canonicalizes the heterogeneous modality column into a set of tags.
// The stored value is sometimes a single string, sometimes a "/"-separated
// string, sometimes an array; only the snapshot loader inspects the variant.

package dispatch

import (
	"sort"
	"strings"
)

// Canonical modality tags.
const (
	ModalityCT    = "CT"
	ModalityMRI   = "MRI"
	ModalityXRay  = "XRAY"
	ModalityUS    = "US"
	ModalityOther = "OTHER"
)

// modalityAliases maps trimmed, uppercased raw tokens to canonical tags.
// Tokens without an entry pass through unchanged.
var modalityAliases = map[string]string{
	"KT":         ModalityCT,
	"КТ":         ModalityCT,
	"MRT":        ModalityMRI,
	"МРТ":        ModalityMRI,
	"RENTGEN":    ModalityXRay,
	"РЕНТГЕН":    ModalityXRay,
	"X_RAY":      ModalityXRay,
	"УЗИ":        ModalityUS,
	"ULTRASOUND": ModalityUS,
	"ПРОЧЕЕ":     ModalityOther,
	"":           ModalityOther,
}

// ModalityKind tags the raw variant of the modality column.
type ModalityKind int

const (
	ModalityKindEmpty ModalityKind = iota
	ModalityKindString
	ModalityKindList
)

// ModalityValue is the raw modality descriptor as stored. Exactly one of Str
// or List is meaningful, selected by Kind.
type ModalityValue struct {
	Kind ModalityKind
	Str  string
	List []string
}

// ModalityString wraps a single (possibly "/"-separated) modality string.
func ModalityString(s string) ModalityValue {
	return ModalityValue{Kind: ModalityKindString, Str: s}
}

// ModalityList wraps a modality array.
func ModalityList(values []string) ModalityValue {
	return ModalityValue{Kind: ModalityKindList, List: values}
}

// ModalitySet is a set of canonical modality tags. The empty set is the
// wildcard: it is compatible with anything.
type ModalitySet map[string]struct{}

// NewModalitySet builds a set from already-canonical tags (used by tests and
// the in-memory store).
func NewModalitySet(tags ...string) ModalitySet {
	set := make(ModalitySet, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// NormalizeModality canonicalizes a raw modality descriptor into a set of
// tags. Tokens are trimmed, uppercased, and substituted through the alias
// table; empty tokens are dropped and duplicates collapse. A nil descriptor
// yields the empty (wildcard) set.
func NormalizeModality(v ModalityValue) ModalitySet {
	var tokens []string
	switch v.Kind {
	case ModalityKindString:
		tokens = strings.Split(v.Str, "/")
	case ModalityKindList:
		tokens = v.List
	default:
		return ModalitySet{}
	}

	set := make(ModalitySet, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if canonical, ok := modalityAliases[tok]; ok {
			tok = canonical
		}
		// Alias substitution runs first: a blank token maps to OTHER, so only
		// tokens the table leaves empty are dropped here.
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// Empty reports whether the set is the wildcard.
func (m ModalitySet) Empty() bool {
	return len(m) == 0
}

// Has reports membership of a canonical tag.
func (m ModalitySet) Has(tag string) bool {
	_, ok := m[tag]
	return ok
}

// Compatible reports whether a study set and a doctor set match: a non-empty
// intersection, or either side being the wildcard.
func (m ModalitySet) Compatible(other ModalitySet) bool {
	if m.Empty() || other.Empty() {
		return true
	}
	for tag := range m {
		if other.Has(tag) {
			return true
		}
	}
	return false
}

// Sorted returns the tags in lexicographic order for stable output.
func (m ModalitySet) Sorted() []string {
	tags := make([]string, 0, len(m))
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
