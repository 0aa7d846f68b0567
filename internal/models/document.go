package models

import (
	"fmt"
	"sort"
	"strings"
)

// maxDocumentIDLen caps identifier length; CELEX numbers are far shorter.
const maxDocumentIDLen = 64

// DocumentID is a CELEX identifier such as "32021R0664".
type DocumentID = string

// Kind is the document category encoded by the leading CELEX sector character.
type Kind int

// Document kinds, one per CELEX sector.
const (
	KindUnknown Kind = iota
	KindConsolidated
	KindTreaty
	KindInternationalAgreement
	KindLegislation
	KindComplementary
	KindPreparatory
	KindCaseLaw
	KindNationalTransposition
	KindNationalCaseLaw
	KindParliamentaryQuestion
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindConsolidated:           "consolidated",
	KindTreaty:                 "treaty",
	KindInternationalAgreement: "international_agreement",
	KindLegislation:            "legislation",
	KindComplementary:          "complementary",
	KindPreparatory:            "preparatory",
	KindCaseLaw:                "case_law",
	KindNationalTransposition:  "national_transposition",
	KindNationalCaseLaw:        "national_case_law",
	KindParliamentaryQuestion:  "parliamentary_question",
}

var sectorKinds = map[byte]Kind{
	'0': KindConsolidated,
	'1': KindTreaty,
	'2': KindInternationalAgreement,
	'3': KindLegislation,
	'4': KindComplementary,
	'5': KindPreparatory,
	'6': KindCaseLaw,
	'7': KindNationalTransposition,
	'8': KindNationalCaseLaw,
	'9': KindParliamentaryQuestion,
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return kindNames[KindUnknown]
}

// ParseKind resolves a kind from its canonical name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name && k != KindUnknown {
			return k, nil
		}
	}

	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Classify returns the kind of a document from its sector character.
func Classify(id DocumentID) Kind {
	if id == "" {
		return KindUnknown
	}

	if k, ok := sectorKinds[id[0]]; ok {
		return k
	}

	return KindUnknown
}

// ValidateDocumentID rejects identifiers that are empty, too long, or contain
// characters outside the CELEX alphabet. Identifiers end up inside query text.
func ValidateDocumentID(id DocumentID) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDocumentID)
	}

	if len(id) > maxDocumentIDLen {
		return fmt.Errorf("%w: %v", ErrInvalidDocumentID, ErrFieldTooLong("id", maxDocumentIDLen))
	}

	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c == '(' || c == ')' || c == '.' || c == '_' || c == '-':
		default:
			return fmt.Errorf("%w: unexpected character %q in %q", ErrInvalidDocumentID, c, id)
		}
	}

	return nil
}

// DocumentSet is an unordered set of document identifiers.
type DocumentSet map[DocumentID]struct{}

// NewDocumentSet builds a set from the given identifiers.
func NewDocumentSet(ids ...DocumentID) DocumentSet {
	s := make(DocumentSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Add inserts id into the set.
func (s DocumentSet) Add(id DocumentID) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s DocumentSet) Has(id DocumentID) bool {
	_, ok := s[id]
	return ok
}

// AddAll inserts every member of other into s.
func (s DocumentSet) AddAll(other DocumentSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Intersect returns the members present in both sets.
func (s DocumentSet) Intersect(other DocumentSet) DocumentSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}

	out := make(DocumentSet)
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}

	return out
}

// Difference returns the members of s not present in other.
func (s DocumentSet) Difference(other DocumentSet) DocumentSet {
	out := make(DocumentSet)
	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}

	return out
}

// Clone returns an independent copy of the set.
func (s DocumentSet) Clone() DocumentSet {
	out := make(DocumentSet, len(s))
	out.AddAll(s)

	return out
}

// Sorted returns the members in lexical order.
func (s DocumentSet) Sorted() []DocumentID {
	out := make([]DocumentID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}

	sort.Strings(out)

	return out
}
