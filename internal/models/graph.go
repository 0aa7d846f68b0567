package models

import (
	"encoding/json"
	"sort"
)

// Link is a directed citation: From cites To.
type Link struct {
	From DocumentID `json:"source"`
	To   DocumentID `json:"target"`
}

// LinkSet is an unordered set of citation links.
type LinkSet map[Link]struct{}

// Add inserts l into the set.
func (s LinkSet) Add(l Link) { s[l] = struct{}{} }

// Has reports whether l is in the set.
func (s LinkSet) Has(l Link) bool {
	_, ok := s[l]
	return ok
}

// AddAll inserts every member of other into s.
func (s LinkSet) AddAll(other LinkSet) {
	for l := range other {
		s[l] = struct{}{}
	}
}

// Sorted returns the links ordered by source then target.
func (s LinkSet) Sorted() []Link {
	out := make([]Link, 0, len(s))
	for l := range s {
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}

		return out[i].To < out[j].To
	})

	return out
}

// NewLinkSet builds a set from the given links.
func NewLinkSet(links ...Link) LinkSet {
	s := make(LinkSet, len(links))
	for _, l := range links {
		s[l] = struct{}{}
	}

	return s
}

// CitationGraph is the result of a traversal. Every link endpoint is a node;
// nodes may also be isolated seeds.
type CitationGraph struct {
	Links LinkSet
	Nodes DocumentSet
}

// NewCitationGraph returns an empty graph.
func NewCitationGraph() *CitationGraph {
	return &CitationGraph{Links: make(LinkSet), Nodes: make(DocumentSet)}
}

// AddNode inserts a node.
func (g *CitationGraph) AddNode(id DocumentID) { g.Nodes.Add(id) }

// AddLink inserts a link together with both endpoints.
func (g *CitationGraph) AddLink(l Link) {
	g.Links.Add(l)
	g.Nodes.Add(l.From)
	g.Nodes.Add(l.To)
}

// Merge folds other into g.
func (g *CitationGraph) Merge(other *CitationGraph) {
	if other == nil {
		return
	}

	g.Links.AddAll(other.Links)
	g.Nodes.AddAll(other.Nodes)
}

// graphJSON is the wire form of CitationGraph with deterministic ordering.
type graphJSON struct {
	Nodes []DocumentID `json:"nodes"`
	Links []Link       `json:"links"`
}

// MarshalJSON encodes nodes and links as sorted arrays.
func (g *CitationGraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{Nodes: g.Nodes.Sorted(), Links: g.Links.Sorted()})
}

// UnmarshalJSON decodes the array form produced by MarshalJSON.
func (g *CitationGraph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	g.Nodes = NewDocumentSet(raw.Nodes...)
	g.Links = make(LinkSet, len(raw.Links))

	for _, l := range raw.Links {
		g.AddLink(l)
	}

	return nil
}
