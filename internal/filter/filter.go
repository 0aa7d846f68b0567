// Package filter prunes a citation link set by node degree.
package filter

import (
	"gonum.org/v1/gonum/graph/simple"

	"github.com/persistorai/citegraph/internal/models"
)

// undirected is a gonum view of a link set with direction discarded.
type undirected struct {
	g     *simple.UndirectedGraph
	ids   map[models.DocumentID]int64
	rev   []models.DocumentID
	loops map[int64]bool
}

func build(links models.LinkSet) *undirected {
	u := &undirected{
		g:     simple.NewUndirectedGraph(),
		ids:   make(map[models.DocumentID]int64),
		loops: make(map[int64]bool),
	}

	// Sorted so node ids are stable across calls.
	for _, l := range links.Sorted() {
		from := u.node(l.From)
		to := u.node(l.To)

		// simple graphs reject self loops, so they are tracked beside the graph.
		if from == to {
			u.loops[from] = true
			continue
		}

		u.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	return u
}

func (u *undirected) node(id models.DocumentID) int64 {
	if n, ok := u.ids[id]; ok {
		return n
	}

	n := int64(len(u.rev))
	u.ids[id] = n
	u.rev = append(u.rev, id)
	u.g.AddNode(simple.Node(n))

	return n
}

// Degrees returns the number of distinct neighbors of every link endpoint.
// A self citation adds two, as both of its ends touch the node.
func Degrees(links models.LinkSet) map[models.DocumentID]int {
	u := build(links)

	out := make(map[models.DocumentID]int, len(u.rev))
	for n, id := range u.rev {
		deg := u.g.From(int64(n)).Len()
		if u.loops[int64(n)] {
			deg += 2
		}
		out[id] = deg
	}

	return out
}

// Filter returns the link endpoints whose degree is at least minDegree.
// A minDegree of zero or less keeps every endpoint.
func Filter(links models.LinkSet, minDegree int) models.DocumentSet {
	return atLeast(Degrees(links), minDegree)
}

func atLeast(degrees map[models.DocumentID]int, minDegree int) models.DocumentSet {
	kept := models.NewDocumentSet()
	for id, deg := range degrees {
		if deg >= minDegree {
			kept.Add(id)
		}
	}

	return kept
}

// Induced returns the links whose endpoints are both in nodes.
func Induced(links models.LinkSet, nodes models.DocumentSet) models.LinkSet {
	out := make(models.LinkSet)
	for l := range links {
		if nodes.Has(l.From) && nodes.Has(l.To) {
			out.Add(l)
		}
	}

	return out
}

// Apply runs the degree filter and packages nodes, surviving links and the
// degree of every original endpoint.
func Apply(links models.LinkSet, minDegree int) *models.FilterResult {
	degrees := Degrees(links)
	kept := atLeast(degrees, minDegree)

	return &models.FilterResult{
		Nodes:   kept.Sorted(),
		Links:   Induced(links, kept).Sorted(),
		Degrees: degrees,
	}
}
