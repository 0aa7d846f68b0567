package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/persistorai/citegraph/internal/models"
)

// HTMLOptions controls the visualization page.
type HTMLOptions struct {
	Title  string
	Width  int
	Height int
	// Seeds are drawn in a highlight color.
	Seeds []models.DocumentID
}

type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

type visEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type page struct {
	Title  string
	Width  int
	Height int
	Nodes  []visNode
	Edges  []visEdge
}

const (
	seedColor     = "#e4572e"
	defaultWidth  = 1280
	defaultHeight = 720
)

var pageTmpl = template.Must(template.New("graph").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"></script>
<style>#graph { width: {{.Width}}px; height: {{.Height}}px; border: 1px solid #ddd; }</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="graph"></div>
<script>
const nodes = new vis.DataSet({{.Nodes}});
const edges = new vis.DataSet({{.Edges}});
new vis.Network(document.getElementById("graph"), {nodes: nodes, edges: edges}, {
  edges: {arrows: "to"},
  physics: {stabilization: true}
});
</script>
</body>
</html>
`))

// WriteHTML renders the nodes and the links between them as an interactive
// vis-network page. Links with an endpoint outside nodes are dropped.
func WriteHTML(w io.Writer, nodes models.DocumentSet, links models.LinkSet, opts HTMLOptions) error {
	seeds := models.NewDocumentSet(opts.Seeds...)

	p := page{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Nodes:  make([]visNode, 0, len(nodes)),
		Edges:  make([]visEdge, 0, len(links)),
	}

	if p.Title == "" {
		p.Title = "Citation network"
	}

	if p.Width <= 0 {
		p.Width = defaultWidth
	}

	if p.Height <= 0 {
		p.Height = defaultHeight
	}

	for _, id := range nodes.Sorted() {
		n := visNode{ID: id, Label: id, Title: models.Classify(id).String()}
		if seeds.Has(id) {
			n.Color = seedColor
		}

		p.Nodes = append(p.Nodes, n)
	}

	for _, l := range links.Sorted() {
		if nodes.Has(l.From) && nodes.Has(l.To) {
			p.Edges = append(p.Edges, visEdge{From: l.From, To: l.To})
		}
	}

	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	return nil
}
