package lookup

import (
	"fmt"
	"strings"

	"github.com/persistorai/citegraph/internal/models"
)

const queryPrefix = `prefix cdm: <http://publications.europa.eu/ontology/cdm#>
prefix xsd: <http://www.w3.org/2001/XMLSchema#>
`

// Each branch binds ?name2 to the CELEX id of a document within n hops.
const (
	citesBranch = `{
		SELECT ?name2 WHERE {
			?doc cdm:resource_legal_id_celex "%s"^^xsd:string .
			?doc cdm:work_cites_work{1,%d} ?cited .
			?cited cdm:resource_legal_id_celex ?name2 .
		}
	}`
	citedBranch = `{
		SELECT ?name2 WHERE {
			?doc cdm:resource_legal_id_celex "%s"^^xsd:string .
			?cited cdm:work_cites_work{1,%d} ?doc .
			?cited cdm:resource_legal_id_celex ?name2 .
		}
	}`
)

// buildQuery renders the hop-bounded citation query for id. A direction with
// a zero budget contributes no branch. The id must already be validated.
func buildQuery(id models.DocumentID, hops models.DepthBudget) string {
	branches := make([]string, 0, 2)

	if hops.Cites > 0 {
		branches = append(branches, fmt.Sprintf(citesBranch, id, hops.Cites))
	}

	if hops.Cited > 0 {
		branches = append(branches, fmt.Sprintf(citedBranch, id, hops.Cited))
	}

	return queryPrefix + "SELECT DISTINCT ?name2 WHERE {\n\t" + strings.Join(branches, " UNION ") + "\n}"
}
