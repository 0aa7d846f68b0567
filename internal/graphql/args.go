package graphql

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/persistorai/citegraph/internal/models"
)

// Argument values arrive as int64 from literals and as json.Number or
// float64 from variables.
func intArg(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, &argError{msg: fmt.Sprintf("%s must be an integer", name)}
		}

		return int(n), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, &argError{msg: fmt.Sprintf("%s must be an integer", name)}
		}

		return int(v), nil
	default:
		return 0, &argError{msg: fmt.Sprintf("%s must be an integer", name)}
	}
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func boolArg(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}

func idsArg(args map[string]any, name string) ([]models.DocumentID, error) {
	raw, ok := args[name].([]any)
	if !ok {
		return nil, nil
	}

	out := make([]models.DocumentID, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, &argError{msg: fmt.Sprintf("%s must be a list of ids", name)}
		}

		out = append(out, s)
	}

	return out, nil
}

func budgetArgs(args map[string]any) (models.DepthBudget, error) {
	cites, err := intArg(args, "citesDepth")
	if err != nil {
		return models.DepthBudget{}, err
	}

	cited, err := intArg(args, "citedDepth")
	if err != nil {
		return models.DepthBudget{}, err
	}

	return models.DepthBudget{Cites: cites, Cited: cited}, nil
}

func linksArg(args map[string]any, name string) ([]models.Link, error) {
	raw, _ := args[name].([]any)

	out := make([]models.Link, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &argError{msg: fmt.Sprintf("%s must be a list of links", name)}
		}

		from, _ := m["source"].(string)
		to, _ := m["target"].(string)
		out = append(out, models.Link{From: from, To: to})
	}

	return out, nil
}
