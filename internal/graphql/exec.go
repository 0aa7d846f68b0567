// Package graphql serves the citation operations over GraphQL. Queries are
// parsed and validated against an embedded schema and executed against the
// same services as the REST API.
package graphql

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

//go:embed schema.graphql
var schemaSDL string

var schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})

// Request is a GraphQL request as sent over HTTP.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL result. Data is null when the request failed before
// execution or a non-null root field failed.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors gqlerror.List  `json:"errors,omitempty"`
}

// Executor executes GraphQL requests against a Resolver.
type Executor struct {
	fields map[string]fieldFunc
	log    *logrus.Logger
}

// NewExecutor creates an Executor for the given services.
func NewExecutor(r *Resolver, log *logrus.Logger) *Executor {
	return &Executor{fields: r.fields(), log: log}
}

// Prepare parses and validates a request and selects its operation.
func (e *Executor) Prepare(req Request) (*ast.OperationDefinition, map[string]any, gqlerror.List) {
	doc, errs := gqlparser.LoadQuery(schema, req.Query)
	if len(errs) > 0 {
		return nil, nil, errs
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		if req.OperationName == "" {
			return nil, nil, gqlerror.List{gqlErrWithCode(nil, "operationName is required when the document has several operations", codeBadRequest)}
		}

		return nil, nil, gqlerror.List{gqlErrWithCode(nil, fmt.Sprintf("operation %q not found", req.OperationName), codeBadRequest)}
	}

	if op.Operation == ast.Subscription {
		return nil, nil, gqlerror.List{gqlErrWithCode(nil, "subscriptions are not supported", codeBadRequest)}
	}

	vars, err := validator.VariableValues(schema, op, req.Variables)
	if err != nil {
		return nil, nil, asList(err)
	}

	return op, vars, nil
}

// Execute runs req and returns its result. Root fields run in document
// order; a failed field is reported in Errors and nulls its nearest nullable
// ancestor.
func (e *Executor) Execute(ctx context.Context, req Request) *Response {
	op, vars, errs := e.Prepare(req)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}

	return e.ExecuteOperation(ctx, op, vars)
}

// ExecuteOperation runs a prepared operation.
func (e *Executor) ExecuteOperation(ctx context.Context, op *ast.OperationDefinition, vars map[string]any) *Response {
	root := schema.Query
	if op.Operation == ast.Mutation {
		root = schema.Mutation
	}

	run := &execution{fields: e.fields, vars: vars, log: e.log}

	data := make(map[string]any)
	ok := true

	for _, cf := range run.collect(op.SelectionSet) {
		path := ast.Path{ast.PathName(cf.key)}
		field := cf.fields[0]

		v, fieldOK := run.rootField(ctx, root.Name, cf, path)
		data[cf.key] = v

		if !fieldOK && field.Definition != nil && field.Definition.Type.NonNull {
			ok = false
		}
	}

	e.log.WithFields(logrus.Fields{
		"operation": string(op.Operation),
		"name":      op.Name,
		"errors":    len(run.errs),
	}).Debug("graphql.execute")

	if !ok {
		data = nil
	}

	return &Response{Data: data, Errors: run.errs}
}

// execution is the state of one operation run.
type execution struct {
	fields map[string]fieldFunc
	vars   map[string]any
	log    *logrus.Logger
	errs   gqlerror.List
}

// collectedField is every selection of one response key, in document order.
type collectedField struct {
	key    string
	fields []*ast.Field
}

// collect flattens fragments and applies @skip and @include.
func (x *execution) collect(sets ...ast.SelectionSet) []*collectedField {
	var (
		out   []*collectedField
		index = make(map[string]*collectedField)
	)

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if !x.included(s.Directives) {
					continue
				}

				key := s.Alias
				if key == "" {
					key = s.Name
				}

				if cf, ok := index[key]; ok {
					cf.fields = append(cf.fields, s)
					continue
				}

				cf := &collectedField{key: key, fields: []*ast.Field{s}}
				index[key] = cf
				out = append(out, cf)
			case *ast.InlineFragment:
				if x.included(s.Directives) {
					walk(s.SelectionSet)
				}
			case *ast.FragmentSpread:
				if x.included(s.Directives) && s.Definition != nil {
					walk(s.Definition.SelectionSet)
				}
			}
		}
	}

	for _, set := range sets {
		walk(set)
	}

	return out
}

func (x *execution) included(dirs ast.DirectiveList) bool {
	if d := dirs.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(x.vars)["if"].(bool); skip {
			return false
		}
	}

	if d := dirs.ForName("include"); d != nil {
		if include, _ := d.ArgumentMap(x.vars)["if"].(bool); !include {
			return false
		}
	}

	return true
}

func (x *execution) rootField(ctx context.Context, typeName string, cf *collectedField, path ast.Path) (any, bool) {
	field := cf.fields[0]
	if field.Name == "__typename" {
		return typeName, true
	}

	resolve, ok := x.fields[typeName+"."+field.Name]
	if !ok {
		x.errs = append(x.errs, gqlErrWithCode(path, fmt.Sprintf("field %s is not supported", field.Name), codeBadRequest))
		return nil, false
	}

	val, err := resolve(ctx, field.ArgumentMap(x.vars))
	if err != nil {
		x.errs = append(x.errs, gqlErr(x.log, path, err))
		return nil, false
	}

	generic, err := toGeneric(val)
	if err != nil {
		x.errs = append(x.errs, gqlErr(x.log, path, err))
		return nil, false
	}

	return x.complete(field.Definition.Type, cf.fields, generic, path)
}

// complete shapes a JSON-decoded value to the selection. The bool is false
// when a non-null position ended up null.
func (x *execution) complete(typ *ast.Type, fields []*ast.Field, val any, path ast.Path) (any, bool) {
	if val == nil {
		// A nil Go slice encodes as null.
		if typ.Elem != nil && typ.NonNull {
			return []any{}, true
		}

		if typ.NonNull {
			x.errs = append(x.errs, gqlErrWithCode(path, "non-null field resolved to null", codeInternalError))
			return nil, false
		}

		return nil, true
	}

	if typ.Elem != nil {
		items, ok := val.([]any)
		if !ok {
			x.errs = append(x.errs, gqlErrWithCode(path, "expected a list", codeInternalError))
			return nil, !typ.NonNull
		}

		out := make([]any, len(items))
		for i, item := range items {
			v, ok := x.complete(typ.Elem, fields, item, child(path, ast.PathIndex(i)))
			if !ok {
				return nil, !typ.NonNull
			}

			out[i] = v
		}

		return out, true
	}

	def := schema.Types[typ.NamedType]
	if def == nil || def.Kind != ast.Object {
		return val, true
	}

	obj, ok := val.(map[string]any)
	if !ok {
		x.errs = append(x.errs, gqlErrWithCode(path, "expected an object", codeInternalError))
		return nil, !typ.NonNull
	}

	sets := make([]ast.SelectionSet, len(fields))
	for i, f := range fields {
		sets[i] = f.SelectionSet
	}

	out := make(map[string]any)
	for _, cf := range x.collect(sets...) {
		sub := cf.fields[0]
		if sub.Name == "__typename" {
			out[cf.key] = def.Name
			continue
		}

		v, ok := x.complete(sub.Definition.Type, cf.fields, obj[jsonKey(sub.Name)], child(path, ast.PathName(cf.key)))
		if !ok {
			return nil, !typ.NonNull
		}

		out[cf.key] = v
	}

	return out, true
}

// child copies path so sibling paths never share a backing array.
func child(path ast.Path, el ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)

	return append(out, el)
}

// toGeneric converts a resolver result to the maps and slices of its JSON
// form, so objects are read through their wire field names.
func toGeneric(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}

	return out, nil
}

// jsonKey maps a camelCase schema field to its snake_case wire name.
func jsonKey(field string) string {
	b := make([]byte, 0, len(field)+4)
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c >= 'A' && c <= 'Z' {
			b = append(b, '_', c+'a'-'A')
			continue
		}

		b = append(b, c)
	}

	return string(b)
}
