package graphql_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/citegraph/internal/graphql"
	"github.com/persistorai/citegraph/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerRouter(r *graphql.Resolver) *gin.Engine {
	e := graphql.NewExecutor(r, testLogger())

	router := gin.New()
	router.POST("/graphql", e.Handle)
	router.GET("/graphql", e.Handle)

	return router
}

func citationsResolver(calls *int) *graphql.Resolver {
	return &graphql.Resolver{
		Citations: &mockCitationService{
			citationsFn: func(_ context.Context, id models.DocumentID, _ models.DepthBudget) (models.DocumentSet, error) {
				*calls++
				return models.NewDocumentSet(id+"-cited"), nil
			},
		},
		References: &mockReferenceService{
			putFn: func(context.Context, string, models.DocumentSet) error {
				*calls++
				return nil
			},
		},
	}
}

func TestHandle(t *testing.T) {
	mutation := `mutation { putReferenceSet(name: "gold", documents: ["A"]) }`

	tests := []struct {
		name      string
		method    string
		target    string
		body      string
		wantCode  int
		wantCalls int
	}{
		{
			name:      "post query",
			method:    http.MethodPost,
			target:    "/graphql",
			body:      `{"query": "query ($d: Int) { citations(id: \"A\", citesDepth: $d) }", "variables": {"d": 1}}`,
			wantCode:  http.StatusOK,
			wantCalls: 1,
		},
		{
			name:      "get query",
			method:    http.MethodGet,
			target:    "/graphql?query=" + url.QueryEscape(`{ citations(id: "A") }`),
			wantCode:  http.StatusOK,
			wantCalls: 1,
		},
		{
			name:     "get mutation rejected",
			method:   http.MethodGet,
			target:   "/graphql?query=" + url.QueryEscape(mutation),
			wantCode: http.StatusMethodNotAllowed,
		},
		{
			name:      "post mutation",
			method:    http.MethodPost,
			target:    "/graphql",
			body:      `{"query": ` + jsonString(mutation) + `}`,
			wantCode:  http.StatusOK,
			wantCalls: 1,
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			target:   "/graphql",
			body:     `{"query":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing query",
			method:   http.MethodPost,
			target:   "/graphql",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed variables",
			method:   http.MethodGet,
			target:   "/graphql?query=" + url.QueryEscape(`{ citations(id: "A") }`) + "&variables=nope",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid query",
			method:   http.MethodPost,
			target:   "/graphql",
			body:     `{"query": "{ unknownField }"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			router := newHandlerRouter(citationsResolver(&calls))

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}

			if calls != tt.wantCalls {
				t.Errorf("service calls = %d, want %d", calls, tt.wantCalls)
			}

			var resp struct {
				Data   map[string]any   `json:"data"`
				Errors []map[string]any `json:"errors"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if (tt.wantCode == http.StatusOK) != (len(resp.Errors) == 0) {
				t.Errorf("errors = %v", resp.Errors)
			}
		})
	}
}

func TestHandle_CitationsBody(t *testing.T) {
	calls := 0
	router := newHandlerRouter(citationsResolver(&calls))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query": "{ citations(id: \"32021R0664\") }"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if want := `{"data":{"citations":["32021R0664-cited"]}}`; w.Body.String() != want {
		t.Errorf("body = %s, want %s", w.Body.String(), want)
	}
}

func jsonString(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}
