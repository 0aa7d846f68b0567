package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Handle serves POST requests with a JSON body and GET requests with query,
// operationName and variables URL parameters. Mutations are POST only.
func (e *Executor) Handle(c *gin.Context) {
	req, err := decodeRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, &Response{Errors: gqlerror.List{gqlErrWithCode(nil, err.Error(), codeBadRequest)}})
		return
	}

	op, vars, errs := e.Prepare(req)
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, &Response{Errors: errs})
		return
	}

	if op.Operation == ast.Mutation && c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, &Response{Errors: gqlerror.List{gqlErrWithCode(nil, "mutations require POST", codeBadRequest)}})
		return
	}

	c.JSON(http.StatusOK, e.ExecuteOperation(c.Request.Context(), op, vars))
}

type requestError string

func (e requestError) Error() string { return string(e) }

func decodeRequest(c *gin.Context) (Request, error) {
	var req Request

	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")

		if raw := c.Query("variables"); raw != "" {
			if err := decodeJSON([]byte(raw), &req.Variables); err != nil {
				return req, requestError("variables must be a JSON object")
			}
		}
	} else {
		body, err := c.GetRawData()
		if err != nil {
			return req, requestError("reading request body failed")
		}

		if err := decodeJSON(body, &req); err != nil {
			return req, requestError("invalid request body")
		}
	}

	if req.Query == "" {
		return req, requestError("query is required")
	}

	return req, nil
}

// decodeJSON keeps numbers as json.Number so integer variables stay exact.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(v)
}
