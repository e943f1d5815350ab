package graphql_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gqlhttp "github.com/shashiranjanraj/shopql/pkg/graphql"
)

type ctxKey struct{}

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "world"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "hello " + p.Args["name"].(string), nil
				},
			},
			"caller": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v, _ := p.Context.Value(ctxKey{}).(string)
					return v, nil
				},
			},
		},
	})
	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"touch": &graphql.Field{
				Type:    graphql.Boolean,
				Resolve: func(graphql.ResolveParams) (interface{}, error) { return true, nil },
			},
		},
	})

	schema, err := gqlhttp.NewSchema(query, mutation)
	require.NoError(t, err)
	return schema
}

type response struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func do(t *testing.T, h http.Handler, req *http.Request) (int, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	return rec.Code, out
}

func TestPostJSON(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	body := `{"query":"query Q($n: String) { hello(name: $n) }","variables":{"n":"shop"}}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	code, out := do(t, h, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, out.Errors)
	assert.Equal(t, "hello shop", out.Data["hello"])
}

func TestPostPassesRequestContext(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ caller }"}`))
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "user-1"))

	_, out := do(t, h, req)
	assert.Equal(t, "user-1", out.Data["caller"])
}

func TestPostApplicationGraphQL(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{ hello }`))
	req.Header.Set("Content-Type", "application/graphql")

	code, out := do(t, h, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello world", out.Data["hello"])
}

func TestPostForm(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	form := url.Values{"query": {"query($n: String) { hello(name: $n) }"}, "variables": {`{"n":"form"}`}}
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	code, out := do(t, h, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello form", out.Data["hello"])
}

func TestPostUnsupportedContentType(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{ hello }`))
	req.Header.Set("Content-Type", "text/plain")

	code, out := do(t, h, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, out.Errors)
}

func TestGetQuery(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	q := url.Values{"query": {"query($n: String) { hello(name: $n) }"}, "variables": {`{"n":"get"}`}}
	code, out := do(t, h, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello get", out.Data["hello"])
}

func TestGetRejectsMutation(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	q := url.Values{"query": {"mutation { touch }"}}
	code, out := do(t, h, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	require.Len(t, out.Errors, 1)
}

func TestTransportErrors(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	cases := map[string]struct {
		req  *http.Request
		code int
	}{
		"bad json":     {httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{`)), http.StatusBadRequest},
		"no query":     {httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)), http.StatusBadRequest},
		"syntax error": {httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ hello "}`)), http.StatusBadRequest},
		"bad vars":     {httptest.NewRequest(http.MethodGet, "/graphql?query=%7Bhello%7D&variables=nope", nil), http.StatusBadRequest},
		"method":       {httptest.NewRequest(http.MethodPut, "/graphql", nil), http.StatusMethodNotAllowed},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			code, out := do(t, h, tc.req)
			assert.Equal(t, tc.code, code)
			assert.NotEmpty(t, out.Errors)
		})
	}
}

func TestValidationErrorsAre200(t *testing.T) {
	h := gqlhttp.Handler(testSchema(t))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`))
	code, out := do(t, h, req)
	assert.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0].Message, "nope")
}
