package graphql

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/handler"

	"github.com/shashiranjanraj/shopql/pkg/logger"
)

// MaxBodyBytes caps POST bodies.
const MaxBodyBytes = 1 << 20

// Handler executes requests against schema.
//
//	POST /graphql  {"query": "...", "variables": {...}}
//	GET  /graphql?query=...&variables=...
//
// Decoding and execution are done by graphql-go/handler. In front of it this
// layer answers 400 for transport problems (bad JSON, missing query, syntax
// errors), 405 for other methods and refuses mutations over GET.
// Everything that reaches execution answers 200, with field errors in the
// "errors" array.
func Handler(schema graphql.Schema) http.Handler {
	// GraphiQL and pretty printing stay off; responses are compact JSON.
	exec := handler.New(&handler.Config{Schema: &schema})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodPost:
		default:
			w.Header().Set("Allow", "GET, POST")
			writeErrors(w, http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests.")
			return
		}

		body, err := readBody(w, r)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg := checkEncoding(r, body); msg != "" {
			writeErrors(w, http.StatusBadRequest, msg)
			return
		}

		// NewRequestOptions consumes the body, so it reads a copy and the
		// executor gets a fresh one.
		r.Body = io.NopCloser(bytes.NewReader(body))
		opts := handler.NewRequestOptions(r)
		r.Body = io.NopCloser(bytes.NewReader(body))

		if strings.TrimSpace(opts.Query) == "" {
			writeErrors(w, http.StatusBadRequest, "Must provide query string.")
			return
		}

		doc, err := parser.Parse(parser.ParseParams{Source: opts.Query})
		if err != nil {
			writeJSON(w, http.StatusBadRequest, &graphql.Result{Errors: gqlerrors.FormatErrors(err)})
			return
		}

		if r.Method == http.MethodGet && operationKind(doc, opts.OperationName) == ast.OperationTypeMutation {
			w.Header().Set("Allow", "POST")
			writeErrors(w, http.StatusMethodNotAllowed, "Can only perform a mutation operation from a POST request.")
			return
		}

		exec.ContextHandler(r.Context(), w, r)
	})
}

type httpError string

func (e httpError) Error() string { return string(e) }

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Method != http.MethodPost || r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, httpError("Could not read request body.")
	}
	return body, nil
}

// checkEncoding rejects payloads graphql-go/handler would silently treat as
// empty: malformed JSON bodies, unknown content types and malformed
// variables.
func checkEncoding(r *http.Request, body []byte) string {
	if raw := r.URL.Query().Get("variables"); raw != "" && !json.Valid([]byte(raw)) {
		return "Variables are invalid JSON."
	}
	if r.Method != http.MethodPost || r.URL.Query().Get("query") != "" {
		return ""
	}

	mediaType := handler.ContentTypeJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return "Invalid Content-Type header."
		}
		mediaType = mt
	}

	switch mediaType {
	case handler.ContentTypeGraphQL, handler.ContentTypeFormURLEncoded:
		return ""
	case handler.ContentTypeJSON:
		if !json.Valid(body) {
			return "POST body sent invalid JSON."
		}
		return ""
	default:
		return "Unsupported Content-Type."
	}
}

// operationKind returns the type of the operation that will run, or "" when
// it cannot be determined.
func operationKind(doc *ast.Document, name string) string {
	var found *ast.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if name == "" || (op.Name != nil && op.Name.Value == name) {
			if found != nil && name == "" {
				return ""
			}
			found = op
		}
	}
	if found == nil {
		return ""
	}
	return found.Operation
}

func writeErrors(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &graphql.Result{
		Errors: []gqlerrors.FormattedError{{Message: msg}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("graphql: write response", "error", err)
	}
}
