package testkit_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopql/pkg/testkit"
)

// echoAPI hands out a token on any query mentioning "token" and otherwise
// reports the Authorization header and variables it saw.
func echoAPI(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		if body.Query == "token" {
			_, _ = w.Write([]byte(`{"data":{"token":"tok-1"}}`))
			return
		}
		if r.Header.Get("Authorization") == "" {
			_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"Unauthorized","extensions":{"code":"UNAUTHORIZED"}}]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"auth": r.Header.Get("Authorization"),
				"vars": body.Variables,
			},
		})
	})
}

func TestRunScenarioCapturesAndInterpolates(t *testing.T) {
	s := &testkit.Scenario{
		Name: "capture",
		Steps: []testkit.Step{
			{Name: "anon", Query: "whoami", ExpectedCode: 200, ExpectedErrors: []string{"UNAUTHORIZED"}},
			{Name: "mint", Query: "token", ExpectedCode: 200, Capture: map[string]string{"tok": "data.token"}},
			{
				Name:         "use",
				Query:        "whoami",
				Auth:         "tok",
				Variables:    map[string]interface{}{"ids": []interface{}{"{{tok}}", "{{preset}}"}},
				ExpectedCode: 200,
				Expected: map[string]interface{}{
					"data": map[string]interface{}{
						"auth": "tok-1",
						"vars": map[string]interface{}{"ids": []interface{}{"tok-1", "p"}},
					},
				},
			},
		},
	}

	testkit.RunScenario(t, testkit.Env{Handler: echoAPI(t), Vars: map[string]interface{}{"preset": "p"}}, s)
	assert.False(t, t.Failed())
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "flow.json", `{
		"name": "flow",
		"steps": [
			{"query": "token", "capture": {"tok": "data.token"}},
			{"query": "whoami", "auth": "tok", "expected": {"data": {"auth": "tok-1"}}}
		]
	}`)

	calls := 0
	testkit.RunDir(t, func(t *testing.T) testkit.Env {
		calls++
		return testkit.Env{Handler: echoAPI(t)}
	}, dir)
	assert.Equal(t, 1, calls)
}
