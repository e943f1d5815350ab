package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Endpoint is where scenarios are posted.
var Endpoint = "/graphql"

// Env is what a scenario runs against. Vars are visible to every step as if
// an earlier step had captured them, which lets a test hand in tokens it
// minted out of band.
type Env struct {
	Handler http.Handler
	Vars    map[string]interface{}
}

// Run executes a single scenario file.
func Run(t *testing.T, env Env, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	require.NoError(t, err)

	t.Run(s.Name, func(t *testing.T) { RunScenario(t, env, s) })
}

// RunDir runs every scenario in dir as a subtest. setup is called once per
// scenario so each one starts from a clean store.
func RunDir(t *testing.T, setup func(t *testing.T) Env, dir string) {
	t.Helper()

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, scenarios, "testkit: no scenario files found in %q", dir)

	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) { RunScenario(t, setup(t), s) })
	}
}

// RunScenario executes the steps of s in order, sharing captured values.
// It stops at the first failing step.
func RunScenario(t *testing.T, env Env, s *Scenario) {
	t.Helper()
	require.NoError(t, s.validate())

	vars := make(map[string]interface{}, len(env.Vars))
	for k, v := range env.Vars {
		vars[k] = v
	}
	for _, st := range s.Steps {
		if !runStep(t, env.Handler, st, vars) {
			return
		}
	}
}

type errorEntry struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

func runStep(t *testing.T, handler http.Handler, st Step, vars map[string]interface{}) bool {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"query":     st.Query,
		"variables": interpolate(st.Variables, vars),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Endpoint, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range st.Headers {
		req.Header.Set(k, v)
	}
	if st.Auth != "" {
		token, ok := vars[st.Auth].(string)
		require.True(t, ok, "[%s] no captured string %q", st.Name, st.Auth)
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !assert.Equal(t, st.ExpectedCode, rec.Code, "[%s] status\nbody: %s", st.Name, rec.Body.String()) {
		return false
	}

	var actual map[string]interface{}
	if !assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actual), "[%s] body is not JSON: %s", st.Name, rec.Body.String()) {
		return false
	}

	ok := assert.Equal(t, expectedCodes(st.ExpectedErrors), errorCodes(actual), "[%s] error codes\nbody: %s", st.Name, rec.Body.String())
	if st.Expected != nil {
		for _, d := range Subset("", st.Expected, actual) {
			ok = false
			t.Errorf("[%s] %s", st.Name, d)
		}
	}

	for name, path := range st.Capture {
		v, found := Lookup(actual, path)
		if !assert.True(t, found, "[%s] capture %q: nothing at %q", st.Name, name, path) {
			return false
		}
		vars[name] = v
	}
	return ok
}

func expectedCodes(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}

func errorCodes(body map[string]interface{}) []string {
	raw, _ := json.Marshal(body["errors"])
	var errs []errorEntry
	_ = json.Unmarshal(raw, &errs)

	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		code, _ := e.Extensions["code"].(string)
		codes = append(codes, code)
	}
	return codes
}

// interpolate replaces string values of the form "{{name}}" with captured
// values.
func interpolate(in map[string]interface{}, vars map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = interpolateValue(v, vars)
	}
	return out
}

func interpolateValue(v interface{}, vars map[string]interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if strings.HasPrefix(val, "{{") && strings.HasSuffix(val, "}}") {
			if got, ok := vars[strings.TrimSpace(val[2:len(val)-2])]; ok {
				return got
			}
		}
		return val
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = interpolateValue(item, vars)
		}
		return out
	case map[string]interface{}:
		return interpolate(val, vars)
	}
	return v
}
