// Package testkit drives GraphQL-over-HTTP tests from JSON scenario files.
//
// A scenario is an ordered list of steps. Each step posts one GraphQL
// document, may authenticate with a value captured by an earlier step, and
// asserts the HTTP status, the error codes and a subset of the body:
//
//	{
//	  "name": "signup then login",
//	  "steps": [
//	    {"query": "mutation { signUp(email: \"a@x.com\", password: \"pw\") }",
//	     "capture": {"token": "data.signUp"}},
//	    {"query": "{ orderHistory { id } }", "auth": "token",
//	     "expected": {"data": {"orderHistory": []}}}
//	  ]
//	}
//
// Scenario files usually live in a testdata/ directory next to the test:
//
//	testkit.RunDir(t, setup, "testdata/scenarios")
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario is one end-to-end conversation with the API.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Step is a single GraphQL request and its expectations.
type Step struct {
	Name      string                 `json:"name"`
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
	Headers   map[string]string      `json:"headers"`

	// Auth names a captured value sent as the raw Authorization header.
	Auth string `json:"auth"`

	// ExpectedCode defaults to 200.
	ExpectedCode int `json:"expectedCode"`

	// ExpectedErrors lists extensions.code values in order. Empty means the
	// response must carry no errors.
	ExpectedErrors []string `json:"expectedErrors"`

	// Expected is matched as a subset of the response body.
	Expected map[string]interface{} `json:"expected"`

	// Capture stores values from the response under a name, addressed by a
	// dotted path such as "data.addProduct.id".
	Capture map[string]string `json:"capture"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", path, err)
	}
	return &s, nil
}

// LoadDir loads every *.json file in dir.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Query == "" {
			return fmt.Errorf("steps[%d].query is required", i)
		}
		if st.Name == "" {
			st.Name = fmt.Sprintf("step %d", i+1)
		}
		if st.ExpectedCode == 0 {
			st.ExpectedCode = 200
		}
	}
	return nil
}
