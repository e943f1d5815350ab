package testkit

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Subset reports every place where expected is not contained in actual.
// Objects match when each expected key matches; arrays must have the same
// length and match element by element; the string "*" matches any present
// value.
func Subset(path string, expected, actual interface{}) []string {
	if s, ok := expected.(string); ok && s == "*" {
		if actual == nil {
			return []string{fmt.Sprintf("%s: expected a value, got null", keyPath(path))}
		}
		return nil
	}

	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: expected object, got %T", keyPath(path), actual)}
		}
		var diffs []string
		for k, ev := range exp {
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("%s.%s: missing", keyPath(path), k))
				continue
			}
			diffs = append(diffs, Subset(keyPath(path)+"."+k, ev, av)...)
		}
		return diffs

	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: expected array, got %T", keyPath(path), actual)}
		}
		if len(exp) != len(act) {
			return []string{fmt.Sprintf("%s: expected %d items, got %d", keyPath(path), len(exp), len(act))}
		}
		var diffs []string
		for i := range exp {
			diffs = append(diffs, Subset(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
		return diffs
	}

	if !reflect.DeepEqual(expected, actual) {
		return []string{fmt.Sprintf("%s: expected %v, got %v", keyPath(path), expected, actual)}
	}
	return nil
}

// Lookup walks a dotted path ("data.items.0.id") through decoded JSON.
func Lookup(v interface{}, path string) (interface{}, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func keyPath(p string) string {
	if p == "" {
		return "$"
	}
	return p
}
