package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStringOrArray parses a parameter that can be either a single string or an array of strings.
// A string holding a JSON array (some MCP clients serialize arrays that way) is decoded as an array.
// The result is never empty and contains no empty entries.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		if items, ok := decodeJSONArray(v); ok {
			return ParseStringOrArray(items, paramName)
		}
		return []string{v}, nil
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return ParseStringOrArray(items, paramName)
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// ParseStringArray parses an array of strings that may legitimately be empty,
// such as the user IDs to assign. A missing parameter yields an empty slice.
// The result is never nil so that it encodes as [] rather than null.
func ParseStringArray(param interface{}, paramName string) ([]string, error) {
	switch v := param.(type) {
	case nil:
		return []string{}, nil
	case string:
		items, ok := decodeJSONArray(v)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", paramName)
		}
		return ParseStringArray(items, paramName)
	case []string:
		return append([]string{}, v...), nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", paramName)
	}
}

// decodeJSONArray reports whether s is a JSON array and returns its items.
func decodeJSONArray(s string) ([]interface{}, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, false
	}
	var items []interface{}
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, false
	}
	return items, true
}
