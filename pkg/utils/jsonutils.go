package utils

import (
	"encoding/json"
	"fmt"
)

// ParseJSON unmarshals a JSON document into a generic map.
func ParseJSON(data string) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return result, nil
}

// GetFirstMapValue returns an arbitrary value from a non-empty map.
// Pricing API documents key their single offer by an opaque SKU, so
// "the first entry" is the one we want.
func GetFirstMapValue(m map[string]interface{}) (interface{}, error) {
	for _, v := range m {
		return v, nil
	}
	return nil, fmt.Errorf("map is empty")
}

// SafeDeref dereferences a string pointer, returning "" when nil.
func SafeDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
