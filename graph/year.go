package graph

import (
	"strconv"
	"strings"
)

var yearKeys = []string{"year", "start", "birth"}

// Year extracts a year from a node's data slot. Scalars are used directly;
// records are searched for one of the keys "year", "start", or "birth".
func Year(data interface{}) (float64, bool) {
	switch v := data.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return parseYear(v)
	case map[string]interface{}:
		for _, key := range yearKeys {
			if val, ok := v[key]; ok {
				return Year(val)
			}
		}
	case map[interface{}]interface{}:
		// yaml.v2 decodes nested records with interface keys
		for _, key := range yearKeys {
			if val, ok := v[key]; ok {
				return Year(val)
			}
		}
	}

	return 0, false
}

// parseYear accepts plain numbers and xsd:gYear style strings with an
// optional sign, e.g. "-0350" or "1879".
func parseYear(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
