package dispatch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Arguments are the decoded JSON arguments of a tool call.
type Arguments map[string]any

// String returns the trimmed string value of key.
func (a Arguments) String(key string) (string, bool) {
	s, ok := a[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Int accepts whole JSON numbers and numeric strings, since models emit both.
func (a Arguments) Int(key string) (int64, bool) {
	switch v := a[key].(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(v, "#")), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Object returns a nested object, also accepting one encoded as a JSON string.
func (a Arguments) Object(key string) (map[string]any, bool) {
	switch v := a[key].(type) {
	case map[string]any:
		return v, true
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil || m == nil {
			return nil, false
		}
		return m, true
	default:
		return nil, false
	}
}
