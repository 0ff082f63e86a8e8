package normalize

import (
	"encoding/json"
	"strings"
	"unicode"
)

// NormalizeKey maps "Start time", "startTime" and "start-time" to "start_time".
func NormalizeKey(key string) string {
	k := strings.TrimSpace(key)
	var b strings.Builder
	runes := []rune(k)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// normalizeValue rewrites map keys recursively and decodes JSON-encoded strings.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			nk := NormalizeKey(k)
			if _, exists := out[nk]; exists && isEmpty(val) {
				continue
			}
			out[nk] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	case string:
		if decoded, ok := decodeJSONString(t); ok {
			return normalizeValue(decoded)
		}
		return t
	default:
		return v
	}
}

// decodeJSONString parses values that look like embedded JSON; a parse
// failure keeps the raw string.
func decodeJSONString(s string) (any, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return nil, false
	}
	return decoded, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
