package engine

import (
	"encoding/json"
	"strings"
)

// stripCodeFences removes markdown code-fence wrappers that generation
// backends sometimes add around JSON output.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeOrFallback parses raw as JSON into T after stripping code
// fences. When the payload does not conform, the value from fallback is
// returned instead and ok is false. This is the single defensive-decode
// path for all structured generation output.
func decodeOrFallback[T any](raw string, fallback func() T) (v T, ok bool) {
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &v); err != nil {
		return fallback(), false
	}
	return v, true
}
