package match

import "strings"

// resolvePath walks a dotted key-path through nested objects and returns
// the string value at the end, if any. A path segment may itself contain
// spaces ("Student Name" is a single literal key).
func resolvePath(raw map[string]any, path string) (string, bool) {
	cur := any(raw)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = obj[seg]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// resolveFirst tries each key-path in priority order and returns the
// first that resolves for this record.
func resolveFirst(raw map[string]any, paths []string) (string, bool) {
	for _, p := range paths {
		if v, ok := resolvePath(raw, p); ok {
			return v, true
		}
	}
	return "", false
}
