// Package shellid derives a deterministic content-addressed identity
// (the "Shell ID") for any structured record. Two records that are
// semantically the same under the normalization rules always hash to
// the same digest, regardless of key order, string casing or padding,
// or which empty fields happen to be present.
package shellid

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Fingerprint normalizes v and returns the SHA-256 hex digest of its
// canonical JSON serialization. It is a pure function: unsupported
// input types are a caller contract violation, not a runtime failure.
func Fingerprint(v any) string {
	sum := sha256.Sum256(Canonical(v))
	return hex.EncodeToString(sum[:])
}

// Canonical returns the normalized canonical JSON serialization of v,
// the exact bytes Fingerprint hashes.
func Canonical(v any) []byte {
	return marshalCanonical(normalize(roundTrip(v)))
}

// roundTrip reduces structs, maps and slices alike to the generic
// any/map[string]any/[]any shape so they normalize identically.
func roundTrip(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		// Caller contract violation; hash the error text so the
		// function stays total.
		return err.Error()
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return string(b)
	}
	return out
}

// normalize applies the canonicalization rules recursively:
// strings are lowercased and trimmed; null and empty-string entries are
// dropped from arrays and objects; keys whose normalized value is an
// empty object or array are dropped as well. Other scalars pass through.
func normalize(v any) any {
	switch t := v.(type) {
	case string:
		return lowerTrim(t)
	case []any:
		out := make([]any, 0, len(t))
		for _, el := range t {
			if el == nil || el == "" {
				continue
			}
			out = append(out, normalize(el))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if val == nil || val == "" {
				continue
			}
			n := normalize(val)
			switch nt := n.(type) {
			case map[string]any:
				if len(nt) > 0 {
					out[k] = nt
				}
			case []any:
				if len(nt) > 0 {
					out[k] = nt
				}
			default:
				out[k] = n
			}
		}
		return out
	default:
		return v
	}
}

// marshalCanonical serializes with no extraneous whitespace and no HTML
// escaping. encoding/json writes map keys in sorted order at every
// nesting level, which gives the lexicographic key ordering the digest
// depends on.
func marshalCanonical(v any) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return []byte("null")
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
