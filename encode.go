package lossy

import (
	json "github.com/goccy/go-json"
)

// Marshal encodes v as JSON. Wrappers encode their payload; absent
// optionals encode as null and empty sequences as [].
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// MarshalIndent is Marshal with indentation.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}
