// Package codec converts structured column values to and from their JSON text form.
package codec

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
)

// EncodeList serializes values as a JSON array. Empty input encodes to "[]".
func EncodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	return marshal(values)
}

// EncodeOptionalList is EncodeList for nullable columns: empty input encodes to NULL.
func EncodeOptionalList(values []string) sql.NullString {
	if len(values) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: marshal(values), Valid: true}
}

// DecodeList never fails: empty or malformed text yields an empty list.
func DecodeList(text string) []string {
	values := []string{}
	if strings.TrimSpace(text) == "" {
		return values
	}
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		slog.Default().Warn("discarding malformed list column", "error", err)
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

func EncodeMap(values map[string]string) string {
	if len(values) == 0 {
		return "{}"
	}
	return marshal(values)
}

// DecodeMap never fails: empty, malformed or non-object text yields an empty map.
func DecodeMap(text string) map[string]string {
	values := map[string]string{}
	if strings.TrimSpace(text) == "" {
		return values
	}
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		slog.Default().Warn("discarding malformed map column", "error", err)
		return map[string]string{}
	}
	if values == nil {
		return map[string]string{}
	}
	return values
}

// Unicode and HTML-significant characters are written as-is.
func marshal(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// []string and map[string]string always encode
		panic(err)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
