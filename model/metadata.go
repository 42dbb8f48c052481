package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/siherrmann/worldgraph/helper"
)

// Metadata is an untyped JSON object, used for artifact payloads stored as JSONB.
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal converts Metadata to JSON bytes. Nil marshals to an empty object.
func (m Metadata) Marshal() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes, a JSON string or Metadata to Metadata
func (m *Metadata) Unmarshal(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case Metadata:
		*m = v
		return nil
	case map[string]interface{}:
		*m = Metadata(v)
		return nil
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	}
	return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
}

// String returns the value at key as a string. Numbers and booleans are
// formatted, anything else yields "".
func (m Metadata) String(key string) string {
	return coerceString(m[key])
}

// List returns the value at key as a slice. Non-slices yield nil.
func (m Metadata) List(key string) []interface{} {
	return coerceList(m[key])
}

func coerceString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

func coerceList(v interface{}) []interface{} {
	switch l := v.(type) {
	case []interface{}:
		return l
	case []string:
		out := make([]interface{}, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(l))
		for i, item := range l {
			out[i] = item
		}
		return out
	}
	return nil
}

func coerceMap(v interface{}) map[string]interface{} {
	switch mv := v.(type) {
	case map[string]interface{}:
		return mv
	case Metadata:
		return mv
	}
	return nil
}

// coerceStrings keeps the non-blank string items of a list.
func coerceStrings(v interface{}) []string {
	var out []string
	for _, item := range coerceList(v) {
		if s := strings.TrimSpace(coerceString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
