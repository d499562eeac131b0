package parser

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Record is an ordered mapping from field name to nullable value. Field order
// follows the source column/element order, which encoding into a plain Go map
// would lose, so the record carries its own key sequence.
type Record struct {
	keys   []string
	values map[string]*string
}

func NewRecord() *Record {
	return &Record{values: make(map[string]*string)}
}

// Set stores a value under key, appending the key on first insertion.
// A nil value is a legitimate null field, not an absent one.
func (r *Record) Set(key string, value *string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// SetString is Set for known non-null values.
func (r *Record) SetString(key, value string) {
	r.Set(key, &value)
}

func (r *Record) Get(key string) (*string, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Keys() []string {
	return r.keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON emits the record as a JSON object preserving insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		if r.values[key] == nil {
			buf.WriteString("null")
		} else {
			valueJSON, err := json.Marshal(*r.values[key])
			if err != nil {
				return nil, err
			}
			buf.Write(valueJSON)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Result is the normalized output of every format parser.
// Invariant: TotalCount == len(Records).
type Result struct {
	Records    []*Record         `json:"data"`
	Headers    []string          `json:"headers"`
	TotalCount int               `json:"total_records"`
	SourceMeta map[string]string `json:"source_meta,omitempty"`
}

// ParseError reports malformed input for a given format.
type ParseError struct {
	Format string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Reason)
}
