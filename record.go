package canopy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
)

// Record is a read-only view of one object in a decoded document. The zero
// Record is empty and every accessor returns its default.
//
// Keys containing a dot are treated as paths into nested objects
// ("position.x") and evaluated with JSONPath.
type Record struct {
	m map[string]any
}

// NewRecord wraps a decoded document object.
func NewRecord(m map[string]any) Record {
	return Record{m: m}
}

// Map returns the underlying object. It MUST NOT be mutated.
func (r Record) Map() map[string]any {
	return r.m
}

// IsZero reports whether the record wraps no object.
func (r Record) IsZero() bool {
	return r.m == nil
}

// Type returns the record's type tag.
func (r Record) Type() string {
	return r.String(KeyType, r.String(KeyTypeAlt, ""))
}

// File returns the record's source-file reference.
func (r Record) File() string {
	return r.String(KeyFile, r.String(KeyFileAlt, ""))
}

// Tag returns the record's identifying tag, or NoTag.
func (r Record) Tag() int {
	return r.Int(KeyTag, r.Int(KeyTagAlt, NoTag))
}

// Children returns the child records in document order.
func (r Record) Children() []Record {
	if r.Has(KeyChildren) {
		return r.Records(KeyChildren)
	}
	return r.Records(KeyChildrenAlt)
}

// Has reports whether key is present and not null.
func (r Record) Has(key string) bool {
	v, ok := r.Value(key)
	return ok && v != nil
}

// Value returns the raw value stored under key.
func (r Record) Value(key string) (any, bool) {
	if r.m == nil {
		return nil, false
	}
	if v, ok := r.m[key]; ok || !strings.Contains(key, ".") {
		return v, ok
	}
	x, err := compilePath(key)
	if err != nil {
		return nil, false
	}
	got := x.Get(r.m)
	if len(got) == 0 {
		return nil, false
	}
	return got[0], true
}

// String returns the string under key, or def when absent or not a string.
func (r Record) String(key, def string) string {
	v, ok := r.Value(key)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Float returns the number under key, or def when absent or not numeric.
// Numeric strings are accepted.
func (r Record) Float(key string, def float64) float64 {
	v, ok := r.Value(key)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Int returns the number under key truncated to an int, or def.
func (r Record) Int(key string, def int) int {
	v, ok := r.Value(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	}
	if f, ok := toFloat(v); ok {
		return floatToInt(f)
	}
	return def
}

// floatToInt truncates f, saturating at the int range. NaN is 0.
func floatToInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// Bool returns the boolean under key, or def. Numbers are true when non-zero.
func (r Record) Bool(key string, def bool) bool {
	v, ok := r.Value(key)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
		return def
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return def
}

// Record returns the object under key.
func (r Record) Record(key string) (Record, bool) {
	v, ok := r.Value(key)
	if !ok {
		return Record{}, false
	}
	m, ok := asObject(v)
	if !ok {
		return Record{}, false
	}
	return Record{m: m}, true
}

// Records returns the array under key as records. Entries that are not
// objects become zero Records so indexes line up with the document.
func (r Record) Records(key string) []Record {
	v, ok := r.Value(key)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, len(arr))
	for i, e := range arr {
		if m, ok := asObject(e); ok {
			out[i] = Record{m: m}
		}
	}
	return out
}

// Query evaluates a JSONPath selector against the record and returns every
// matching object.
func (r Record) Query(selector string) ([]Record, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("canopy: invalid selector %q: %w", selector, err)
	}
	var out []Record
	for _, v := range x.Get(r.m) {
		if m, ok := asObject(v); ok {
			out = append(out, Record{m: m})
		}
	}
	return out, nil
}

// --- Helpers ---

// compiledPaths caches parsed dotted keys; the same few keys are looked up
// for every record of a document.
var compiledPaths sync.Map

func compilePath(key string) (jp.Expr, error) {
	if x, ok := compiledPaths.Load(key); ok {
		return x.(jp.Expr), nil
	}
	x, err := jp.ParseString("$." + key)
	if err != nil {
		return nil, err
	}
	compiledPaths.Store(key, x)
	return x, nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m.m, m.m != nil
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
