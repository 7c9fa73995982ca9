package common

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindNumber
	KindString
	KindBool
	KindDate
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "composite"
	}
}

// Value is one loosely-typed field of a client payload.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	t    time.Time
	raw  any
}

// Fields is a decoded JSON object keyed by field name. Missing keys read as absent.
type Fields map[string]Value

// Unix millisecond bounds of years 1 through 9999.
const (
	minUnixMilli = -62135596800000
	maxUnixMilli = 253402300799999
)

// CastError reports a value that cannot become the requested type.
type CastError struct {
	From Kind
	To   string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %s to %s", e.From, e.To)
}

// dateLayouts are tried in order when a string has to become a date.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ValueOf wraps a value produced by encoding/json (ideally with UseNumber).
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{kind: KindNull}
	case Value:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{kind: KindString, str: x.String(), raw: v}
		}
		return Value{kind: KindNumber, num: f, str: x.String(), raw: v}
	case float64:
		return Value{kind: KindNumber, num: x, raw: v}
	case float32:
		return Value{kind: KindNumber, num: float64(x), raw: v}
	case int:
		return Value{kind: KindNumber, num: float64(x), raw: v}
	case int64:
		return Value{kind: KindNumber, num: float64(x), raw: v}
	case int32:
		return Value{kind: KindNumber, num: float64(x), raw: v}
	case string:
		return Value{kind: KindString, str: x, raw: v}
	case bool:
		return Value{kind: KindBool, b: x, raw: v}
	case time.Time:
		return Value{kind: KindDate, t: x, raw: v}
	default:
		return Value{kind: KindComposite, raw: v}
	}
}

// FieldsOf converts a decoded JSON object.
func FieldsOf(m map[string]any) Fields {
	f := make(Fields, len(m))
	for k, v := range m {
		f[k] = ValueOf(v)
	}
	return f
}

func (f Fields) Get(key string) Value {
	if v, ok := f[key]; ok {
		return v
	}
	return Value{}
}

// Has reports whether key was sent at all, including as null.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Without returns a copy of f minus keys.
func (f Fields) Without(keys ...string) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Raw returns the map as it was decoded, for echoing back to clients.
func (f Fields) Raw() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v.Raw()
	}
	return out
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Raw() any { return v.raw }

// IsBlank is true for absent, null and whitespace-only strings.
func (v Value) IsBlank() bool {
	switch v.kind {
	case KindAbsent, KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	}
	return false
}

// Number converts to a finite float. Numeric strings are trimmed first,
// booleans count as 1 and 0.
func (v Value) Number() (float64, bool) {
	var f float64
	switch v.kind {
	case KindNumber:
		f = v.num
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Count coerces to a non-negative integer, 0 when not numeric.
func (v Value) Count() int {
	f, ok := v.Number()
	if !ok || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(f))
}

// Metric coerces to a non-negative float, 0 when not numeric.
func (v Value) Metric() float64 {
	f, ok := v.Number()
	if !ok || f < 0 {
		return 0
	}
	return f
}

// Int parses a whole number. ok is false for blank values; err is set when the
// value is present but cannot become an integer.
func (v Value) Int() (n int, ok bool, err error) {
	if v.IsBlank() {
		return 0, false, nil
	}
	f, numeric := v.Number()
	if !numeric || v.kind == KindBool {
		return 0, false, fmt.Errorf("cannot cast %s %v to integer", v.kind, v.raw)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false, fmt.Errorf("integer %v out of range", v.raw)
	}
	return int(math.Trunc(f)), true, nil
}

// Text converts scalars to a string. Objects and arrays are rejected.
func (v Value) Text() (string, error) {
	switch v.kind {
	case KindAbsent, KindNull:
		return "", nil
	case KindString:
		return strings.TrimSpace(v.str), nil
	case KindNumber:
		if v.str != "" {
			return v.str, nil
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	case KindDate:
		return v.t.UTC().Format(time.RFC3339), nil
	default:
		return "", &CastError{From: v.kind, To: "string"}
	}
}

// Time converts to a UTC timestamp. Numbers are Unix epoch milliseconds.
// Anything outside years 1 through 9999 is not a date.
func (v Value) Time() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		t := v.t.UTC()
		if v.t.IsZero() || t.Year() < 1 || t.Year() > 9999 {
			return time.Time{}, false
		}
		return t, true
	case KindNumber:
		if math.IsNaN(v.num) || v.num < minUnixMilli || v.num > maxUnixMilli {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v.num)).UTC(), true
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				t = t.UTC()
				return t, t.Year() >= 1 && t.Year() <= 9999
			}
		}
	}
	return time.Time{}, false
}
