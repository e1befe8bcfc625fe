package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Loose holds a JSON value whose type the server does not guarantee.
// It never fails to decode; accessors coerce it the way a lenient client would.
type Loose struct {
	raw json.RawMessage
}

func LooseOf(v interface{}) Loose {
	b, _ := json.Marshal(v)
	return Loose{raw: b}
}

func (l *Loose) UnmarshalJSON(b []byte) error {
	l.raw = append(l.raw[:0], b...)
	return nil
}

func (l Loose) MarshalJSON() ([]byte, error) {
	if len(l.raw) == 0 {
		return []byte("null"), nil
	}
	return l.raw, nil
}

func (l Loose) trimmed() []byte {
	return bytes.TrimSpace(l.raw)
}

// String returns strings as is, numbers and booleans as their literal and anything else as "".
func (l Loose) String() string {
	b := l.trimmed()
	if len(b) == 0 {
		return ""
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default: // number, true, false
		return string(b)
	}
}

// Truthy reports whether the value is neither absent, null, false, 0 nor "".
func (l Loose) Truthy() bool {
	b := l.trimmed()
	if len(b) == 0 {
		return false
	}
	switch b[0] {
	case 'n', 'f':
		return false
	case '"':
		return l.String() != ""
	case '{', '[', 't':
		return true
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		return err == nil && f != 0
	}
}

// Or returns String() when the value is truthy, fallback otherwise.
func (l Loose) Or(fallback string) string {
	if l.Truthy() {
		return l.String()
	}
	return fallback
}

// Int returns the value as an integer; non numeric values are 0.
func (l Loose) Int() int {
	s := strings.TrimSpace(l.String())
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// Len returns the number of elements of an array or the length of a string; 0 otherwise.
func (l Loose) Len() int {
	b := l.trimmed()
	if len(b) == 0 {
		return 0
	}
	switch b[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(b, &elems); err != nil {
			return 0
		}
		return len(elems)
	case '"':
		return len([]rune(l.String()))
	default:
		return 0
	}
}

// Time parses RFC3339 strings, falling back to `now` when the value is absent or unparsable.
func (l Loose) Time(now time.Time) time.Time {
	if t, err := time.Parse(time.RFC3339, l.String()); err == nil {
		return t
	}
	return now
}
