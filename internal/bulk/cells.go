package bulk

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one decoded spreadsheet row. Number is the spreadsheet row number used
// in error messages; Values maps column header to raw cell value (string,
// number, bool or nil).
type Row struct {
	Number int            `json:"row"`
	Values map[string]any `json:"values"`
}

// Get returns the raw value of column.
func (r Row) Get(column string) any {
	return r.Values[column]
}

// Empty reports whether every cell of the row is blank.
func (r Row) Empty() bool {
	for _, v := range r.Values {
		if !IsBlank(v) {
			return false
		}
	}
	return true
}

// IsBlank reports whether v is nil or a string of only whitespace.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case json.Number:
		return strings.TrimSpace(string(t)) == ""
	}
	return false
}

var (
	trueWords  = map[string]bool{"true": true, "yes": true, "y": true, "1": true, "on": true}
	falseWords = map[string]bool{"false": true, "no": true, "n": true, "0": true, "off": true}
)

// ParseBool reads a yes/no cell. Numbers are true when non-zero. Blank or
// unrecognized text yields def.
func ParseBool(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return def
	}
	if f, ok := numeric(v); ok {
		return f != 0
	}

	s := strings.ToLower(strings.TrimSpace(Text(v)))
	switch {
	case trueWords[s]:
		return true
	case falseWords[s]:
		return false
	}
	return def
}

// ParseNumber reads a numeric cell. Blank, unparseable or non-finite values
// yield nil.
func ParseNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		if t {
			f = 1
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		n, ok := numeric(v)
		if !ok {
			return nil
		}
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseID reads an entity id cell: a positive whole number.
func ParseID(v any) (int64, bool) {
	f := ParseNumber(v)
	if f == nil || *f <= 0 || *f != math.Trunc(*f) || *f >= math.MaxInt64 {
		return 0, false
	}
	return int64(*f), true
}

// ParseInt reads a whole-number cell, truncating fractions, falling back to def.
func ParseInt(v any, def int) int {
	f := ParseNumber(v)
	if f == nil {
		return def
	}
	return int(math.Trunc(*f))
}

// Text renders a cell as trimmed text.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return strings.TrimSpace(t.String())
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// OptionalText is Text, with nil for blank cells.
func OptionalText(v any) *string {
	s := Text(v)
	if s == "" {
		return nil
	}
	return &s
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}
