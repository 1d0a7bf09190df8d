package table

import (
	"sort"
	"strconv"
	"strings"
)

// Cell is one typed value of a row. The set of implementations is closed:
// Text, Number, Bool, List and Record.
type Cell interface {
	// Value returns the plain Go value used for JSON and spreadsheet output.
	Value() any
	cell()
}

type (
	Text   string
	Number float64
	Bool   bool
	List   []Cell
	Record map[string]Cell
)

func (Text) cell()   {}
func (Number) cell() {}
func (Bool) cell()   {}
func (List) cell()   {}
func (Record) cell() {}

func (t Text) Value() any   { return string(t) }
func (n Number) Value() any { return float64(n) }
func (b Bool) Value() any   { return bool(b) }

func (l List) Value() any {
	out := make([]any, 0, len(l))
	for _, c := range l {
		if c != nil {
			out = append(out, c.Value())
		}
	}
	return out
}

func (r Record) Value() any {
	out := make(map[string]any, len(r))
	for k, c := range r {
		if c != nil {
			out[k] = c.Value()
		}
	}
	return out
}

// Lookup resolves a dotted key ("category.name") through nested records.
// It returns nil when any segment is missing.
func (r Record) Lookup(key string) Cell {
	var cur Cell = r
	for _, part := range strings.Split(key, ".") {
		rec, ok := cur.(Record)
		if !ok {
			return nil
		}
		cur = rec[part]
		if cur == nil {
			return nil
		}
	}
	return cur
}

// contains reports whether any scalar reachable from c, rendered as text,
// contains term. term must already be lower-cased.
func contains(c Cell, term string) bool {
	switch v := c.(type) {
	case nil:
		return false
	case Text:
		return strings.Contains(strings.ToLower(string(v)), term)
	case Number:
		return strings.Contains(formatNumber(float64(v)), term)
	case Bool:
		return strings.Contains(strconv.FormatBool(bool(v)), term)
	case List:
		for _, item := range v {
			if contains(item, term) {
				return true
			}
		}
	case Record:
		for _, item := range v {
			if contains(item, term) {
				return true
			}
		}
	}
	return false
}

// plain flattens a cell into a single spreadsheet value.
func plain(c Cell) any {
	switch v := c.(type) {
	case nil:
		return ""
	case Text:
		return string(v)
	case Number:
		return float64(v)
	case Bool:
		return bool(v)
	case List:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, toString(item))
		}
		return strings.Join(parts, ", ")
	case Record:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+toString(v[k]))
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func toString(c Cell) string {
	switch v := plain(c).(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
