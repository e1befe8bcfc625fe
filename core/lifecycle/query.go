package lifecycle

import (
	"fmt"
	"strconv"
	"strings"
)

// Schema names the parameters a Controller manages.
type Schema struct {
	Search   string   // free-text field; changes to it are debounced. Empty when the resource has none.
	Filters  []string // fields whose change resets the page
	Page     string   // page number field; empty when the resource is not paginated
	PageSize string   // page size field; its value is fixed per Controller
	Limit    int      // page size, 0 for "server default"
}

func (s Schema) isSearch(name string) bool {
	return s.Search != "" && name == s.Search
}

// resetsPage reports whether setting `name` moves the page back to 1.
func (s Schema) resetsPage(name string) bool {
	if s.Page == "" || name == s.Page {
		return false
	}
	if s.isSearch(name) {
		return true
	}
	for _, f := range s.Filters {
		if f == name {
			return true
		}
	}
	return false
}

// Query is the current request intent. It is immutable: SetParameter produces a new Query.
type Query struct {
	schema Schema
	values map[string]interface{}
}

func newQuery(schema Schema, params map[string]interface{}) Query {
	q := Query{schema: schema, values: make(map[string]interface{}, len(params)+2)}
	if schema.Search != "" {
		q.values[schema.Search] = ""
	}
	for _, f := range schema.Filters {
		q.values[f] = ""
	}
	if schema.Page != "" {
		q.values[schema.Page] = 1
	}
	for k, v := range params {
		q.values[k] = v
	}
	if schema.PageSize != "" {
		q.values[schema.PageSize] = schema.Limit
	}
	return q
}

// with returns a copy of q where `name` is set to `value`.
func (q Query) with(name string, value interface{}) Query {
	values := make(map[string]interface{}, len(q.values)+1)
	for k, v := range q.values {
		values[k] = v
	}
	values[name] = value
	if q.schema.resetsPage(name) {
		values[q.schema.Page] = 1
	}
	return Query{schema: q.schema, values: values}
}

func (q Query) Schema() Schema {
	return q.schema
}

// Value returns the raw value of `name`, nil if unset.
func (q Query) Value(name string) interface{} {
	return q.values[name]
}

// String returns the value of `name` formatted as a string, "" if unset.
func (q Query) String(name string) string {
	switch v := q.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value of `name` as an int, `def` when unset or not a number.
func (q Query) Int(name string, def int) int {
	switch v := q.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Page returns the current page number (1 when the resource is not paginated).
func (q Query) Page() int {
	if q.schema.Page == "" {
		return 1
	}
	return q.Int(q.schema.Page, 1)
}

// Limit returns the fixed page size.
func (q Query) Limit() int {
	return q.schema.Limit
}

// Params returns a copy of all parameter values.
func (q Query) Params() map[string]interface{} {
	params := make(map[string]interface{}, len(q.values))
	for k, v := range q.values {
		params[k] = v
	}
	return params
}
