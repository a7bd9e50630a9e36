// Package patch applies partial JSON updates to records through an explicit,
// per-entity list of fields, and reports which of the supplied fields changed.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// ErrField marks a patch that names an unknown field or carries a value of the
// wrong shape.
var ErrField = errors.New("invalid patch field")

// Patch is a decoded request body, keyed by JSON field name.
type Patch map[string]json.RawMessage

// Change is one supplied field whose value differs from the stored one.
type Change struct {
	Field  string
	Old    any
	New    any
	Status bool
}

// Field describes one patchable field of E.
type Field[E any] struct {
	Name   string
	Column string
	status bool
	apply  func(e *E, raw json.RawMessage) error
	equal  func(a, b *E) bool
	value  func(e *E) any
}

// AsStatus marks the field as the record's primary status.
func (f Field[E]) AsStatus() Field[E] {
	f.status = true
	return f
}

// Value is a non-nullable field. JSON null is rejected.
func Value[E any, V comparable](name string, ref func(*E) *V) Field[E] {
	return Field[E]{
		Name:   name,
		Column: column(name),
		apply: func(e *E, raw json.RawMessage) error {
			if isNull(raw) {
				return fmt.Errorf("%w: %s cannot be null", ErrField, name)
			}
			var v V
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrField, name, err)
			}
			*ref(e) = v
			return nil
		},
		equal: func(a, b *E) bool { return *ref(a) == *ref(b) },
		value: func(e *E) any { return *ref(e) },
	}
}

// Nullable is an optional field. JSON null and "" both clear it.
func Nullable[E any, V comparable](name string, ref func(*E) **V) Field[E] {
	return Field[E]{
		Name:   name,
		Column: column(name),
		apply: func(e *E, raw json.RawMessage) error {
			if isNull(raw) || isEmptyString(raw) {
				*ref(e) = nil
				return nil
			}
			v := new(V)
			if err := json.Unmarshal(raw, v); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrField, name, err)
			}
			*ref(e) = v
			return nil
		},
		equal: func(a, b *E) bool {
			pa, pb := *ref(a), *ref(b)
			if pa == nil || pb == nil {
				return pa == nil && pb == nil
			}
			return *pa == *pb
		},
		value: func(e *E) any {
			if p := *ref(e); p != nil {
				return *p
			}
			return nil
		},
	}
}

// List is an ordered list field; order is significant for equality.
func List[E any, S ~[]V, V comparable](name string, ref func(*E) *S) Field[E] {
	return Field[E]{
		Name:   name,
		Column: column(name),
		apply: func(e *E, raw json.RawMessage) error {
			if isNull(raw) {
				*ref(e) = nil
				return nil
			}
			var v S
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrField, name, err)
			}
			*ref(e) = v
			return nil
		},
		equal: func(a, b *E) bool { return slices.Equal(*ref(a), *ref(b)) },
		value: func(e *E) any { return *ref(e) },
	}
}

// Schema is the field list for one entity kind.
type Schema[E any] struct {
	fields []Field[E]
	byName map[string]int
}

// managed keys belong to the server and are dropped from any patch.
var managed = map[string]bool{"id": true, "createdAt": true, "updatedAt": true, "createdBy": true}

func NewSchema[E any](fields ...Field[E]) *Schema[E] {
	s := &Schema[E]{fields: fields, byName: make(map[string]int, len(fields))}
	for i, f := range fields {
		s.byName[f.Name] = i
	}
	return s
}

// Result is the outcome of applying a patch to a record.
type Result[E any] struct {
	Next    E
	Changes []Change
	// Columns holds every supplied field, changed or not, keyed by column.
	Columns map[string]any

	cur      E
	supplied []bool
}

// Has reports whether the patch supplied the named field.
func (r *Result[E]) Has(column string) bool {
	_, ok := r.Columns[column]
	return ok
}

// Set writes a derived column without recording a change for it.
func (r *Result[E]) Set(column string, v any) { r.Columns[column] = v }

// Apply copies cur, applies p on the copy, and diffs the supplied fields.
// Changes come back in schema order.
func (s *Schema[E]) Apply(cur E, p Patch) (*Result[E], error) {
	res := &Result[E]{Next: cur, Columns: map[string]any{}, cur: cur}
	supplied := make([]bool, len(s.fields))
	res.supplied = supplied
	for name, raw := range p {
		if managed[name] {
			continue
		}
		i, ok := s.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrField, name)
		}
		if err := s.fields[i].apply(&res.Next, raw); err != nil {
			return nil, err
		}
		supplied[i] = true
	}
	s.diff(res)
	return res, nil
}

// Settle re-reads the supplied fields from res.Next after it was adjusted
// past Apply, so Columns and Changes describe what will be stored.
func (s *Schema[E]) Settle(res *Result[E]) {
	s.diff(res)
}

func (s *Schema[E]) diff(res *Result[E]) {
	res.Changes = nil
	for i, f := range s.fields {
		if !res.supplied[i] {
			continue
		}
		res.Columns[f.Column] = f.value(&res.Next)
		if !f.equal(&res.cur, &res.Next) {
			res.Changes = append(res.Changes, Change{
				Field:  f.Name,
				Old:    f.value(&res.cur),
				New:    f.value(&res.Next),
				Status: f.status,
			})
		}
	}
}

// Names lists the schema's field names in order.
func (s *Schema[E]) Names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isEmptyString(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte(`""`))
}

// column maps a camelCase JSON name to gorm's snake_case column name.
func column(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
