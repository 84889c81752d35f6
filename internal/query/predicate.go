package query

import (
	"fmt"
	"strings"
)

// Op is the comparison operator of a predicate clause.
type Op int

const (
	// OpEquals renders as `field: value`.
	OpEquals Op = iota
	// OpContains renders as `field_contains: value`.
	OpContains
	// OpInSet renders as `field_in: value`.
	OpInSet
	// OpGreaterThan renders as `field_gt: value`.
	OpGreaterThan
)

// valueKind discriminates the renderable value variants.
type valueKind int

const (
	kindVar valueKind = iota
	kindString
	kindEnum
	kindStringList
	kindEnumList
)

// Value is one renderable predicate operand: a variable reference, a quoted
// string literal, a bare enum literal, or a list of either.
type Value struct {
	kind valueKind
	str  string
	list []string
}

// Var references a query variable by name (rendered as $name).
func Var(name string) Value {
	return Value{kind: kindVar, str: name}
}

// Str is a quoted string literal.
func Str(s string) Value {
	return Value{kind: kindString, str: s}
}

// Enum is a bare enum literal (rendered unquoted).
func Enum(s string) Value {
	return Value{kind: kindEnum, str: s}
}

// StrList is a list of quoted string literals.
func StrList(items ...string) Value {
	return Value{kind: kindStringList, list: items}
}

// EnumList is a list of bare enum literals.
func EnumList(items ...string) Value {
	return Value{kind: kindEnumList, list: items}
}

func (v Value) render() string {
	switch v.kind {
	case kindVar:
		return "$" + v.str
	case kindString:
		return fmt.Sprintf("%q", v.str)
	case kindEnum:
		return v.str
	case kindStringList:
		quoted := make([]string, len(v.list))
		for i, item := range v.list {
			quoted[i] = fmt.Sprintf("%q", item)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case kindEnumList:
		return "[" + strings.Join(v.list, ", ") + "]"
	}
	return ""
}

// Predicate is one filter clause of a where condition set.
type Predicate struct {
	Field string
	Op    Op
	Value Value
}

func (p Predicate) render() string {
	field := p.Field
	switch p.Op {
	case OpContains:
		field += "_contains"
	case OpInSet:
		field += "_in"
	case OpGreaterThan:
		field += "_gt"
	}
	return field + ": " + p.Value.render()
}

// Where is an ordered predicate list. Predicates combine as a logical AND;
// emission order is insertion order so compiled text is reproducible.
type Where struct {
	preds []Predicate
}

// Add appends one predicate clause.
func (w *Where) Add(field string, op Op, value Value) {
	w.preds = append(w.preds, Predicate{Field: field, Op: op, Value: value})
}

// Empty reports whether no clauses were added.
func (w *Where) Empty() bool {
	return len(w.preds) == 0
}

// render writes the where argument block with the given indent prefix.
func (w *Where) render(b *strings.Builder, indent string) {
	b.WriteString(indent + "where: {\n")
	for _, p := range w.preds {
		b.WriteString(indent + "  " + p.render() + "\n")
	}
	b.WriteString(indent + "}\n")
}
