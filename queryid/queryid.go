// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package queryid

import (
	"strconv"
	"strings"
	"unique"
)

// Descriptor is an opaque, comparable summary of the shape of an expression.
// Descriptors are interned, two descriptors are equal if and only if they
// were built from the same shape.
type Descriptor struct {
	h unique.Handle[string]
}

// String returns the canonical form of the descriptor. It is meant for
// debugging and logging only.
func (d Descriptor) String() string {
	if d == (Descriptor{}) {
		return ""
	}
	return d.h.Value()
}

// Identifier is implemented by every expression that can be rendered to SQL.
type Identifier interface {
	// QueryID returns the descriptor of the expression's shape. It must not
	// depend on values bound to parameters.
	QueryID() Descriptor

	// HasStaticQueryID reports whether the SQL generated by the expression is
	// uniquely identified by QueryID.
	HasStaticQueryID() bool
}

// Of returns the descriptor of e and true if the SQL generated by e is
// determined by its shape. Otherwise it returns false and the caller must not
// reuse a prepared statement for e.
func Of(e Identifier) (Descriptor, bool) {
	if e == nil || !e.HasStaticQueryID() {
		return Descriptor{}, false
	}
	return e.QueryID(), true
}

var unit = Descriptor{unique.Make("()")}

// Unit returns the descriptor of the empty expression.
func Unit() Descriptor {
	return unit
}

// Compose returns the descriptor of a composite expression. The type of self
// names the composite, parts are the descriptors of its constituents in
// declaration order.
func Compose(self any, parts ...Descriptor) Descriptor {
	var b strings.Builder
	b.WriteString(tagRegistry().tag(self))
	b.WriteByte('(')
	writeParts(&b, parts)
	b.WriteByte(')')
	return Descriptor{unique.Make(b.String())}
}

// Literal returns the descriptor of a piece of SQL text that is part of the
// shape, such as a table or column name.
func Literal(s string) Descriptor {
	return Descriptor{unique.Make(strconv.Quote(s))}
}

// DescriptorOf returns x.QueryID(). A nil x is treated as the empty
// expression.
func DescriptorOf(x Identifier) Descriptor {
	if x == nil {
		return unit
	}
	return x.QueryID()
}

// IsStatic returns x.HasStaticQueryID(). A nil x is treated as the empty
// expression, which is static.
func IsStatic(x Identifier) bool {
	if x == nil {
		return true
	}
	return x.HasStaticQueryID()
}

// List returns the descriptor of an ordered list of constituents. The length
// of the list is part of the shape.
func List[T Identifier](xs []T) Descriptor {
	parts := make([]Descriptor, len(xs))
	for i, x := range xs {
		parts[i] = DescriptorOf(x)
	}
	var b strings.Builder
	b.WriteByte('[')
	writeParts(&b, parts)
	b.WriteByte(']')
	return Descriptor{unique.Make(b.String())}
}

// ListStatic reports whether every element of xs is static.
func ListStatic[T Identifier](xs []T) bool {
	for _, x := range xs {
		if !IsStatic(x) {
			return false
		}
	}
	return true
}

func writeParts(b *strings.Builder, parts []Descriptor) {
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(',')
		}
		if p == (Descriptor{}) {
			p = unit
		}
		b.WriteString(p.h.Value())
	}
}
