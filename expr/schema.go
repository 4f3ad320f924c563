// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import "github.com/canonical/querykit/queryid"

// Table is a named table that queries select from.
//
//queryid:derive
type Table struct {
	Name string
}

// NewTable returns the table called name.
func NewTable(name string) Table {
	return Table{Name: name}
}

// Column returns the column called name in t.
func (t Table) Column(name string, typ SQLType) Column {
	return Column{Table: t.Name, Name: name, Type: typ}
}

func (t Table) WalkAST(b *Builder) error {
	return b.PushIdentifier(t.Name)
}

// Column is a column of a table. The table and column names and the declared
// SQL type are all part of its shape.
//
//queryid:derive
type Column struct {
	Table string
	Name  string
	Type  SQLType
}

// SQLType returns the declared type of the column.
func (c Column) SQLType() SQLType {
	return c.Type
}

func (c Column) WalkAST(b *Builder) error {
	if c.Table != "" {
		if err := b.PushIdentifier(c.Table); err != nil {
			return err
		}
		b.PushSQL(".")
	}
	return b.PushIdentifier(c.Name)
}

// Bound is a query parameter. Only its declared SQL type is part of its shape,
// neither the value nor the Go type holding it are.
type Bound[V any] struct {
	Type  SQLType
	Value V
}

// boundTag names every Bound[V] in descriptors, whatever V is.
type boundTag struct{}

func (e Bound[V]) QueryID() queryid.Descriptor {
	return queryid.Compose(boundTag{}, queryid.DescriptorOf(e.Type))
}

func (e Bound[V]) HasStaticQueryID() bool {
	return queryid.IsStatic(e.Type)
}

// Bind returns a parameter holding v declared as typ.
func Bind[V any](typ SQLType, v V) Bound[V] {
	return Bound[V]{Type: typ, Value: v}
}

func (e Bound[V]) WalkAST(b *Builder) error {
	b.PushBind(e.Value)
	return nil
}

// typed is implemented by expressions that have a declared SQL type.
type typed interface {
	SQLType() SQLType
}

// operand returns v if it is an expression, otherwise a parameter holding v
// declared with the SQL type of like.
func operand[V any](like Expression, v V) Expression {
	if e, ok := any(v).(Expression); ok {
		return e
	}
	var typ SQLType
	if t, ok := like.(typed); ok {
		typ = t.SQLType()
	}
	return Bound[V]{Type: typ, Value: v}
}
