// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import "github.com/canonical/querykit/queryid"

// Empty renders nothing. It can stand in for an absent clause without changing
// whether the enclosing expression is static.
type Empty struct {
	queryid.Empty
}

func (Empty) WalkAST(*Builder) error {
	return nil
}

// absent reports whether e stands for a missing clause. Nil and Empty share
// a descriptor, so they must render the same.
func absent(e Expression) bool {
	switch e.(type) {
	case nil, Empty, *Empty:
		return true
	}
	return false
}

// In is expr IN (values...). The number of values is only known at runtime, so
// In is never static.
type In struct {
	queryid.Opaque
	Expr   Expression
	Values []Expression
}

// AnyOf returns e IN (values...). Values that are not expressions are bound
// with the SQL type of e.
func AnyOf[V any](e Expression, values ...V) In {
	in := In{Expr: e, Values: make([]Expression, len(values))}
	for i, v := range values {
		in.Values[i] = operand(e, v)
	}
	return in
}

func (e In) WalkAST(b *Builder) error {
	b.UnsafeToCache()
	if len(e.Values) == 0 {
		b.PushSQL("1 = 0")
		return nil
	}
	if err := b.walk(e.Expr); err != nil {
		return err
	}
	b.PushSQL(" IN (")
	if err := b.walkList(e.Values, ", "); err != nil {
		return err
	}
	b.PushSQL(")")
	return nil
}

// Raw is literal SQL text. Its text is data, not shape, so it is never static.
type Raw struct {
	queryid.Opaque
	SQL  string
	Args []any
	// Rows is set for raw statements that produce a result set.
	Rows bool
}

// SQL returns a raw SQL fragment. Each ? in text is matched by one of args.
func SQL(text string, args ...any) Raw {
	return Raw{SQL: text, Args: args}
}

// RawQuery returns a raw SQL statement that produces a result set.
func RawQuery(text string, args ...any) Raw {
	return Raw{SQL: text, Args: args, Rows: true}
}

func (e Raw) returnsRows() bool { return e.Rows }

func (e Raw) WalkAST(b *Builder) error {
	b.UnsafeToCache()
	b.PushSQL(e.SQL)
	b.args = append(b.args, e.Args...)
	return nil
}

// Dynamic erases the identity of an expression. The expression renders as
// before but is never static.
type Dynamic struct {
	queryid.Opaque
	Expr Expression
}

// IntoDynamic returns e with its identity erased.
func IntoDynamic(e Expression) Dynamic {
	return Dynamic{Expr: e}
}

func (e Dynamic) WalkAST(b *Builder) error {
	return b.walk(e.Expr)
}

func (e Dynamic) returnsRows() bool { return ReturnsRows(e.Expr) }

// DynamicSelect is a select statement whose clauses are decided at runtime,
// for instance from user supplied search filters. It is never static.
type DynamicSelect struct {
	queryid.Opaque
	stmt SelectStatement
}

// Filter adds p to the WHERE clause, joined by AND.
func (s DynamicSelect) Filter(p Expression) DynamicSelect {
	s.stmt = s.stmt.Filter(p)
	return s
}

// OrderBy appends terms to the ORDER BY clause.
func (s DynamicSelect) OrderBy(terms ...Expression) DynamicSelect {
	s.stmt = s.stmt.OrderBy(terms...)
	return s
}

func (s DynamicSelect) WalkAST(b *Builder) error {
	return s.stmt.WalkAST(b)
}

func (DynamicSelect) returnsRows() bool { return true }
