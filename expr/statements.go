// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"github.com/pkg/errors"

	"github.com/canonical/querykit/queryid"
)

// SelectStatement is a SELECT query. The zero value is not usable, start from
// [From]. Each method returns a modified copy.
//
//queryid:derive
type SelectStatement struct {
	columns []Expression
	from    Table
	where   Expression
	order   []Expression
	limit   Expression
	offset  Expression
}

// From returns SELECT * FROM t.
func From(t Table) SelectStatement {
	return SelectStatement{from: t}
}

// Select replaces the projection.
func (s SelectStatement) Select(columns ...Expression) SelectStatement {
	s.columns = append([]Expression(nil), columns...)
	return s
}

// Filter adds p to the WHERE clause. Filtering twice joins the predicates with
// AND.
func (s SelectStatement) Filter(p Expression) SelectStatement {
	s.where = AllOf(s.where, p)
	return s
}

// OrderBy appends terms to the ORDER BY clause.
func (s SelectStatement) OrderBy(terms ...Expression) SelectStatement {
	s.order = append(append([]Expression(nil), s.order...), terms...)
	return s
}

// Limit sets the LIMIT clause. The limit is bound as a parameter, its value
// is not part of the shape.
func (s SelectStatement) Limit(n int64) SelectStatement {
	s.limit = Bind(BigInt{}, n)
	return s
}

// Offset sets the OFFSET clause. The offset is bound as a parameter, its
// value is not part of the shape.
func (s SelectStatement) Offset(n int64) SelectStatement {
	s.offset = Bind(BigInt{}, n)
	return s
}

// IntoDynamic returns the statement as a [DynamicSelect], which can be
// extended at runtime but is never static.
func (s SelectStatement) IntoDynamic() DynamicSelect {
	return DynamicSelect{stmt: s}
}

func (s SelectStatement) WalkAST(b *Builder) error {
	b.PushSQL("SELECT ")
	if len(s.columns) == 0 {
		b.PushSQL("*")
	} else if err := b.walkList(s.columns, ", "); err != nil {
		return err
	}
	b.PushSQL(" FROM ")
	if err := s.from.WalkAST(b); err != nil {
		return err
	}
	if err := walkWhere(b, s.where); err != nil {
		return err
	}
	if len(s.order) > 0 {
		b.PushSQL(" ORDER BY ")
		if err := b.walkList(s.order, ", "); err != nil {
			return err
		}
	}
	switch {
	case s.limit != nil:
		b.PushSQL(" LIMIT ")
		if err := b.walk(s.limit); err != nil {
			return err
		}
	case s.offset != nil:
		// SQLite does not accept OFFSET without LIMIT.
		b.PushSQL(" LIMIT -1")
	}
	if s.offset != nil {
		b.PushSQL(" OFFSET ")
		if err := b.walk(s.offset); err != nil {
			return err
		}
	}
	return nil
}

// Exists is EXISTS (subquery).
//
//queryid:derive
type Exists struct {
	query queryid.Box[SelectStatement]
}

// NewExists returns EXISTS (q).
func NewExists(q SelectStatement) Exists {
	return Exists{query: queryid.NewBox(q)}
}

func (e Exists) WalkAST(b *Builder) error {
	if e.query == (queryid.Box[SelectStatement]{}) {
		return errors.New("cannot render EXISTS without a subquery")
	}
	b.PushSQL("EXISTS (")
	if err := e.query.Get().WalkAST(b); err != nil {
		return err
	}
	b.PushSQL(")")
	return nil
}

// Assignment sets a column to a value in INSERT and UPDATE statements.
//
//queryid:derive
type Assignment struct {
	Column Column
	Value  Expression
}

// Set returns the assignment col = v. A value that is not an expression is
// bound with the SQL type of col.
func Set[V any](col Column, v V) Assignment {
	return Assignment{Column: col, Value: operand(col, v)}
}

func (a Assignment) WalkAST(b *Builder) error {
	if err := b.PushIdentifier(a.Column.Name); err != nil {
		return err
	}
	b.PushSQL(" = ")
	return b.walk(a.Value)
}

// InsertStatement is an INSERT of a single row.
//
//queryid:derive
type InsertStatement struct {
	into        Table
	assignments []Assignment
}

// InsertInto returns an INSERT into t with no values.
func InsertInto(t Table) InsertStatement {
	return InsertStatement{into: t}
}

// Set appends assignments to the inserted row.
func (s InsertStatement) Set(assignments ...Assignment) InsertStatement {
	s.assignments = append(append([]Assignment(nil), s.assignments...), assignments...)
	return s
}

func (s InsertStatement) WalkAST(b *Builder) error {
	if len(s.assignments) == 0 {
		return errors.New("cannot insert row with no values")
	}
	b.PushSQL("INSERT INTO ")
	if err := s.into.WalkAST(b); err != nil {
		return err
	}
	b.PushSQL(" (")
	for i, a := range s.assignments {
		if i > 0 {
			b.PushSQL(", ")
		}
		if err := b.PushIdentifier(a.Column.Name); err != nil {
			return err
		}
	}
	b.PushSQL(") VALUES (")
	for i, a := range s.assignments {
		if i > 0 {
			b.PushSQL(", ")
		}
		if err := b.walk(a.Value); err != nil {
			return err
		}
	}
	b.PushSQL(")")
	return nil
}

// UpdateStatement is an UPDATE of the rows of a table.
//
//queryid:derive
type UpdateStatement struct {
	table       Table
	assignments []Assignment
	where       Expression
}

// Update returns an UPDATE of t with no assignments.
func Update(t Table) UpdateStatement {
	return UpdateStatement{table: t}
}

// Set appends assignments to the SET clause.
func (s UpdateStatement) Set(assignments ...Assignment) UpdateStatement {
	s.assignments = append(append([]Assignment(nil), s.assignments...), assignments...)
	return s
}

// Filter adds p to the WHERE clause, joined by AND.
func (s UpdateStatement) Filter(p Expression) UpdateStatement {
	s.where = AllOf(s.where, p)
	return s
}

func (s UpdateStatement) WalkAST(b *Builder) error {
	if len(s.assignments) == 0 {
		return errors.New("cannot update with no assignments")
	}
	b.PushSQL("UPDATE ")
	if err := s.table.WalkAST(b); err != nil {
		return err
	}
	b.PushSQL(" SET ")
	for i, a := range s.assignments {
		if i > 0 {
			b.PushSQL(", ")
		}
		if err := a.WalkAST(b); err != nil {
			return err
		}
	}
	return walkWhere(b, s.where)
}

// DeleteStatement is a DELETE of the rows of a table.
//
//queryid:derive
type DeleteStatement struct {
	from  Table
	where Expression
}

// DeleteFrom returns a DELETE of every row of t.
func DeleteFrom(t Table) DeleteStatement {
	return DeleteStatement{from: t}
}

// Filter adds p to the WHERE clause, joined by AND.
func (s DeleteStatement) Filter(p Expression) DeleteStatement {
	s.where = AllOf(s.where, p)
	return s
}

func (s DeleteStatement) WalkAST(b *Builder) error {
	b.PushSQL("DELETE FROM ")
	if err := s.from.WalkAST(b); err != nil {
		return err
	}
	return walkWhere(b, s.where)
}

func walkWhere(b *Builder, where Expression) error {
	if absent(where) {
		return nil
	}
	b.PushSQL(" WHERE ")
	return b.walk(where)
}

// rowSource is implemented by statements that produce a result set.
type rowSource interface {
	returnsRows() bool
}

// ReturnsRows reports whether running e produces a result set, as opposed to
// only a count of affected rows.
func ReturnsRows(e Expression) bool {
	r, ok := e.(rowSource)
	return ok && r.returnsRows()
}

func (SelectStatement) returnsRows() bool { return true }
