// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/canonical/querykit/queryid"
)

// Expression is a composable query node.
type Expression interface {
	queryid.Identifier

	// WalkAST renders the expression into b.
	WalkAST(b *Builder) error
}

// Builder accumulates the SQL text and the query arguments of an expression.
type Builder struct {
	sql    strings.Builder
	args   []any
	unsafe bool
}

// PushSQL appends raw SQL text.
func (b *Builder) PushSQL(sql string) {
	b.sql.WriteString(sql)
}

// PushIdentifier appends a double quoted identifier.
func (b *Builder) PushIdentifier(name string) error {
	if name == "" {
		return errors.New("cannot render empty identifier")
	}
	b.sql.WriteByte('"')
	b.sql.WriteString(strings.ReplaceAll(name, `"`, `""`))
	b.sql.WriteByte('"')
	return nil
}

// PushBind appends a placeholder and records value as its argument.
func (b *Builder) PushBind(value any) {
	b.sql.WriteByte('?')
	b.args = append(b.args, value)
}

// UnsafeToCache records that the text being rendered is not determined by the
// shape of the expression, so the statement must not be reused even if the
// expression reports a static query ID.
func (b *Builder) UnsafeToCache() {
	b.unsafe = true
}

// walk renders e, failing on nil.
func (b *Builder) walk(e Expression) error {
	if e == nil {
		return errors.New("cannot render nil expression")
	}
	return e.WalkAST(b)
}

// walkList renders es separated by sep.
func (b *Builder) walkList(es []Expression, sep string) error {
	for i, e := range es {
		if i > 0 {
			b.PushSQL(sep)
		}
		if err := b.walk(e); err != nil {
			return err
		}
	}
	return nil
}

// Rendered is the SQL generated for an expression.
type Rendered struct {
	SQL  string
	Args []any
	// Cacheable is false if any fragment of the expression called
	// [Builder.UnsafeToCache].
	Cacheable bool
}

// Render generates the SQL text and arguments of e.
func Render(e Expression) (Rendered, error) {
	b := &Builder{}
	if err := b.walk(e); err != nil {
		return Rendered{}, errors.Wrap(err, "cannot render expression")
	}
	return Rendered{SQL: b.sql.String(), Args: b.args, Cacheable: !b.unsafe}, nil
}
