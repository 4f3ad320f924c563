// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

// The comparison constructors accept either an expression or a plain Go value
// on the right. A plain value is bound as a parameter declared with the SQL
// type of the left operand.

// Eq returns left = right.
func Eq[V any](left Expression, right V) Equal {
	return Equal{Left: left, Right: operand(left, right)}
}

// NotEq returns left <> right.
func NotEq[V any](left Expression, right V) NotEqual {
	return NotEqual{Left: left, Right: operand(left, right)}
}

// Lt returns left < right.
func Lt[V any](left Expression, right V) LessThan {
	return LessThan{Left: left, Right: operand(left, right)}
}

// LtEq returns left <= right.
func LtEq[V any](left Expression, right V) LessOrEqual {
	return LessOrEqual{Left: left, Right: operand(left, right)}
}

// Gt returns left > right.
func Gt[V any](left Expression, right V) GreaterThan {
	return GreaterThan{Left: left, Right: operand(left, right)}
}

// GtEq returns left >= right.
func GtEq[V any](left Expression, right V) GreaterOrEqual {
	return GreaterOrEqual{Left: left, Right: operand(left, right)}
}

// Like returns left LIKE right.
func Like[V any](left Expression, right V) Matching {
	return Matching{Left: left, Right: operand(left, right)}
}

//queryid:derive
type Equal struct {
	Left, Right Expression
}

func (e Equal) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " = ", e.Right)
}

//queryid:derive
type NotEqual struct {
	Left, Right Expression
}

func (e NotEqual) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " <> ", e.Right)
}

//queryid:derive
type LessThan struct {
	Left, Right Expression
}

func (e LessThan) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " < ", e.Right)
}

//queryid:derive
type LessOrEqual struct {
	Left, Right Expression
}

func (e LessOrEqual) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " <= ", e.Right)
}

//queryid:derive
type GreaterThan struct {
	Left, Right Expression
}

func (e GreaterThan) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " > ", e.Right)
}

//queryid:derive
type GreaterOrEqual struct {
	Left, Right Expression
}

func (e GreaterOrEqual) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " >= ", e.Right)
}

//queryid:derive
type Matching struct {
	Left, Right Expression
}

func (e Matching) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " LIKE ", e.Right)
}

// And is the conjunction of two predicates.
//
//queryid:derive
type And struct {
	Left, Right Expression
}

func (e And) WalkAST(b *Builder) error {
	return walkInfix(b, e.Left, " AND ", e.Right)
}

// Or is the disjunction of two predicates. It is always parenthesised.
//
//queryid:derive
type Or struct {
	Left, Right Expression
}

func (e Or) WalkAST(b *Builder) error {
	b.PushSQL("(")
	if err := walkInfix(b, e.Left, " OR ", e.Right); err != nil {
		return err
	}
	b.PushSQL(")")
	return nil
}

// AllOf returns the conjunction of the predicates in ps, or nil if there are
// none. Nil and Empty predicates are skipped.
func AllOf(ps ...Expression) Expression {
	var all Expression
	for _, p := range ps {
		if absent(p) {
			continue
		}
		if all == nil {
			all = p
			continue
		}
		all = And{Left: all, Right: p}
	}
	return all
}

//queryid:derive
type Not struct {
	Expr Expression
}

func (e Not) WalkAST(b *Builder) error {
	b.PushSQL("NOT (")
	if err := b.walk(e.Expr); err != nil {
		return err
	}
	b.PushSQL(")")
	return nil
}

//queryid:derive
type IsNull struct {
	Expr Expression
}

func (e IsNull) WalkAST(b *Builder) error {
	return walkPostfix(b, e.Expr, " IS NULL")
}

//queryid:derive
type IsNotNull struct {
	Expr Expression
}

func (e IsNotNull) WalkAST(b *Builder) error {
	return walkPostfix(b, e.Expr, " IS NOT NULL")
}

//queryid:derive
type Asc struct {
	Expr Expression
}

func (e Asc) WalkAST(b *Builder) error {
	return walkPostfix(b, e.Expr, " ASC")
}

//queryid:derive
type Desc struct {
	Expr Expression
}

func (e Desc) WalkAST(b *Builder) error {
	return walkPostfix(b, e.Expr, " DESC")
}

// CountAll is COUNT(*).
//
//queryid:derive
type CountAll struct{}

func (CountAll) WalkAST(b *Builder) error {
	b.PushSQL("COUNT(*)")
	return nil
}

func walkInfix(b *Builder, left Expression, op string, right Expression) error {
	if err := b.walk(left); err != nil {
		return err
	}
	b.PushSQL(op)
	return b.walk(right)
}

func walkPostfix(b *Builder, e Expression, op string) error {
	if err := b.walk(e); err != nil {
		return err
	}
	b.PushSQL(op)
	return nil
}
