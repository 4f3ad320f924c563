// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package queryid

// Box owns an expression stored behind a pointer. It has the identity of the
// expression it holds. The zero Box holds nothing and has the identity of
// [Empty]; Get panics on it.
type Box[T Identifier] struct {
	v *T
}

// NewBox moves v to the heap and returns a Box holding it.
func NewBox[T Identifier](v T) Box[T] {
	return Box[T]{v: &v}
}

// Get returns the boxed expression.
func (b Box[T]) Get() T {
	return *b.v
}

func (b Box[T]) QueryID() Descriptor {
	if b.v == nil {
		return unit
	}
	return (*b.v).QueryID()
}

func (b Box[T]) HasStaticQueryID() bool {
	if b.v == nil {
		return true
	}
	return (*b.v).HasStaticQueryID()
}

// Ref borrows an expression owned elsewhere. It has the identity of the
// expression it points to. A nil Ref has the identity of [Empty].
type Ref[T Identifier] struct {
	p *T
}

// RefTo returns a Ref to the expression at p.
func RefTo[T Identifier](p *T) Ref[T] {
	return Ref[T]{p: p}
}

// Get returns the referenced expression.
func (r Ref[T]) Get() T {
	return *r.p
}

func (r Ref[T]) QueryID() Descriptor {
	if r.p == nil {
		return unit
	}
	return (*r.p).QueryID()
}

func (r Ref[T]) HasStaticQueryID() bool {
	if r.p == nil {
		return true
	}
	return (*r.p).HasStaticQueryID()
}

// Empty is the expression that renders nothing. Adding it to a composite does
// not change whether the composite is static.
type Empty struct{}

func (Empty) QueryID() Descriptor {
	return unit
}

func (Empty) HasStaticQueryID() bool {
	return true
}

// Opaque is embedded in expression types whose SQL text is only known at
// runtime. Such types are never static, their descriptor is a placeholder that
// [Of] never returns.
type Opaque struct{}

func (Opaque) QueryID() Descriptor {
	return unit
}

func (Opaque) HasStaticQueryID() bool {
	return false
}
