// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package queryid identifies query expressions by their shape, for the purpose of
prepared statement caching.

Two expressions have the same shape when they render the same SQL text, whatever
values are bound to their parameters. A statement prepared for one of them can
be reused for the other. The shape of an expression is summarised in a
[Descriptor], and whether the SQL text is a pure function of the shape at all is
reported by the expression itself.

# Identifiers

Every expression type implements [Identifier]:

	type Identifier interface {
		QueryID() Descriptor
		HasStaticQueryID() bool
	}

QueryID returns the descriptor of the shape. HasStaticQueryID reports whether
the SQL text generated by the expression can be uniquely identified by that
descriptor. Callers that want a cache key must go through [Of], which never
calls QueryID on an expression that is not static:

	if key, ok := queryid.Of(e); ok {
		// look up or prepare the statement under key
	}

# Composition

The descriptor of a composite expression is built from a tag naming its own
type followed by the descriptors of its constituents, in order:

	func (e And) QueryID() queryid.Descriptor {
		return queryid.Compose(e, queryid.DescriptorOf(e.Left), queryid.DescriptorOf(e.Right))
	}

	func (e And) HasStaticQueryID() bool {
		return queryid.IsStatic(e.Left) && queryid.IsStatic(e.Right)
	}

Because the tag is part of the descriptor, And and Or over the same operands
have different descriptors even if they happened to render the same text.
Methods of this form are usually generated with cmd/queryidgen.

Type tags are derived from the Go type of the value passed to [Compose]:
package path and type name, type arguments included, so Cast[Integer] and
Cast[Text] stay apart. A bound parameter type whose host type must not matter
passes a non-generic marker value to Compose instead of itself:

	type boundTag struct{}

	func (e Bound[V]) QueryID() queryid.Descriptor {
		return queryid.Compose(boundTag{}, queryid.DescriptorOf(e.Type))
	}

Two distinct types never share a tag. When a derived tag is already taken,
for instance by a function-local type of the same name, the later type gets a
numbered suffix.

# Wrappers

[Box], [Ref] and plain pointers forward both methods to the value they wrap.
Indirection is a storage decision, not a shape decision, and never changes
the identity of an expression.

# Dynamic expressions

Types whose SQL text is chosen at runtime embed [Opaque]. They are never
static, so [Of] never produces a key for them or for any composite containing
them.
*/
package queryid
