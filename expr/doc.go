// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package expr is a small SQL expression language whose values carry a query
// identity. Two expressions with the same [queryid.Descriptor] render the same
// SQL text, possibly with different arguments, so a statement prepared for one
// can be reused for the other.
//
// Identity is structural: it is built from the Go type of each node, the table
// and column names, and the declared SQL types of parameters. Values bound to
// parameters never contribute. Expressions whose text depends on runtime data,
// such as [In], [Raw] and [DynamicSelect], are never static.
//
// The QueryID and HasStaticQueryID methods of the composite types are
// generated by queryidgen.
package expr

//go:generate go run ../cmd/queryidgen -o queryid_gen.go types.go schema.go operators.go statements.go
