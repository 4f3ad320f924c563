// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package querykit runs queries built with the expr package and reuses prepared
statements between queries that have the same shape.

# Basics

Queries are composed from tables, columns and operators rather than written as
SQL strings:

	users := expr.NewTable("users")
	id := users.Column("id", expr.Integer{})
	name := users.Column("name", expr.Text{})

	q := expr.From(users).Select(id, name).Filter(expr.Eq(name, "Fred"))

A [DB] wraps a [database/sql.DB]:

	db := querykit.NewDB(sqldb)
	var people []Person
	err := db.Query(ctx, q).GetAll(&people)

Struct fields are matched to result columns by their "db" tag.

# Statement cache

Every expression has a query ID summarising its shape: the tables, columns,
operators and declared SQL types it is made of, but not the values bound to
its parameters. The first time a query with a given ID runs on a DB its SQL is
prepared, later queries with the same ID reuse that statement:

	db.Query(ctx, expr.From(users).Filter(expr.Eq(name, "Fred"))).Run() // prepares
	db.Query(ctx, expr.From(users).Filter(expr.Eq(name, "Mary"))).Run() // reuses

Expressions whose SQL depends on runtime data, such as expr.AnyOf,
expr.SQL or expr.IntoDynamic, have no static query ID and always run
unprepared.

The cache is bounded by [Config].MaxStatements and can be disabled entirely.
Statements are closed by [DB.Close].

# Transactions

A query on a [TX] reuses a statement already prepared on its DB but never
prepares one itself.
*/
package querykit
