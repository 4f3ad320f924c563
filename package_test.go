// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package querykit_test

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	. "gopkg.in/check.v1"

	"github.com/canonical/querykit"
	"github.com/canonical/querykit/expr"
)

type PackageSuite struct{}

var _ = Suite(&PackageSuite{})

var (
	person     = expr.NewTable("person")
	personID   = person.Column("id", expr.Integer{})
	personName = person.Column("name", expr.Text{})
	addressID  = person.Column("address_id", expr.Integer{})
)

type Person struct {
	ID         int    `db:"id"`
	Fullname   string `db:"name"`
	PostalCode int    `db:"address_id"`
}

var (
	fred  = Person{ID: 30, Fullname: "Fred", PostalCode: 1000}
	mark  = Person{ID: 20, Fullname: "Mark", PostalCode: 1500}
	mary  = Person{ID: 40, Fullname: "Mary", PostalCode: 3500}
	james = Person{ID: 35, Fullname: "James", PostalCode: 4500}
)

// personDB returns a DB holding the person table filled with fred, mark,
// mary and james.
func personDB(c *C) *querykit.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	c.Assert(err, IsNil)
	// Every connection to :memory: opens a distinct database.
	sqldb.SetMaxOpenConns(1)

	db := querykit.NewDB(sqldb)
	_, err = sqldb.Exec(`CREATE TABLE person (id integer, name text, address_id integer)`)
	c.Assert(err, IsNil)
	for _, p := range []Person{fred, mark, mary, james} {
		err := db.Query(context.Background(), insertPerson(p)).Run()
		c.Assert(err, IsNil)
	}
	return db
}

func insertPerson(p Person) expr.InsertStatement {
	return expr.InsertInto(person).Set(
		expr.Set(personID, p.ID),
		expr.Set(personName, p.Fullname),
		expr.Set(addressID, p.PostalCode),
	)
}

func (s *PackageSuite) TestGetStruct(c *C) {
	db := personDB(c)
	defer db.Close()

	var p Person
	err := db.Query(nil, expr.From(person).Filter(expr.Eq(personName, "Mary"))).Get(&p)
	c.Assert(err, IsNil)
	c.Assert(p, Equals, mary)

	// Columns are matched by tag, not by position.
	p = Person{}
	q := expr.From(person).Select(addressID, personName).Filter(expr.Eq(personID, 20))
	err = db.Query(nil, q).Get(&p)
	c.Assert(err, IsNil)
	c.Assert(p, Equals, Person{Fullname: "Mark", PostalCode: 1500})
}

func (s *PackageSuite) TestGetScalars(c *C) {
	db := personDB(c)
	defer db.Close()

	var name string
	var id int
	q := expr.From(person).Select(personName, personID).Filter(expr.Gt(addressID, 4000))
	err := db.Query(nil, q).Get(&name, &id)
	c.Assert(err, IsNil)
	c.Assert(name, Equals, "James")
	c.Assert(id, Equals, 35)

	var count int
	err = db.Query(nil, expr.From(person).Select(expr.CountAll{})).Get(&count)
	c.Assert(err, IsNil)
	c.Assert(count, Equals, 4)
}

func (s *PackageSuite) TestGetErrors(c *C) {
	db := personDB(c)
	defer db.Close()

	var p Person
	err := db.Query(nil, expr.From(person).Filter(expr.Eq(personID, 99))).Get(&p)
	c.Assert(err, Equals, querykit.ErrNoRows)

	err = db.Query(nil, expr.DeleteFrom(person).Filter(expr.Eq(personID, 99))).Get(&p)
	c.Assert(err, ErrorMatches, "cannot get results: output variables provided but query returns no rows")

	type unknown struct {
		Age int `db:"age"`
	}
	var u unknown
	err = db.Query(nil, expr.From(person)).Get(&u)
	c.Assert(err, ErrorMatches, `cannot get result: cannot scan column "id": no field of unknown has db tag "id"`)

	err = db.Query(nil, expr.InsertInto(person)).Run()
	c.Assert(err, ErrorMatches, "cannot render expression: cannot insert row with no values")

	var name string
	err = db.Query(nil, expr.From(person).Select(personName, personID)).Get(&name)
	c.Assert(err, ErrorMatches, "cannot get result: sql: expected 2 destination arguments in Scan, not 1")
}

func (s *PackageSuite) TestGetAll(c *C) {
	db := personDB(c)
	defer db.Close()

	ordered := expr.From(person).OrderBy(expr.Asc{Expr: personID})

	var people []Person
	err := db.Query(nil, ordered).GetAll(&people)
	c.Assert(err, IsNil)
	c.Assert(people, DeepEquals, []Person{mark, fred, james, mary})

	var ptrs []*Person
	err = db.Query(nil, ordered.Limit(2).Offset(1)).GetAll(&ptrs)
	c.Assert(err, IsNil)
	c.Assert(ptrs, HasLen, 2)
	c.Assert(*ptrs[0], Equals, fred)
	c.Assert(*ptrs[1], Equals, james)

	var names []string
	err = db.Query(nil, ordered.Select(personName).Filter(expr.Like(personName, "M%"))).GetAll(&names)
	c.Assert(err, IsNil)
	c.Assert(names, DeepEquals, []string{"Mark", "Mary"})

	// GetAll replaces the contents of the slice.
	names = []string{"Sam"}
	err = db.Query(nil, expr.From(person).Select(personName).Filter(expr.AnyOf(personID, 30, 40)).OrderBy(expr.Desc{Expr: personName})).GetAll(&names)
	c.Assert(err, IsNil)
	c.Assert(names, DeepEquals, []string{"Mary", "Fred"})
}

func (s *PackageSuite) TestGetAllErrors(c *C) {
	db := personDB(c)
	defer db.Close()

	var people []Person
	err := db.Query(nil, expr.From(person).Filter(expr.Eq(personID, 99))).GetAll(&people)
	c.Assert(err, Equals, querykit.ErrNoRows)

	tests := []struct {
		summary string
		args    []any
		err     string
	}{{
		summary: "not a pointer",
		args:    []any{people},
		err:     "need pointer to slice, got slice",
	}, {
		summary: "nil pointer",
		args:    []any{(*[]Person)(nil)},
		err:     "need pointer to slice, got nil",
	}, {
		summary: "pointer to struct",
		args:    []any{&Person{}},
		err:     "need pointer to slice, got pointer to struct",
	}, {
		summary: "two slices",
		args:    []any{&people, &people},
		err:     "need one slice to scan into, got 2",
	}}
	for _, test := range tests {
		err := db.Query(nil, expr.From(person)).GetAll(test.args...)
		c.Check(err, ErrorMatches, test.err, Commentf(test.summary))
	}

	err = db.Query(nil, expr.DeleteFrom(person)).GetAll(&people)
	c.Assert(err, ErrorMatches, "cannot get results: output variables provided but query returns no rows")
}

func (s *PackageSuite) TestIter(c *C) {
	db := personDB(c)
	defer db.Close()

	iter := db.Query(nil, expr.From(person).Filter(expr.LtEq(personID, 30)).OrderBy(expr.Desc{Expr: personID})).Iter()
	var got []Person
	for iter.Next() {
		var p Person
		c.Assert(iter.Get(&p), IsNil)
		got = append(got, p)
	}
	c.Assert(iter.Close(), IsNil)
	c.Assert(got, DeepEquals, []Person{fred, mark})

	// Close can be called again.
	c.Assert(iter.Close(), IsNil)
}

func (s *PackageSuite) TestIterMethodOrder(c *C) {
	db := personDB(c)
	defer db.Close()

	var p Person
	iter := db.Query(nil, expr.From(person)).Iter()
	err := iter.Get(&p)
	c.Assert(err, ErrorMatches, "cannot get result: cannot call Get before Next unless getting outcome")
	c.Assert(iter.Close(), IsNil)

	err = iter.Get(&p)
	c.Assert(err, ErrorMatches, "cannot get result: iteration ended")
}

func (s *PackageSuite) TestOutcome(c *C) {
	db := personDB(c)
	defer db.Close()

	var outcome querykit.Outcome
	err := db.Query(nil, expr.Update(person).Set(expr.Set(addressID, 2000)).Filter(expr.Lt(personID, 35))).Get(&outcome)
	c.Assert(err, IsNil)
	affected, err := outcome.Result().RowsAffected()
	c.Assert(err, IsNil)
	c.Assert(affected, Equals, int64(2))

	err = db.Query(nil, insertPerson(Person{ID: 50, Fullname: "Sam", PostalCode: 2000})).Get(&outcome)
	c.Assert(err, IsNil)
	affected, err = outcome.Result().RowsAffected()
	c.Assert(err, IsNil)
	c.Assert(affected, Equals, int64(1))

	var people []Person
	err = db.Query(nil, expr.From(person).Filter(expr.Eq(addressID, 2000)).OrderBy(expr.Asc{Expr: personID})).GetAll(&outcome, &people)
	c.Assert(err, IsNil)
	c.Assert(outcome.Result(), IsNil)
	c.Assert(people, HasLen, 3)
}

func (s *PackageSuite) TestQueryMultipleRuns(c *C) {
	db := personDB(c)
	defer db.Close()

	q := db.Query(nil, expr.From(person).Select(personName).Filter(expr.Eq(personID, 30)))
	for i := 0; i < 3; i++ {
		var name string
		c.Assert(q.Get(&name), IsNil)
		c.Assert(name, Equals, "Fred")
	}
}

func (s *PackageSuite) TestRawQuery(c *C) {
	db := personDB(c)
	defer db.Close()

	var names []string
	err := db.Query(nil, expr.RawQuery("SELECT upper(name) FROM person WHERE id > ? ORDER BY id", 30)).GetAll(&names)
	c.Assert(err, IsNil)
	c.Assert(names, DeepEquals, []string{"JAMES", "MARY"})

	err = db.Query(nil, expr.SQL("DELETE FROM person WHERE id > ?", 30)).Run()
	c.Assert(err, IsNil)
	var count int
	c.Assert(db.Query(nil, expr.From(person).Select(expr.CountAll{})).Get(&count), IsNil)
	c.Assert(count, Equals, 2)
}

func (s *PackageSuite) TestTransactions(c *C) {
	db := personDB(c)
	defer db.Close()
	ctx := context.Background()
	deleteMark := expr.DeleteFrom(person).Filter(expr.Eq(personName, "Mark"))
	countMark := expr.From(person).Select(expr.CountAll{}).Filter(expr.Eq(personName, "Mark"))

	// A rolled back deletion leaves the row.
	tx, err := db.Begin(ctx, nil)
	c.Assert(err, IsNil)
	c.Assert(tx.Query(ctx, deleteMark).Run(), IsNil)
	var count int
	c.Assert(tx.Query(ctx, countMark).Get(&count), IsNil)
	c.Assert(count, Equals, 0)
	c.Assert(tx.Rollback(), IsNil)

	c.Assert(db.Query(ctx, countMark).Get(&count), IsNil)
	c.Assert(count, Equals, 1)

	// A committed deletion removes it.
	tx, err = db.Begin(ctx, &querykit.TXOptions{ReadOnly: false})
	c.Assert(err, IsNil)
	c.Assert(tx.Query(ctx, deleteMark).Run(), IsNil)
	c.Assert(tx.Commit(), IsNil)

	c.Assert(db.Query(ctx, countMark).Get(&count), IsNil)
	c.Assert(count, Equals, 0)
}

func (s *PackageSuite) TestTransactionErrors(c *C) {
	db := personDB(c)
	defer db.Close()
	ctx := context.Background()

	tx, err := db.Begin(ctx, nil)
	c.Assert(err, IsNil)
	c.Assert(tx.Commit(), IsNil)

	c.Assert(tx.Query(ctx, expr.From(person)).Run(), Equals, querykit.ErrTXDone)
	c.Assert(tx.Commit(), Equals, querykit.ErrTXDone)
	c.Assert(tx.Rollback(), Equals, querykit.ErrTXDone)

	tx, err = db.Begin(ctx, nil)
	c.Assert(err, IsNil)
	err = tx.Query(ctx, expr.Update(person).Filter(expr.Eq(personID, 1))).Run()
	c.Assert(err, ErrorMatches, "cannot render expression: cannot update with no assignments")
	c.Assert(tx.Rollback(), IsNil)
}

func (s *PackageSuite) TestNewDBNil(c *C) {
	c.Assert(querykit.NewDB(nil), IsNil)
}

func (s *PackageSuite) TestLoadConfig(c *C) {
	cfg, err := querykit.LoadConfig(strings.NewReader("max_statements: 64\ndisable_cache: true\n"))
	c.Assert(err, IsNil)
	c.Assert(cfg.MaxStatements, Equals, 64)
	c.Assert(cfg.DisableCache, Equals, true)

	cfg, err = querykit.LoadConfig(strings.NewReader(""))
	c.Assert(err, IsNil)
	c.Assert(cfg, DeepEquals, querykit.DefaultConfig())

	_, err = querykit.LoadConfig(strings.NewReader("max_statements: -1\n"))
	c.Assert(err, ErrorMatches, "max_statements must not be negative, got -1")

	_, err = querykit.LoadConfig(strings.NewReader("max_statement: 1\n"))
	c.Assert(err, ErrorMatches, "(?s)cannot parse config: .*field max_statement not found.*")

	_, err = querykit.LoadConfig(strings.NewReader("max_statements: [\n"))
	c.Assert(err, ErrorMatches, "cannot parse config: .*")
}
