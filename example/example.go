// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Command example runs a few queries against an in-memory SQLite database and
// reports which of them were served by the statement cache.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/querykit"
	"github.com/canonical/querykit/expr"
	"github.com/canonical/querykit/queryid"
)

type Location struct {
	ID   int    `db:"room_id"`
	Name string `db:"name"`
	Team string `db:"team"`
}

var (
	location     = expr.NewTable("location")
	locationID   = location.Column("room_id", expr.Integer{})
	locationName = location.Column("name", expr.Text{})
	locationTeam = location.Column("team", expr.Text{})
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return err
	}
	sqldb.SetMaxOpenConns(1)

	cfg := querykit.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db := querykit.NewDBWithConfig(sqldb, cfg)
	defer db.Close()

	create := expr.SQL(`CREATE TABLE location (room_id integer, name text, team text)`)
	if err := db.Query(ctx, create).Run(); err != nil {
		return err
	}
	for _, l := range []Location{
		{1, "The Basement", "engineering"},
		{8, "Floor 2", "presentation engineering"},
		{10, "Floor 3", "management"},
		{23, "Court", "legal"},
		{73, "The Penthouse", "leadership"},
	} {
		insert := expr.InsertInto(location).Set(
			expr.Set(locationID, l.ID),
			expr.Set(locationName, l.Name),
			expr.Set(locationTeam, l.Team),
		)
		if err := db.Query(ctx, insert).Run(); err != nil {
			return err
		}
	}

	// The same static filter with different values: one statement.
	for _, team := range []string{"engineering", "legal"} {
		q := expr.From(location).Filter(expr.Eq(locationTeam, team))
		var l Location
		if err := db.Query(ctx, q).Get(&l); err != nil {
			return err
		}
		report(q, fmt.Sprintf("%s works in %s", team, l.Name), db)
	}

	// Filters picked at runtime.
	search := expr.From(location).IntoDynamic()
	for _, word := range []string{"Floor%", "The%"} {
		search = search.Filter(expr.Not{Expr: expr.Like(locationName, word)})
	}
	var rooms []Location
	if err := db.Query(ctx, search.OrderBy(expr.Asc{Expr: locationID})).GetAll(&rooms); err != nil {
		return err
	}
	report(search, fmt.Sprintf("%d rooms match neither Floor%% nor The%%", len(rooms)), db)
	return nil
}

func report(e expr.Expression, summary string, db *querykit.DB) {
	key, static := queryid.Of(e)
	cacheable := "not cacheable"
	if static {
		cacheable = "cacheable as " + key.String()
	}
	fmt.Printf("%s\n\t%s\n\tstatements cached: %d\n", summary, cacheable, db.CacheLen())
}
