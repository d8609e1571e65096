package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/sqltable"
)

type Person struct {
	Name     string `db:"name"`
	Height   int    `db:"height_cm"`
	HomeTown string `db:"home_town"`
}

func (p *Person) TableName() string { return "people" }

func (p *Person) fields() sqltable.Fields {
	return sqltable.Fields{
		sqltable.TextField("name", &p.Name),
		sqltable.IntField("height_cm", &p.Height),
		sqltable.TextField("home_town", &p.HomeTown),
	}
}

func (p *Person) ColumnFields() []string         { return p.fields().Names() }
func (p *Person) ColumnValues() []sqltable.Value { return p.fields().Values() }
func (p *Person) SetColumnValue(f string, v sqltable.Value) error {
	return p.fields().Set(f, v)
}

type Place struct {
	Name       string `db:"town_name"`
	Population int    `db:"population"`
}

func (p *Place) TableName() string { return "location" }

// Place is mapped through its struct tags.
func (p *Place) fields() sqltable.Fields {
	fields, err := sqltable.Reflect(p)
	if err != nil {
		panic(err)
	}
	return fields
}

func (p *Place) ColumnFields() []string         { return p.fields().Names() }
func (p *Place) ColumnValues() []sqltable.Value { return p.fields().Values() }
func (p *Place) SetColumnValue(f string, v sqltable.Value) error {
	return p.fields().Set(f, v)
}

// TownCount is the result of grouping people by home town.
type TownCount struct {
	Town  string
	Count int
}

func (t *TownCount) TableName() string { return "people" }

func (t *TownCount) fields() sqltable.Fields {
	return sqltable.Fields{
		sqltable.TextField("home_town", &t.Town),
		sqltable.IntField("count(*)", &t.Count),
	}
}

func (t *TownCount) ColumnFields() []string         { return t.fields().Names() }
func (t *TownCount) ColumnValues() []sqltable.Value { return t.fields().Values() }
func (t *TownCount) SetColumnValue(f string, v sqltable.Value) error {
	return t.fields().Set(f, v)
}

func example(ctx context.Context, logger *slog.Logger) error {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return err
	}
	defer sqldb.Close()
	sqldb.SetMaxOpenConns(1)

	_, err = sqldb.ExecContext(ctx, `
		CREATE TABLE people (
			name text,
			height_cm integer,
			home_town text
		);
		CREATE TABLE location (
			town_name text,
			population integer
		);`,
	)
	if err != nil {
		return err
	}

	db := sqltable.NewDB(sqldb, sqltable.WithLogger(logger))

	var people = []Person{{"Jim", 150, "Kabul"}, {"Saba", 162, "Berlin"}, {"Dave", 169, "Brasília"}, {"Sophie", 174, "Berlin"}, {"Kiri", 168, "Cape Town"}}
	var places = []Place{{"Kabul", 13000000}, {"Berlin", 3677472}, {"Brasília", 3039444}, {"Cape Town", 4710000}}

	// Insert the people one at a time and the places in a single
	// transaction.
	for i := range people {
		if err := db.Insert(ctx, &people[i]); err != nil {
			return err
		}
	}
	tx, err := db.Begin(ctx, nil)
	if err != nil {
		return err
	}
	for i := range places {
		if err := tx.Insert(ctx, &places[i]); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	// Find people taller than Jim
	jim := people[0]
	taller, err := sqltable.Build[Person](ctx, db.Query().
		Select("name", "height_cm", "home_town").
		From(&Person{}).
		Where(sqltable.Gt("height_cm", sqltable.Int(int64(jim.Height)))).
		OrderBy(sqltable.Asc("height_cm")))
	if err != nil {
		return err
	}
	for _, p := range taller {
		fmt.Printf("%s is taller than %s.\n", p.Name, jim.Name)
	}

	// Find the big cities
	big, err := sqltable.Build[Place](ctx, db.Query().
		Select("town_name", "population").
		From(&Place{}).
		Where(sqltable.Ge("population", sqltable.Int(4000000))).
		OrderBy(sqltable.Desc("population")))
	if err != nil {
		return err
	}
	fmt.Printf("These cities have at least four million people: %v\n", big)

	// Count people per home town
	counts, err := sqltable.Build[TownCount](ctx, db.Query().
		Select("home_town", "count(*)").
		From(&TownCount{}).
		GroupBy("home_town").
		Having(sqltable.Gt("count(*)", sqltable.Int(1))))
	if err != nil {
		return err
	}
	for _, tc := range counts {
		fmt.Printf("%d people come from %s.\n", tc.Count, tc.Town)
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := example(context.Background(), logger); err != nil {
		logger.Error("demo failed", "err", err)
		os.Exit(1)
	}
}
