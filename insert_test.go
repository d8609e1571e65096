package sqltable_test

import (
	"errors"
	"math"
	"strings"

	. "gopkg.in/check.v1"

	"github.com/canonical/sqltable"
)

type InsertSuite struct{}

var _ = Suite(&InsertSuite{})

// row is a Table with arbitrary columns.
type row struct {
	name   string
	fields []string
	values []sqltable.Value
}

func (r *row) TableName() string                           { return r.name }
func (r *row) ColumnFields() []string                      { return r.fields }
func (r *row) ColumnValues() []sqltable.Value              { return r.values }
func (r *row) SetColumnValue(string, sqltable.Value) error { return nil }

func (s *InsertSuite) TestInsertSQL(c *C) {
	sql, err := sqltable.InsertSQL(&User{ID: 1, Name: "O'Brien"})
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO users (id, name) VALUES (1, 'O''Brien');")
}

func (s *InsertSuite) TestInsertSQLEveryKind(c *C) {
	sql, err := sqltable.InsertSQL(&row{
		name:   "things",
		fields: []string{"i", "r", "t", "b", "n", "x"},
		values: []sqltable.Value{
			sqltable.Int(-1),
			sqltable.Real(0.25),
			sqltable.Text("it's"),
			sqltable.Bool(false),
			sqltable.Null(),
			sqltable.Blob([]byte("hi")),
		},
	})
	c.Assert(err, IsNil)
	c.Assert(sql, Equals, "INSERT INTO things (i, r, t, b, n, x) VALUES (-1, 0.25, 'it''s', FALSE, NULL, X'6869');")
}

func (s *InsertSuite) TestInsertSQLColumnsAlignWithValues(c *C) {
	for n := 1; n <= 8; n++ {
		r := &row{name: "t"}
		for i := 0; i < n; i++ {
			r.fields = append(r.fields, "c"+strings.Repeat("x", i))
			r.values = append(r.values, sqltable.Int(int64(i)))
		}
		sql, err := sqltable.InsertSQL(r)
		c.Assert(err, IsNil)

		open := strings.Index(sql, "(")
		mid := strings.Index(sql, ") VALUES (")
		cols := strings.Split(sql[open+1:mid], ", ")
		vals := strings.Split(strings.TrimSuffix(sql[mid+len(") VALUES ("):], ");"), ", ")
		c.Assert(cols, DeepEquals, r.fields)
		c.Assert(vals, HasLen, n)
		for i, v := range vals {
			lit, err := sqltable.Literal(r.values[i])
			c.Assert(err, IsNil)
			c.Check(v, Equals, lit)
		}
	}
}

var insertErrorTests = []struct {
	summary string
	record  sqltable.Table
	err     string
}{{
	summary: "nil record",
	record:  nil,
	err:     "cannot generate statement: nil record",
}, {
	summary: "no table name",
	record:  &row{fields: []string{"a"}, values: []sqltable.Value{sqltable.Int(1)}},
	err:     `cannot generate statement: \*sqltable_test.row has no table name`,
}, {
	summary: "no columns",
	record:  &row{name: "t"},
	err:     "cannot generate statement: table t has no columns",
}, {
	summary: "fewer values than columns",
	record:  &row{name: "t", fields: []string{"a", "b"}, values: []sqltable.Value{sqltable.Int(1)}},
	err:     "cannot generate statement: table t has 2 columns but 1 values",
}, {
	summary: "empty column name",
	record:  &row{name: "t", fields: []string{"a", ""}, values: []sqltable.Value{sqltable.Int(1), sqltable.Int(2)}},
	err:     "cannot generate statement: table t has an empty column name at position 1",
}, {
	summary: "unrenderable value",
	record:  &row{name: "t", fields: []string{"a", "b"}, values: []sqltable.Value{sqltable.Int(1), sqltable.Real(math.NaN())}},
	err:     "cannot generate statement: table t: value 1: cannot render NaN as a SQL literal",
}}

func (s *InsertSuite) TestInsertSQLErrors(c *C) {
	for i, test := range insertErrorTests {
		c.Logf("test %d: %s", i, test.summary)
		_, err := sqltable.InsertSQL(test.record)
		c.Assert(err, ErrorMatches, test.err)
		c.Check(errors.Is(err, sqltable.ErrStatementGeneration), Equals, true)
	}
}
