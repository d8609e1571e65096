package sqltable_test

import (
	"context"
	"errors"

	. "gopkg.in/check.v1"

	"github.com/canonical/sqltable"
)

type QuerySuite struct{}

var _ = Suite(&QuerySuite{})

type User struct {
	ID   int64
	Name string
}

func (u *User) fields() sqltable.Fields {
	return sqltable.Fields{
		sqltable.IntField("id", &u.ID),
		sqltable.TextField("name", &u.Name),
	}
}

func (u *User) TableName() string              { return "users" }
func (u *User) ColumnFields() []string         { return u.fields().Names() }
func (u *User) ColumnValues() []sqltable.Value { return u.fields().Values() }
func (u *User) SetColumnValue(f string, v sqltable.Value) error {
	return u.fields().Set(f, v)
}

var idIs5 = sqltable.Eq("id", sqltable.Int(5))

var compileTests = []struct {
	summary  string
	build    func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder
	expected string
}{{
	summary: "select from where",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id", "name").From(&User{}).Where(idIs5)
	},
	expected: "SELECT id, name FROM users WHERE id = 5",
}, {
	summary: "select only",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("*").From(&User{})
	},
	expected: "SELECT * FROM users",
}, {
	summary: "distinct",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("name").Distinct().From(&User{})
	},
	expected: "SELECT DISTINCT name FROM users",
}, {
	summary: "every clause",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Offset(20).
			Limit(10).
			OrderBy(sqltable.Desc("n"), sqltable.Asc("name", "id")).
			Having(sqltable.Gt("count(*)", sqltable.Int(1))).
			GroupBy("name").
			Where(sqltable.Ne("name", sqltable.Text("O'Brien"))).
			From(&User{}).
			Distinct().
			Select("name", "count(*) AS n")
	},
	expected: "SELECT DISTINCT name, count(*) AS n FROM users " +
		"WHERE name <> 'O''Brien' GROUP BY name HAVING count(*) > 1 " +
		"ORDER BY n DESC, name, id ASC LIMIT 10 OFFSET 20",
}, {
	summary: "having without group by is dropped",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Having(idIs5)
	},
	expected: "SELECT id FROM users",
}, {
	summary: "same condition in where and having",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Where(idIs5).GroupBy("id").Having(idIs5)
	},
	expected: "SELECT id FROM users WHERE id = 5 GROUP BY id HAVING id = 5",
}, {
	summary: "empty order by",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).OrderBy()
	},
	expected: "SELECT id FROM users",
}, {
	summary: "order by without direction",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).OrderBy(sqltable.Order{Columns: []string{"id"}, Direction: "desc"}, sqltable.Order{Columns: []string{"name"}})
	},
	expected: "SELECT id FROM users ORDER BY id DESC, name",
}, {
	summary: "limit only",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Limit(0)
	},
	expected: "SELECT id FROM users LIMIT 0",
}, {
	summary: "offset only",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Offset(3)
	},
	expected: "SELECT id FROM users OFFSET 3",
}, {
	summary: "combined where",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Where(sqltable.Or(
			sqltable.And(idIs5, sqltable.Like("name", "F%")),
			sqltable.Eq("name", sqltable.Null()),
		))
	},
	expected: "SELECT id FROM users WHERE ((id = 5 AND name LIKE 'F%') OR name IS NULL)",
}, {
	summary: "later calls replace earlier ones",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").Select("name").From(&User{}).Where(idIs5).Where(sqltable.Lt("id", sqltable.Int(3))).Limit(1).Limit(2)
	},
	expected: "SELECT name FROM users WHERE id < 3 LIMIT 2",
}}

func (s *QuerySuite) TestCompile(c *C) {
	for i, test := range compileTests {
		c.Logf("test %d: %s", i, test.summary)
		sql, err := test.build(sqltable.NewQueryBuilder()).Compile()
		c.Assert(err, IsNil)
		c.Check(sql, Equals, test.expected)
	}
}

var compileErrorTests = []struct {
	summary string
	build   func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder
	err     string
}{{
	summary: "no columns",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.From(&User{})
	},
	err: "cannot generate statement: no columns selected",
}, {
	summary: "empty column name",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id", " ").From(&User{})
	},
	err: "cannot generate statement: empty column name",
}, {
	summary: "no table",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id")
	},
	err: "cannot generate statement: no table to select from",
}, {
	summary: "invalid where",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Where(sqltable.Condition{})
	},
	err: "cannot generate statement: where: empty condition",
}, {
	summary: "invalid having",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).GroupBy("id").Having(sqltable.And(idIs5, sqltable.Condition{}))
	},
	err: "cannot generate statement: having: empty condition",
}, {
	summary: "empty group by",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).GroupBy()
	},
	err: "cannot generate statement: empty group by",
}, {
	summary: "order by without columns",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).OrderBy(sqltable.Desc())
	},
	err: "cannot generate statement: order by term has no columns",
}, {
	summary: "unknown direction",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).OrderBy(sqltable.Order{Columns: []string{"id"}, Direction: "sideways"})
	},
	err: `cannot generate statement: unknown order direction "sideways"`,
}, {
	summary: "negative limit",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Limit(-1)
	},
	err: "cannot generate statement: negative limit -1",
}, {
	summary: "negative offset",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).Offset(-2)
	},
	err: "cannot generate statement: negative offset -2",
}, {
	summary: "negative skip",
	build: func(q *sqltable.QueryBuilder) *sqltable.QueryBuilder {
		return q.Select("id").From(&User{}).SkipColumns(-1)
	},
	err: "cannot generate statement: negative column skip -1",
}}

func (s *QuerySuite) TestCompileErrors(c *C) {
	for i, test := range compileErrorTests {
		c.Logf("test %d: %s", i, test.summary)
		_, err := test.build(sqltable.NewQueryBuilder()).Compile()
		c.Assert(err, ErrorMatches, test.err)
		c.Assert(errors.Is(err, sqltable.ErrStatementGeneration), Equals, true)
	}
}

func (s *QuerySuite) TestBuildWithoutDatabase(c *C) {
	q := sqltable.NewQueryBuilder().Select("id", "name").From(&User{})
	_, err := sqltable.Build[User](context.Background(), q)
	c.Assert(errors.Is(err, sqltable.ErrConnection), Equals, true)
	c.Assert(err, ErrorMatches, "connection unavailable: query builder has no database")
}
