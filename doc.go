/*
Package sqltable is a small relational-mapping layer for SQLite. Record types
describe themselves through the [Table] interface; sqltable turns records into
INSERT statements, compiles SELECT statements from a fluent [QueryBuilder] and
maps result rows back into records.

# Records

A record implements [Table] by reporting its table name, its column names in
order, the current values of those columns, and by accepting a value for a
named column. The easiest way to do this is to delegate to a [Fields]
registry, either declared by hand:

	type Person struct {
		ID   int64
		Name string
	}

	func (p *Person) fields() sqltable.Fields {
		return sqltable.Fields{
			sqltable.IntField("id", &p.ID),
			sqltable.TextField("name", &p.Name),
		}
	}

or derived from `db` struct tags with [Reflect].

# Statements

Values are not bound as parameters: every value is inlined in the statement
as a SQL literal (see [Literal]). Text is single quoted with embedded quotes
doubled, so

	db.Insert(ctx, &Person{ID: 1, Name: "O'Brien"})

runs

	INSERT INTO person (id, name) VALUES (1, 'O''Brien');

inside its own transaction. Queries are configured with chained setters and
run with [Build]:

	q := db.Query().
		Select("id", "name").
		From(&Person{}).
		Where(sqltable.Eq("id", sqltable.Int(5)))
	people, err := sqltable.Build[Person](ctx, q)

which runs

	SELECT id, name FROM person WHERE id = 5

and writes the columns of every row, by position, into a new Person.

# Errors

Every failure is returned as an [*Error] whose Kind says whether generating
the statement, executing it, mapping a row, or reaching the database failed.
Use errors.Is with [ErrStatementGeneration], [ErrExecution], [ErrRowMapping]
or [ErrConnection] to test for a kind.
*/
package sqltable
