// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/canonical/sqltable/internal/value"
)

// Sort directions for [Order].
const (
	Ascending  = "ASC"
	Descending = "DESC"
)

// Order is one ORDER BY term: a group of columns and the direction they
// are sorted in. An empty Direction leaves the database default.
type Order struct {
	Columns   []string
	Direction string
}

// Asc orders by the columns in ascending order.
func Asc(columns ...string) Order {
	return Order{Columns: columns, Direction: Ascending}
}

// Desc orders by the columns in descending order.
func Desc(columns ...string) Order {
	return Order{Columns: columns, Direction: Descending}
}

// QueryBuilder accumulates the clauses of a SELECT statement. The setters
// only record their arguments; the configuration is checked when the
// statement is compiled by [QueryBuilder.Compile] or run by [Build].
//
// A QueryBuilder is not safe for concurrent use.
type QueryBuilder struct {
	session    prepareSubstrate
	sessionErr error
	logger     *slog.Logger

	table      Table
	columns    []string
	distinct   bool
	where      *Condition
	groupBy    []string
	hasGroupBy bool
	having     *Condition
	orderBy    []Order
	limit      int
	hasLimit   bool
	offset     int
	hasOffset  bool
	skip       int
}

// NewQueryBuilder returns a builder that is not attached to a database. It
// can compile statements but [Build] fails with a ConnectionError.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{logger: slog.Default()}
}

// Select sets the projected columns.
func (q *QueryBuilder) Select(columns ...string) *QueryBuilder {
	q.columns = columns
	return q
}

// Distinct makes the query return only distinct rows.
func (q *QueryBuilder) Distinct() *QueryBuilder {
	q.distinct = true
	return q
}

// From sets the table that is queried to the table of t.
func (q *QueryBuilder) From(t Table) *QueryBuilder {
	q.table = t
	return q
}

// Where sets the WHERE condition.
func (q *QueryBuilder) Where(c Condition) *QueryBuilder {
	q.where = &c
	return q
}

// GroupBy sets the GROUP BY columns.
func (q *QueryBuilder) GroupBy(columns ...string) *QueryBuilder {
	q.groupBy = columns
	q.hasGroupBy = true
	return q
}

// Having sets the HAVING condition. It is only emitted when GROUP BY is
// also set; without it the condition is ignored.
func (q *QueryBuilder) Having(c Condition) *QueryBuilder {
	q.having = &c
	return q
}

// OrderBy sets the ORDER BY terms, in order. No terms means no ORDER BY
// clause.
func (q *QueryBuilder) OrderBy(orders ...Order) *QueryBuilder {
	q.orderBy = orders
	return q
}

// Limit sets the maximum number of rows returned.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	q.hasLimit = true
	return q
}

// Offset sets the number of rows skipped before the first returned row.
func (q *QueryBuilder) Offset(n int) *QueryBuilder {
	q.offset = n
	q.hasOffset = true
	return q
}

// SkipColumns makes [Build] ignore the first n columns of every result row,
// for result sets that start with columns the record does not declare.
func (q *QueryBuilder) SkipColumns(n int) *QueryBuilder {
	q.skip = n
	return q
}

// Compile returns the SELECT statement described by the builder. Clauses
// appear in the order
//
//	SELECT [DISTINCT] cols FROM table [WHERE] [GROUP BY] [HAVING] [ORDER BY] [LIMIT] [OFFSET]
//
// and unset clauses are left out.
func (q *QueryBuilder) Compile() (string, error) {
	sql, err := q.compile()
	if err != nil {
		return "", generationError(err)
	}
	return sql, nil
}

func (q *QueryBuilder) compile() (string, error) {
	if len(q.columns) == 0 {
		return "", errors.New("no columns selected")
	}
	if err := checkNames("column", q.columns); err != nil {
		return "", err
	}
	if q.skip < 0 {
		return "", errors.Errorf("negative column skip %d", q.skip)
	}
	if q.table == nil {
		return "", errors.New("no table to select from")
	}
	name := q.table.TableName()
	if name == "" {
		return "", errors.Errorf("%T has no table name", q.table)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(q.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(name)

	if q.where != nil {
		cond, err := q.where.render()
		if err != nil {
			return "", errors.Wrap(err, "where")
		}
		sb.WriteString(" WHERE " + cond)
	}

	if q.hasGroupBy {
		if len(q.groupBy) == 0 {
			return "", errors.New("empty group by")
		}
		if err := checkNames("group by column", q.groupBy); err != nil {
			return "", err
		}
		sb.WriteString(" GROUP BY " + strings.Join(q.groupBy, ", "))

		if q.having != nil {
			cond, err := q.having.render()
			if err != nil {
				return "", errors.Wrap(err, "having")
			}
			sb.WriteString(" HAVING " + cond)
		}
	}

	if len(q.orderBy) > 0 {
		terms := make([]string, len(q.orderBy))
		for i, o := range q.orderBy {
			term, err := o.sql()
			if err != nil {
				return "", err
			}
			terms[i] = term
		}
		sb.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	}

	if q.hasLimit {
		if q.limit < 0 {
			return "", errors.Errorf("negative limit %d", q.limit)
		}
		sb.WriteString(" LIMIT " + strconv.Itoa(q.limit))
	}
	if q.hasOffset {
		if q.offset < 0 {
			return "", errors.Errorf("negative offset %d", q.offset)
		}
		sb.WriteString(" OFFSET " + strconv.Itoa(q.offset))
	}
	return sb.String(), nil
}

func (o Order) sql() (string, error) {
	if len(o.Columns) == 0 {
		return "", errors.New("order by term has no columns")
	}
	if err := checkNames("order by column", o.Columns); err != nil {
		return "", err
	}
	cols := strings.Join(o.Columns, ", ")
	switch dir := strings.ToUpper(o.Direction); dir {
	case "":
		return cols, nil
	case Ascending, Descending:
		return cols + " " + dir, nil
	}
	return "", errors.Errorf("unknown order direction %q", o.Direction)
}

func checkNames(what string, names []string) error {
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return errors.Errorf("empty %s name", what)
		}
	}
	return nil
}

// Build compiles and runs the query, and returns one record of type T for
// every result row, in the order the rows are returned.
//
// For every row a zero T is created and the columns of the row are written,
// by position, into the fields listed by its ColumnFields: the first field
// receives the first column after any skipped by [QueryBuilder.SkipColumns],
// and so on. Extra trailing columns are ignored.
//
// If compiling, executing or mapping any row fails, Build returns the error
// and no records.
func Build[T any, P interface {
	*T
	Table
}](ctx context.Context, q *QueryBuilder) ([]T, error) {
	if q.sessionErr != nil {
		return nil, q.sessionErr
	}
	if q.session == nil {
		return nil, connectionError(errors.New("query builder has no database"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	query, err := q.Compile()
	if err != nil {
		return nil, err
	}
	records, err := fetch[T, P](ctx, q, query)
	if err != nil {
		q.logger.Debug("query failed", "sql", query, "kind", kindOf(err).String(), "err", err)
		return nil, err
	}
	return records, nil
}

func fetch[T any, P interface {
	*T
	Table
}](ctx context.Context, q *QueryBuilder, query string) (records []T, err error) {
	q.logger.Debug("executing query", "sql", query)
	stmt, err := q.session.PrepareContext(ctx, query)
	if err != nil {
		return nil, executionError(errors.Wrap(err, "cannot prepare statement"))
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, executionError(err)
	}
	defer func() {
		if cerr := rows.Close(); err == nil && cerr != nil {
			records, err = nil, executionError(cerr)
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return nil, executionError(err)
	}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	records = make([]T, 0)
	for rowNum := 0; rows.Next(); rowNum++ {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, mappingError(errors.Wrapf(err, "row %d", rowNum))
		}
		var rec T
		if err := mapRow(P(&rec), cols, raw, q.skip); err != nil {
			return nil, mappingError(errors.Wrapf(err, "row %d", rowNum))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, executionError(err)
	}
	return records, nil
}

// mapRow writes the row values, starting at position skip, into the fields
// of rec in the order of rec.ColumnFields().
func mapRow(rec Table, cols []string, raw []any, skip int) error {
	fields := rec.ColumnFields()
	if len(raw) < skip+len(fields) {
		return errors.Errorf("record has %d fields but row has %d columns after skipping %d",
			len(fields), len(raw)-skip, skip)
	}
	for i, field := range fields {
		pos := skip + i
		v, err := value.Of(raw[pos])
		if err != nil {
			return errors.Wrapf(err, "column %d (%s)", pos, cols[pos])
		}
		if err := rec.SetColumnValue(field, v); err != nil {
			return errors.Wrapf(err, "column %d (%s) into field %q", pos, cols[pos], field)
		}
	}
	return nil
}
