// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/canonical/sqltable/internal/value"
)

// InsertSQL returns the statement that inserts t:
//
//	INSERT INTO <name> (<col1>, <col2>, ...) VALUES (<v1>, <v2>, ...);
//
// Values are inlined as literals in the order of t.ColumnFields().
func InsertSQL(t Table) (string, error) {
	if t == nil {
		return "", generationError(errors.New("nil record"))
	}
	name := t.TableName()
	if name == "" {
		return "", generationError(errors.Errorf("%T has no table name", t))
	}
	fields := t.ColumnFields()
	values := t.ColumnValues()
	if len(fields) == 0 {
		return "", generationError(errors.Errorf("table %s has no columns", name))
	}
	if len(fields) != len(values) {
		return "", generationError(errors.Errorf(
			"table %s has %d columns but %d values", name, len(fields), len(values)))
	}
	for i, field := range fields {
		if field == "" {
			return "", generationError(errors.Errorf("table %s has an empty column name at position %d", name, i))
		}
	}
	lits, err := value.Literals(values)
	if err != nil {
		return "", generationError(errors.Wrapf(err, "table %s", name))
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(name)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(fields, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(lits, ", "))
	sb.WriteString(");")
	return sb.String(), nil
}
