// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/canonical/sqltable/internal/value"
)

// Operator is a comparison operator of a condition leaf.
type Operator string

const (
	OpEq   Operator = "="
	OpNe   Operator = "<>"
	OpLt   Operator = "<"
	OpLe   Operator = "<="
	OpGt   Operator = ">"
	OpGe   Operator = ">="
	OpLike Operator = "LIKE"
)

type nodeKind int

const (
	nodeInvalid nodeKind = iota
	nodeCompare
	nodeAnd
	nodeOr
	nodeNot
)

// Condition is a predicate used in WHERE and HAVING clauses. Leaves compare
// a column with a value; interior nodes combine two conditions with AND or
// OR. Conditions are immutable and may be reused in several clauses and
// builders. The zero Condition is invalid.
type Condition struct {
	kind   nodeKind
	column string
	op     Operator
	value  Value
	left   *Condition
	right  *Condition
}

// Compare returns the leaf condition "column op v".
func Compare(column string, op Operator, v Value) Condition {
	return Condition{kind: nodeCompare, column: column, op: op, value: v}
}

// Eq returns "column = v". A NULL value renders as "column IS NULL".
func Eq(column string, v Value) Condition { return Compare(column, OpEq, v) }

// Ne returns "column <> v". A NULL value renders as "column IS NOT NULL".
func Ne(column string, v Value) Condition { return Compare(column, OpNe, v) }

// Lt returns "column < v".
func Lt(column string, v Value) Condition { return Compare(column, OpLt, v) }

// Le returns "column <= v".
func Le(column string, v Value) Condition { return Compare(column, OpLe, v) }

// Gt returns "column > v".
func Gt(column string, v Value) Condition { return Compare(column, OpGt, v) }

// Ge returns "column >= v".
func Ge(column string, v Value) Condition { return Compare(column, OpGe, v) }

// Like returns "column LIKE pattern".
func Like(column string, pattern string) Condition {
	return Compare(column, OpLike, Text(pattern))
}

// And combines the conditions with AND, folding from the left:
// And(a, b, c) is ((a AND b) AND c).
func And(a, b Condition, more ...Condition) Condition {
	return fold(nodeAnd, a, b, more)
}

// Or combines the conditions with OR, folding from the left.
func Or(a, b Condition, more ...Condition) Condition {
	return fold(nodeOr, a, b, more)
}

// Not negates c.
func Not(c Condition) Condition {
	return Condition{kind: nodeNot, left: &c}
}

// And returns And(c, other).
func (c Condition) And(other Condition) Condition { return And(c, other) }

// Or returns Or(c, other).
func (c Condition) Or(other Condition) Condition { return Or(c, other) }

func fold(kind nodeKind, a, b Condition, more []Condition) Condition {
	c := Condition{kind: kind, left: &a, right: &b}
	for i := range more {
		prev, next := c, more[i]
		c = Condition{kind: kind, left: &prev, right: &next}
	}
	return c
}

// SQL renders the condition as a boolean SQL expression. Combined conditions
// are parenthesised so that the tree's grouping holds whatever surrounds the
// expression.
func (c Condition) SQL() (string, error) {
	s, err := c.render()
	if err != nil {
		return "", generationError(err)
	}
	return s, nil
}

func (c Condition) render() (string, error) {
	var sb strings.Builder
	if err := c.write(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// String returns the rendered condition, or a description of why it cannot
// be rendered, for debugging purposes.
func (c Condition) String() string {
	s, err := c.SQL()
	if err != nil {
		return "Condition[" + err.Error() + "]"
	}
	return s
}

func (c Condition) write(sb *strings.Builder) error {
	switch c.kind {
	case nodeCompare:
		return c.writeCompare(sb)
	case nodeAnd, nodeOr:
		op := " AND "
		if c.kind == nodeOr {
			op = " OR "
		}
		sb.WriteString("(")
		if err := c.left.write(sb); err != nil {
			return err
		}
		sb.WriteString(op)
		if err := c.right.write(sb); err != nil {
			return err
		}
		sb.WriteString(")")
		return nil
	case nodeNot:
		sb.WriteString("NOT (")
		if err := c.left.write(sb); err != nil {
			return err
		}
		sb.WriteString(")")
		return nil
	}
	return errors.New("empty condition")
}

func (c Condition) writeCompare(sb *strings.Builder) error {
	if c.column == "" {
		return errors.New("condition has no column")
	}
	if c.value.IsNull() {
		switch c.op {
		case OpEq:
			sb.WriteString(c.column + " IS NULL")
			return nil
		case OpNe:
			sb.WriteString(c.column + " IS NOT NULL")
			return nil
		}
	}
	switch c.op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpLike:
	default:
		return errors.Errorf("unknown operator %q", string(c.op))
	}
	lit, err := value.Literal(c.value)
	if err != nil {
		return errors.Wrapf(err, "condition on %s", c.column)
	}
	sb.WriteString(c.column + " " + string(c.op) + " " + lit)
	return nil
}
