// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"time"

	"github.com/canonical/sqltable/internal/value"
)

// Value is a single column value: NULL, integer, real, text, boolean, blob or
// time. The zero Value is NULL.
type Value = value.Value

// ValueKind identifies which variant a Value holds.
type ValueKind = value.Kind

const (
	KindNull    = value.KindNull
	KindInteger = value.KindInteger
	KindReal    = value.KindReal
	KindText    = value.KindText
	KindBoolean = value.KindBoolean
	KindBlob    = value.KindBlob
	KindTime    = value.KindTime
)

// Null returns the NULL value.
func Null() Value { return value.Null() }

// Int returns an integer value.
func Int(i int64) Value { return value.Int(i) }

// Real returns a floating point value.
func Real(f float64) Value { return value.Real(f) }

// Text returns a text value.
func Text(s string) Value { return value.Text(s) }

// Bool returns a boolean value.
func Bool(b bool) Value { return value.Bool(b) }

// Blob returns a blob value. A nil slice is NULL.
func Blob(b []byte) Value { return value.Blob(b) }

// Time returns a time value. Times are stored as UTC text.
func Time(t time.Time) Value { return value.Time(t) }

// ValueOf converts a Go value, or a value returned by a driver, into a Value.
// Types implementing driver.Valuer are converted through their driver value.
func ValueOf(x any) (Value, error) { return value.Of(x) }

// Literal returns the SQL literal that v is inlined as in generated
// statements. Text is single quoted with embedded quotes doubled.
func Literal(v Value) (string, error) {
	lit, err := value.Literal(v)
	if err != nil {
		return "", generationError(err)
	}
	return lit, nil
}
