// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package value

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Literal returns the SQL literal text for v.
func Literal(v Value) (string, error) {
	switch v.kind {
	case KindNull:
		return "NULL", nil
	case KindInteger:
		return strconv.FormatInt(v.i, 10), nil
	case KindReal:
		return realLiteral(v.f)
	case KindText:
		return quote(v.s), nil
	case KindBoolean:
		if v.i != 0 {
			return "TRUE", nil
		}
		return "FALSE", nil
	case KindBlob:
		return "X'" + strings.ToUpper(hex.EncodeToString(v.b)) + "'", nil
	case KindTime:
		return quote(v.t.In(time.UTC).Format(TimeFormat)), nil
	}
	return "", errors.Errorf("cannot render value of %s", v.kind)
}

// Literals renders every value in vs. The result has the same length and
// order as vs.
func Literals(vs []Value) ([]string, error) {
	lits := make([]string, len(vs))
	for i, v := range vs {
		lit, err := Literal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d", i)
		}
		lits[i] = lit
	}
	return lits, nil
}

// quote wraps s in single quotes, doubling any single quote inside it.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func realLiteral(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errors.Errorf("cannot render %v as a SQL literal", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep the literal a real so SQLite does not read it back as an integer.
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s, nil
}
