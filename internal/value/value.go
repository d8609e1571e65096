// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package value

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBoolean
	KindBlob
	KindTime
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindInteger: "integer",
	KindReal:    "real",
	KindText:    "text",
	KindBoolean: "boolean",
	KindBlob:    "blob",
	KindTime:    "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// TimeFormat is the layout used to render and parse time values as text. It
// matches the first layout the SQLite driver tries when reading timestamps.
const TimeFormat = "2006-01-02 15:04:05.999999999-07:00"

var timeFormats = []string{
	TimeFormat,
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Value is a single column value. The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
	t    time.Time
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Real returns a floating point value.
func Real(f float64) Value { return Value{kind: KindReal, f: f} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.i = 1
	}
	return v
}

// Blob returns a blob value holding a copy of b. A nil slice is NULL.
func Blob(b []byte) Value {
	if b == nil {
		return Null()
	}
	return Value{kind: KindBlob, b: append([]byte{}, b...)}
}

// Time returns a time value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Of converts a Go or driver value into a Value.
func Of(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return ofUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return ofUint(x)
	case float32:
		return Real(float64(x)), nil
	case float64:
		return Real(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Blob(x), nil
	case bool:
		return Bool(x), nil
	case time.Time:
		return Time(x), nil
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return Value{}, errors.Wrapf(err, "cannot get driver value of %T", x)
		}
		if _, ok := dv.(driver.Valuer); ok {
			return Value{}, errors.Errorf("driver value of %T is itself a driver.Valuer", x)
		}
		return Of(dv)
	}
	return Value{}, errors.Errorf("unsupported value type %T", x)
}

func ofUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, errors.Errorf("unsigned value %d overflows integer", u)
	}
	return Int(int64(u)), nil
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Interface returns v as a plain Go value: nil, int64, float64, string, bool,
// []byte or time.Time.
func (v Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return v.f
	case KindText:
		return v.s
	case KindBoolean:
		return v.i != 0
	case KindBlob:
		return v.b
	case KindTime:
		return v.t
	}
	return nil
}

// AsInt returns the value as an integer. Booleans convert to 0 or 1.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindInteger, KindBoolean:
		return v.i, nil
	}
	return 0, v.mismatch(KindInteger)
}

// AsReal returns the value as a float. Integers are widened.
func (v Value) AsReal() (float64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindReal:
		return v.f, nil
	case KindInteger:
		return float64(v.i), nil
	}
	return 0, v.mismatch(KindReal)
}

// AsText returns the value as a string. Blobs are reinterpreted as text.
func (v Value) AsText() (string, error) {
	switch v.kind {
	case KindNull:
		return "", nil
	case KindText:
		return v.s, nil
	case KindBlob:
		return string(v.b), nil
	}
	return "", v.mismatch(KindText)
}

// AsBool returns the value as a boolean. Integers are true when non-zero.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindNull:
		return false, nil
	case KindBoolean, KindInteger:
		return v.i != 0, nil
	}
	return false, v.mismatch(KindBoolean)
}

// AsBlob returns the value as a byte slice. Text is converted to its bytes.
func (v Value) AsBlob() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBlob:
		return append([]byte{}, v.b...), nil
	case KindText:
		return []byte(v.s), nil
	}
	return nil, v.mismatch(KindBlob)
}

// AsTime returns the value as a time. Text is parsed with the layouts SQLite
// uses for timestamps.
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case KindNull:
		return time.Time{}, nil
	case KindTime:
		return v.t, nil
	case KindText:
		for _, layout := range timeFormats {
			if t, err := time.ParseInLocation(layout, v.s, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.Errorf("cannot parse %q as time", v.s)
	}
	return time.Time{}, v.mismatch(KindTime)
}

func (v Value) mismatch(want Kind) error {
	return errors.Errorf("cannot convert %s value to %s", v.kind, want)
}

// String returns a textual representation of the value meant for debugging
// purposes.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "Null"
	case KindBlob:
		return fmt.Sprintf("Blob[%x]", v.b)
	case KindTime:
		return "Time[" + v.t.Format(TimeFormat) + "]"
	}
	return fmt.Sprintf("%s[%v]", capitalize(v.kind.String()), v.Interface())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
