// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/canonical/sqltable/internal/typeinfo"
)

// Table is implemented by every record type that can be inserted and queried.
//
// ColumnFields and ColumnValues must have the same length and be positionally
// aligned. The order of ColumnFields is the order in which result columns are
// written back into a record by [Build].
type Table interface {
	// TableName returns the name of the table the record is stored in.
	TableName() string
	// ColumnFields returns the column names of the record in order.
	ColumnFields() []string
	// ColumnValues returns the current values of the columns in the order
	// of ColumnFields.
	ColumnValues() []Value
	// SetColumnValue writes v into the field backing the named column.
	SetColumnValue(field string, v Value) error
}

// Field binds a column name to accessors of the Go value backing it.
type Field struct {
	Name string
	Get  func() Value
	Set  func(Value) error
}

// Fields is an ordered column registry. A record type can implement [Table]
// by delegating to the registry of its fields:
//
//	func (p *Person) fields() sqltable.Fields {
//		return sqltable.Fields{
//			sqltable.IntField("id", &p.ID),
//			sqltable.TextField("name", &p.Name),
//		}
//	}
//
//	func (p *Person) TableName() string       { return "person" }
//	func (p *Person) ColumnFields() []string  { return p.fields().Names() }
//	func (p *Person) ColumnValues() []sqltable.Value { return p.fields().Values() }
//	func (p *Person) SetColumnValue(f string, v sqltable.Value) error {
//		return p.fields().Set(f, v)
//	}
type Fields []Field

// Names returns the column names in registry order.
func (fs Fields) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Values returns the current column values in registry order.
func (fs Fields) Values() []Value {
	values := make([]Value, len(fs))
	for i, f := range fs {
		values[i] = f.Get()
	}
	return values
}

// Set writes v into the named column.
func (fs Fields) Set(name string, v Value) error {
	for _, f := range fs {
		if f.Name == name {
			if err := f.Set(v); err != nil {
				return errors.Wrapf(err, "column %q", name)
			}
			return nil
		}
	}
	return errors.Errorf("no column %q", name)
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type float interface {
	~float32 | ~float64
}

// IntField binds an integer column to *p. NULL is read as zero.
func IntField[T integer](name string, p *T) Field {
	return Field{
		Name: name,
		Get:  func() Value { return Int(int64(*p)) },
		Set: func(v Value) error {
			i, err := v.AsInt()
			if err != nil {
				return err
			}
			if int64(T(i)) != i {
				return errors.Errorf("value %d overflows %T", i, *p)
			}
			*p = T(i)
			return nil
		},
	}
}

// RealField binds a real column to *p. Integers are widened.
func RealField[T float](name string, p *T) Field {
	return Field{
		Name: name,
		Get:  func() Value { return Real(float64(*p)) },
		Set: func(v Value) error {
			f, err := v.AsReal()
			if err != nil {
				return err
			}
			*p = T(f)
			return nil
		},
	}
}

// TextField binds a text column to *p.
func TextField(name string, p *string) Field {
	return Field{
		Name: name,
		Get:  func() Value { return Text(*p) },
		Set: func(v Value) error {
			s, err := v.AsText()
			if err != nil {
				return err
			}
			*p = s
			return nil
		},
	}
}

// BoolField binds a boolean column to *p. SQLite returns booleans as
// integers, which are true when non-zero.
func BoolField(name string, p *bool) Field {
	return Field{
		Name: name,
		Get:  func() Value { return Bool(*p) },
		Set: func(v Value) error {
			b, err := v.AsBool()
			if err != nil {
				return err
			}
			*p = b
			return nil
		},
	}
}

// BlobField binds a blob column to *p. A nil slice is stored as NULL.
func BlobField(name string, p *[]byte) Field {
	return Field{
		Name: name,
		Get:  func() Value { return Blob(*p) },
		Set: func(v Value) error {
			b, err := v.AsBlob()
			if err != nil {
				return err
			}
			*p = b
			return nil
		},
	}
}

// TimeField binds a time column to *p.
func TimeField(name string, p *time.Time) Field {
	return Field{
		Name: name,
		Get:  func() Value { return Time(*p) },
		Set: func(v Value) error {
			t, err := v.AsTime()
			if err != nil {
				return err
			}
			*p = t
			return nil
		},
	}
}

// Reflect derives the column registry of the struct ptr points to from the
// "db" tags of its fields, in declaration order. Fields without a tag, or
// tagged "-", are not columns.
//
//	type Person struct {
//		ID   int64  `db:"id"`
//		Name string `db:"name"`
//	}
func Reflect(ptr any) (Fields, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, errors.Errorf("need non-nil pointer to struct, got %T", ptr)
	}
	info, err := typeinfo.GetTypeInfo(ptr)
	if err != nil {
		return nil, err
	}
	s := v.Elem()
	fields := make(Fields, len(info.Fields))
	for i, f := range info.Fields {
		f := f
		fields[i] = Field{
			Name: f.Column,
			Get:  func() Value { return f.Get(s) },
			Set:  func(v Value) error { return f.Set(s, v) },
		}
	}
	return fields, nil
}
