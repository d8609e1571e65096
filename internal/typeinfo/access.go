// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/canonical/sqltable/internal/value"
)

// Get reads the field from the struct value s.
func (f Field) Get(s reflect.Value) value.Value {
	fv := s.Field(f.Index)
	switch f.Kind {
	case value.KindInteger:
		if fv.CanInt() {
			return value.Int(fv.Int())
		}
		return value.Int(int64(fv.Uint()))
	case value.KindReal:
		return value.Real(fv.Float())
	case value.KindText:
		return value.Text(fv.String())
	case value.KindBoolean:
		return value.Bool(fv.Bool())
	case value.KindBlob:
		return value.Blob(fv.Bytes())
	case value.KindTime:
		return value.Time(fv.Interface().(time.Time))
	}
	return value.Null()
}

// Set writes v into the field of the settable struct value s, converting
// between compatible kinds.
func (f Field) Set(s reflect.Value, v value.Value) error {
	fv := s.Field(f.Index)
	switch f.Kind {
	case value.KindInteger:
		i, err := v.AsInt()
		if err != nil {
			return err
		}
		if fv.CanInt() {
			if fv.OverflowInt(i) {
				return fmt.Errorf("value %d overflows %s", i, f.Type)
			}
			fv.SetInt(i)
			return nil
		}
		if i < 0 || fv.OverflowUint(uint64(i)) {
			return fmt.Errorf("value %d overflows %s", i, f.Type)
		}
		fv.SetUint(uint64(i))
	case value.KindReal:
		r, err := v.AsReal()
		if err != nil {
			return err
		}
		if fv.OverflowFloat(r) && !math.IsInf(r, 0) {
			return fmt.Errorf("value %v overflows %s", r, f.Type)
		}
		fv.SetFloat(r)
	case value.KindText:
		t, err := v.AsText()
		if err != nil {
			return err
		}
		fv.SetString(t)
	case value.KindBoolean:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case value.KindBlob:
		b, err := v.AsBlob()
		if err != nil {
			return err
		}
		fv.SetBytes(b)
	case value.KindTime:
		t, err := v.AsTime()
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(t))
	default:
		return fmt.Errorf("internal error: field %s has kind %s", f.Name, f.Kind)
	}
	return nil
}
