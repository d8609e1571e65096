// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/canonical/sqltable/internal/value"
)

var cacheMutex sync.RWMutex
var cache = make(map[reflect.Type]*Info)

var timeType = reflect.TypeOf(time.Time{})

// Field represents a single tagged field from a struct type.
type Field struct {
	Type reflect.Type

	// Name is the name of the struct field.
	Name string

	// Column is the column name from the field's "db" tag.
	Column string

	// Index of this field in the structure.
	Index int

	// Kind is the value kind the field is read as.
	Kind value.Kind
}

// Info represents reflected information about a struct type.
type Info struct {
	Type reflect.Type

	// Fields holds the tagged fields in declaration order.
	Fields []Field
}

// GetTypeInfo returns the Info of the struct type of value, or of the struct
// it points to, generating and caching it as required.
func GetTypeInfo(value any) (*Info, error) {
	if value == (any)(nil) {
		return nil, fmt.Errorf("cannot reflect nil value")
	}

	typ := reflect.TypeOf(value)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	cacheMutex.RLock()
	info, found := cache[typ]
	cacheMutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(typ)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	cache[typ] = info
	cacheMutex.Unlock()

	return info, nil
}

// generate produces the reflection information for a struct type.
func generate(typ reflect.Type) (*Info, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("need struct, got %s", typ.Kind())
	}

	info := Info{Type: typ}
	seen := make(map[string]bool)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		// Fields without a "db" tag are not columns.
		tag, ok := field.Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("field %q of %s is not exported", field.Name, typ.Name())
		}
		column, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("cannot parse tag for field %s.%s: %s", typ.Name(), field.Name, err)
		}
		if seen[column] {
			return nil, fmt.Errorf("column %q is tagged more than once in %s", column, typ.Name())
		}
		seen[column] = true
		kind, err := kindOf(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %s", typ.Name(), field.Name, err)
		}
		info.Fields = append(info.Fields, Field{
			Type:   field.Type,
			Name:   field.Name,
			Column: column,
			Index:  i,
			Kind:   kind,
		})
	}
	if len(info.Fields) == 0 {
		return nil, fmt.Errorf("no tagged fields in %s", typ.Name())
	}

	return &info, nil
}

// kindOf reports the value kind a field of type t is read and written as.
func kindOf(t reflect.Type) (value.Kind, error) {
	if t == timeType {
		return value.KindTime, nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return value.KindInteger, nil
	case reflect.Float32, reflect.Float64:
		return value.KindReal, nil
	case reflect.String:
		return value.KindText, nil
	case reflect.Bool:
		return value.KindBoolean, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return value.KindBlob, nil
		}
	}
	return 0, fmt.Errorf("unsupported type %s", t)
}

var validColNameRx = regexp.MustCompile(`^([a-zA-Z_])+([a-zA-Z_0-9])*$`)

// parseTag returns the column name of a "db" tag.
func parseTag(tag string) (string, error) {
	options := strings.Split(tag, ",")
	if len(options) > 1 {
		return "", fmt.Errorf("unexpected tag option %q", options[1])
	}

	name := options[0]
	if len(name) == 0 {
		return "", fmt.Errorf("empty db tag")
	}
	if !validColNameRx.MatchString(name) {
		return "", fmt.Errorf("invalid column name %q", name)
	}
	return name, nil
}
