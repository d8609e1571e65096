// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"database/sql"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failures reported by sqltable.
type ErrorKind int

const (
	// StatementGenerationError reports builder state or record values that
	// cannot be turned into SQL text.
	StatementGenerationError ErrorKind = iota + 1
	// ExecutionError reports a driver failure to prepare, execute or commit.
	ExecutionError
	// RowMappingError reports a result row that cannot be written into a
	// record.
	RowMappingError
	// ConnectionError reports an unusable database handle or transaction.
	ConnectionError
)

func (k ErrorKind) String() string {
	switch k {
	case StatementGenerationError:
		return "cannot generate statement"
	case ExecutionError:
		return "cannot execute statement"
	case RowMappingError:
		return "cannot map row"
	case ConnectionError:
		return "connection unavailable"
	}
	return "unknown error"
}

// Error is the error type returned by every sqltable operation.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrStatementGeneration = &Error{Kind: StatementGenerationError}
	ErrExecution           = &Error{Kind: ExecutionError}
	ErrRowMapping          = &Error{Kind: RowMappingError}
	ErrConnection          = &Error{Kind: ConnectionError}
)

// ErrTXDone is returned when an operation is attempted on a transaction that
// has already been committed or rolled back.
var ErrTXDone = sql.ErrTxDone

func generationError(err error) error {
	return &Error{Kind: StatementGenerationError, Err: err}
}

func executionError(err error) error {
	return &Error{Kind: ExecutionError, Err: err}
}

func mappingError(err error) error {
	return &Error{Kind: RowMappingError, Err: err}
}

func connectionError(err error) error {
	return &Error{Kind: ConnectionError, Err: err}
}

// kindOf returns the kind of the first *Error in err's chain.
func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
