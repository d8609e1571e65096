// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package sqltable

import (
	"context"
	"database/sql"
	"log/slog"
	"sync/atomic"

	"github.com/pkg/errors"
)

// DB wraps a database/sql DB. Every operation borrows a connection from the
// underlying pool for the duration of one statement or transaction, so a DB
// can be used for any number of inserts and queries.
type DB struct {
	sqldb     *sql.DB
	logger    *slog.Logger
	txOptions *TXOptions
}

// Option configures a [DB].
type Option func(*DB)

// WithLogger sets the logger that generated statements are reported to.
// The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// WithTXOptions sets the options of the transaction opened by [DB.Insert].
func WithTXOptions(opts *TXOptions) Option {
	return func(db *DB) {
		db.txOptions = opts
	}
}

// NewDB creates a new [DB] from a [sql.DB].
func NewDB(sqldb *sql.DB, opts ...Option) *DB {
	if sqldb == nil {
		return nil
	}
	db := &DB{sqldb: sqldb, logger: slog.Default()}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// PlainDB returns the underlying database object.
func (db *DB) PlainDB() *sql.DB {
	return db.sqldb
}

func (db *DB) valid() error {
	if db == nil || db.sqldb == nil {
		return connectionError(errors.New("nil database"))
	}
	return nil
}

// Query returns a new [QueryBuilder] that runs on the database.
func (db *DB) Query() *QueryBuilder {
	q := &QueryBuilder{}
	if err := db.valid(); err != nil {
		q.sessionErr = err
		return q
	}
	q.session = db.sqldb
	q.logger = db.logger
	return q
}

// Insert inserts t in its own transaction. The transaction is committed only
// if the statement succeeds and is rolled back otherwise.
func (db *DB) Insert(ctx context.Context, t Table) error {
	if err := db.valid(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	query, err := InsertSQL(t)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx, db.txOptions)
	if err != nil {
		return err
	}
	defer func() {
		// A no-op once the transaction is committed.
		_ = tx.Rollback()
	}()

	if err := run(ctx, tx.sqltx, db.logger, query); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return executionError(errors.Wrap(err, "cannot commit insert"))
	}
	db.logger.Info("inserted record", "table", t.TableName())
	return nil
}

// TX represents a transaction on the database.
type TX struct {
	sqltx *sql.Tx
	db    *DB
	done  int32
}

func (tx *TX) isDone() bool {
	return atomic.LoadInt32(&tx.done) == 1
}

func (tx *TX) setDone() error {
	if !atomic.CompareAndSwapInt32(&tx.done, 0, 1) {
		return ErrTXDone
	}
	return nil
}

// Begin starts a transaction. A transaction must be ended with a
// [TX.Commit] or [TX.Rollback].
func (db *DB) Begin(ctx context.Context, opts *TXOptions) (*TX, error) {
	if err := db.valid(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sqltx, err := db.sqldb.BeginTx(ctx, opts.plainTXOptions())
	if err != nil {
		return nil, connectionError(errors.Wrap(err, "cannot begin transaction"))
	}
	return &TX{sqltx: sqltx, db: db}, nil
}

// Commit commits the transaction.
func (tx *TX) Commit() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Commit()
	}
	return err
}

// Rollback aborts the transaction.
func (tx *TX) Rollback() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Rollback()
	}
	return err
}

// Insert inserts t within the transaction. The caller remains responsible
// for committing or rolling back.
func (tx *TX) Insert(ctx context.Context, t Table) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx.isDone() {
		return connectionError(ErrTXDone)
	}
	query, err := InsertSQL(t)
	if err != nil {
		return err
	}
	if err := run(ctx, tx.sqltx, tx.db.logger, query); err != nil {
		return err
	}
	tx.db.logger.Info("inserted record", "table", t.TableName())
	return nil
}

// Query returns a new [QueryBuilder] that runs within the transaction.
func (tx *TX) Query() *QueryBuilder {
	q := &QueryBuilder{logger: tx.db.logger}
	if tx.isDone() {
		q.sessionErr = connectionError(ErrTXDone)
		return q
	}
	q.session = tx.sqltx
	return q
}

// TXOptions holds the transaction options to be used in [DB.Begin].
type TXOptions struct {
	// Isolation is the transaction isolation level.
	// If zero, the driver or database's default level is used.
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

func (txopts *TXOptions) plainTXOptions() *sql.TxOptions {
	if txopts == nil {
		return nil
	}
	return &sql.TxOptions{Isolation: txopts.Isolation, ReadOnly: txopts.ReadOnly}
}

// prepareSubstrate is an object that statements can be prepared on, e.g. a
// sql.DB or sql.Tx.
type prepareSubstrate interface {
	PrepareContext(context.Context, string) (*sql.Stmt, error)
}

// run prepares and executes a statement that returns no rows. No parameters
// are bound; every value is inlined in the statement text.
func run(ctx context.Context, ps prepareSubstrate, logger *slog.Logger, query string) error {
	logger.Debug("executing statement", "sql", query)
	stmt, err := ps.PrepareContext(ctx, query)
	if err != nil {
		return executionError(errors.Wrap(err, "cannot prepare statement"))
	}
	defer stmt.Close()
	if _, err := stmt.ExecContext(ctx); err != nil {
		return executionError(err)
	}
	return nil
}
