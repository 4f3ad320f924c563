// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package querykit

import (
	"context"
	"database/sql"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/canonical/querykit/expr"
	"github.com/canonical/querykit/internal/typeinfo"
	"github.com/canonical/querykit/queryid"
)

var (
	ErrNoRows = sql.ErrNoRows
	ErrTXDone = sql.ErrTxDone
	ErrClosed = errors.New("database is closed")
)

// dbIDCount is used to generate unique IDs for log records.
var dbIDCount int64

// DB wraps a [sql.DB] with a cache of prepared statements keyed by the
// identity of the expressions run on it.
type DB struct {
	// cacheID identifies the database in log records.
	cacheID int64
	sqldb   *sql.DB
	cache   *statementCache
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics

	closeOnce sync.Once
	closeErr  error
}

// NewDB creates a new [DB] from a [sql.DB] with the default configuration.
func NewDB(sqldb *sql.DB) *DB {
	return NewDBWithConfig(sqldb, DefaultConfig())
}

// NewDBWithConfig creates a new [DB] from a [sql.DB]. The DB owns sqldb: it is
// closed by [DB.Close], or when the DB is garbage collected.
func NewDBWithConfig(sqldb *sql.DB, cfg Config) *DB {
	if sqldb == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = defaultMetrics
	}
	cacheID := atomic.AddInt64(&dbIDCount, 1)
	logger = logger.With("db", cacheID)
	db := &DB{
		cacheID: cacheID,
		sqldb:   sqldb,
		cache:   newStatementCache(cfg.MaxStatements, logger, metrics),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
	runtime.SetFinalizer(db, (*DB).Close)
	return db
}

// PlainDB returns the wrapped [sql.DB], for statements that are not
// expressions, such as schema changes.
func (db *DB) PlainDB() *sql.DB {
	return db.sqldb
}

// Close closes every statement prepared by the DB, then the underlying
// database. It is safe to call Close more than once.
func (db *DB) Close() error {
	db.closeOnce.Do(func() {
		runtime.SetFinalizer(db, nil)
		db.cache.close()
		db.closeErr = db.sqldb.Close()
	})
	return db.closeErr
}

// CacheLen returns the number of prepared statements cached on the DB.
func (db *DB) CacheLen() int {
	return db.cache.len()
}

// cacheable reports whether the statement for an expression may be taken from
// or added to the cache, recording a bypass if not.
func (db *DB) cacheable(key queryid.Descriptor, static bool, rendered expr.Rendered) bool {
	var reason string
	switch {
	case !static:
		reason = "dynamic"
	case !rendered.Cacheable:
		reason = "unsafe"
	case db.cfg.DisableCache:
		reason = "disabled"
	default:
		return true
	}
	db.metrics.lookup(lookupBypass)
	db.logger.Debug("statement cache bypassed", "key", key.String(), "reason", reason)
	return false
}

// Query is a rendered expression bound to a DB or a TX. Rendering errors are
// held until the query is run.
type Query struct {
	run         func(context.Context) (*sql.Rows, sql.Result, error)
	ctx         context.Context
	err         error
	returnsRows bool
}

// Query renders e. Nothing touches the database until the query is run.
//
// If e has a static query ID and its SQL is safe to cache, the query runs on
// a statement prepared once per DB and reused by every later expression with
// the same ID. Otherwise it runs unprepared.
func (db *DB) Query(ctx context.Context, e expr.Expression) *Query {
	return newQuery(ctx, e, db.runner)
}

type runFunc = func(context.Context) (*sql.Rows, sql.Result, error)

// newQuery renders e and identifies it, then lets bind decide how the
// rendered SQL runs.
func newQuery(ctx context.Context, e expr.Expression, bind func(queryid.Descriptor, bool, expr.Rendered, bool) runFunc) *Query {
	if ctx == nil {
		ctx = context.Background()
	}
	rendered, err := expr.Render(e)
	if err != nil {
		return &Query{ctx: ctx, err: err}
	}
	key, static := queryid.Of(e)
	returnsRows := expr.ReturnsRows(e)
	return &Query{run: bind(key, static, rendered, returnsRows), ctx: ctx, returnsRows: returnsRows}
}

func (db *DB) runner(key queryid.Descriptor, static bool, rendered expr.Rendered, returnsRows bool) runFunc {
	return func(innerCtx context.Context) (*sql.Rows, sql.Result, error) {
		if db.cache.isClosed() {
			return nil, nil, ErrClosed
		}
		if db.cacheable(key, static, rendered) {
			sqlstmt, err := db.cache.prepare(innerCtx, db.sqldb, key, rendered.SQL)
			if err != nil {
				return nil, nil, err
			}
			if sqlstmt != nil {
				return runStmt(innerCtx, sqlstmt, returnsRows, rendered.Args)
			}
		}
		return runPlain(innerCtx, db.sqldb, rendered.SQL, returnsRows, rendered.Args)
	}
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func runPlain(ctx context.Context, q querier, query string, returnsRows bool, args []any) (rows *sql.Rows, result sql.Result, err error) {
	if returnsRows {
		rows, err = q.QueryContext(ctx, query, args...)
	} else {
		result, err = q.ExecContext(ctx, query, args...)
	}
	return rows, result, err
}

func runStmt(ctx context.Context, sqlstmt *sql.Stmt, returnsRows bool, args []any) (rows *sql.Rows, result sql.Result, err error) {
	if returnsRows {
		rows, err = sqlstmt.QueryContext(ctx, args...)
	} else {
		result, err = sqlstmt.ExecContext(ctx, args...)
	}
	return rows, result, err
}

// Run runs the query and discards any rows.
func (q *Query) Run() error {
	return q.Get()
}

// Get runs the query and scans the first row into outputArgs: one pointer
// per column, or a single struct pointer filled by "db" tag. With no row,
// Get returns [ErrNoRows] unless outputArgs is empty.
//
// outputArgs may start with an *[Outcome].
func (q *Query) Get(outputArgs ...any) error {
	if q.err != nil {
		return q.err
	}
	outcome, outputArgs := splitOutcome(outputArgs)
	if err := q.checkOutputs(outputArgs); err != nil {
		return err
	}

	var err error
	iter := q.Iter()
	if outcome != nil {
		err = iter.Get(outcome)
	}
	if err == nil && !iter.Next() {
		err = iter.Close()
		if err == nil && len(outputArgs) > 0 {
			err = ErrNoRows
		}
		return err
	}
	if err == nil {
		err = iter.Get(outputArgs...)
	}
	if cerr := iter.Close(); err == nil {
		err = cerr
	}
	return err
}

// splitOutcome separates a leading *Outcome from the output arguments.
func splitOutcome(args []any) (*Outcome, []any) {
	if len(args) > 0 {
		if oc, ok := args[0].(*Outcome); ok {
			return oc, args[1:]
		}
	}
	return nil, args
}

func (q *Query) checkOutputs(outputArgs []any) error {
	if !q.returnsRows && len(outputArgs) > 0 {
		return errors.New("cannot get results: output variables provided but query returns no rows")
	}
	return nil
}

// Iter runs the query. The returned [Iterator] must be closed.
func (q *Query) Iter() *Iterator {
	if q.err != nil {
		return &Iterator{err: q.err}
	}

	var cols []string
	rows, result, err := q.run(q.ctx)
	if err == nil && rows != nil {
		cols, err = rows.Columns()
		if err != nil {
			rows.Close()
			rows = nil
		}
	}
	if err != nil {
		return &Iterator{err: err}
	}

	return &Iterator{rows: rows, cols: cols, result: result}
}

// Iterator walks the rows of a query.
type Iterator struct {
	rows    *sql.Rows
	cols    []string
	err     error
	result  sql.Result
	started bool
}

// Next advances to the next row. It returns false at the end of the rows or
// on error, which is then reported by [Iterator.Close].
func (iter *Iterator) Next() bool {
	iter.started = true
	if iter.err != nil || iter.rows == nil {
		return false
	}
	return iter.rows.Next()
}

// Get scans the current row, see [Query.Get] for the accepted outputs. Before
// the first Next, Get only accepts a single *[Outcome].
func (iter *Iterator) Get(outputArgs ...any) (err error) {
	if iter.err != nil {
		return iter.err
	}
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "cannot get result")
		}
	}()

	if !iter.started {
		if len(outputArgs) == 1 {
			if oc, ok := outputArgs[0].(*Outcome); ok {
				oc.result = iter.result
				return nil
			}
		}
		return errors.New("cannot call Get before Next unless getting outcome")
	}

	if iter.rows == nil {
		return errors.New("iteration ended")
	}

	ptrs, err := scanArgs(iter.cols, outputArgs)
	if err != nil {
		return err
	}
	return iter.rows.Scan(ptrs...)
}

// scanArgs returns the scan destinations for a row with the columns cols.
func scanArgs(cols []string, outputArgs []any) ([]any, error) {
	if len(outputArgs) != 1 {
		return outputArgs, nil
	}
	v := reflect.ValueOf(outputArgs[0])
	if v.Kind() != reflect.Pointer || v.IsNil() || !typeinfo.IsRecord(v.Type().Elem()) {
		return outputArgs, nil
	}
	return typeinfo.ScanTargets(v.Elem(), cols)
}

// Close releases the rows and reports the first error seen while iterating.
// Later calls return the same error.
func (iter *Iterator) Close() error {
	iter.started = true
	if iter.rows == nil {
		return iter.err
	}
	err := iter.rows.Err()
	if cerr := iter.rows.Close(); err == nil {
		err = cerr
	}
	iter.rows = nil
	if iter.err != nil {
		return iter.err
	}
	iter.err = err
	return err
}

// Outcome receives the [sql.Result] of a statement that returns no rows.
type Outcome struct {
	result sql.Result
}

// Result is nil for queries that return rows.
func (o *Outcome) Result() sql.Result {
	return o.result
}

// GetAll runs the query and replaces the contents of the slice args points
// to with every row. The element type is a struct or struct pointer filled by
// "db" tag, or a scalar for single column results. args may start with an
// *[Outcome]. With a slice and no rows GetAll returns [ErrNoRows].
func (q *Query) GetAll(args ...any) (err error) {
	if q.err != nil {
		return q.err
	}

	outcome, args := splitOutcome(args)
	if err := q.checkOutputs(args); err != nil {
		return err
	}
	if len(args) > 1 {
		return errors.Errorf("need one slice to scan into, got %d", len(args))
	}

	var ptrVal, sliceVal reflect.Value
	if len(args) == 1 {
		ptrVal = reflect.ValueOf(args[0])
		if ptrVal.Kind() != reflect.Pointer {
			return errors.Errorf("need pointer to slice, got %s", ptrVal.Kind())
		}
		if ptrVal.IsNil() {
			return errors.New("need pointer to slice, got nil")
		}
		sliceVal = ptrVal.Elem()
		if sliceVal.Kind() != reflect.Slice {
			return errors.Errorf("need pointer to slice, got pointer to %s", sliceVal.Kind())
		}
		sliceVal = reflect.MakeSlice(sliceVal.Type(), 0, 0)
	}

	iter := q.Iter()
	if outcome != nil {
		if err := iter.Get(outcome); err != nil {
			iter.Close()
			return err
		}
	}
	rowsReturned := false
	for iter.Next() {
		rowsReturned = true
		if !sliceVal.IsValid() {
			continue
		}
		elemType := sliceVal.Type().Elem()
		isPtr := elemType.Kind() == reflect.Pointer
		if isPtr {
			elemType = elemType.Elem()
		}
		elem := reflect.New(elemType)
		if err := iter.Get(elem.Interface()); err != nil {
			iter.Close()
			return err
		}
		if isPtr {
			sliceVal = reflect.Append(sliceVal, elem)
		} else {
			sliceVal = reflect.Append(sliceVal, elem.Elem())
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if !rowsReturned && sliceVal.IsValid() {
		return ErrNoRows
	}
	if sliceVal.IsValid() {
		ptrVal.Elem().Set(sliceVal)
	}
	return nil
}

// TX is a transaction begun with [DB.Begin].
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

// Begin starts a transaction, to be ended by [TX.Commit] or [TX.Rollback].
func (db *DB) Begin(ctx context.Context, opts *TXOptions) (*TX, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if db.cache.isClosed() {
		return nil, ErrClosed
	}
	sqltx, err := db.sqldb.BeginTx(ctx, opts.plainTXOptions())
	if err != nil {
		return nil, errors.Wrap(err, "cannot begin transaction")
	}
	return &TX{sqltx: sqltx, db: db}, nil
}

// Commit returns [ErrTXDone] if the transaction already ended.
func (tx *TX) Commit() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Commit()
	}
	return err
}

// Rollback returns [ErrTXDone] if the transaction already ended.
func (tx *TX) Rollback() error {
	err := tx.setDone()
	if err == nil {
		err = tx.sqltx.Rollback()
	}
	return err
}

// TXOptions mirrors [sql.TxOptions]. A nil *TXOptions uses the driver
// defaults.
type TXOptions struct {
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

func (txopts *TXOptions) plainTXOptions() *sql.TxOptions {
	if txopts == nil {
		return nil
	}
	return &sql.TxOptions{Isolation: txopts.Isolation, ReadOnly: txopts.ReadOnly}
}

// Query renders e for the transaction.
//
// A query on a transaction reuses a statement already prepared on the DB for
// the same query ID, but never prepares a new one.
func (tx *TX) Query(ctx context.Context, e expr.Expression) *Query {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx.isDone() {
		return &Query{ctx: ctx, err: ErrTXDone}
	}
	return newQuery(ctx, e, tx.runner)
}

func (tx *TX) runner(key queryid.Descriptor, static bool, rendered expr.Rendered, returnsRows bool) runFunc {
	db := tx.db
	return func(innerCtx context.Context) (*sql.Rows, sql.Result, error) {
		if db.cacheable(key, static, rendered) {
			if sqlstmt, ok := db.cache.lookup(key); ok {
				// database/sql closes txstmt when the transaction ends.
				txstmt := tx.sqltx.StmtContext(innerCtx, sqlstmt)
				return runStmt(innerCtx, txstmt, returnsRows, rendered.Args)
			}
		}
		return runPlain(innerCtx, tx.sqltx, rendered.SQL, returnsRows, rendered.Args)
	}
}
