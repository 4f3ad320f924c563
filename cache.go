// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package querykit

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/canonical/querykit/queryid"
)

// statementCache caches the sql.Stmt values prepared on one DB, indexed by the
// query ID of the expression they were rendered from. Two expressions with
// the same query ID render the same SQL, so the statement prepared for the
// first is reused for the second.
//
// The mutex must be locked when accessing either stmts or closed.
type statementCache struct {
	mutex  sync.RWMutex
	stmts  map[queryid.Descriptor]*sql.Stmt
	closed bool

	// group ensures that concurrent misses on one key prepare one
	// statement.
	group singleflight.Group

	// max is the maximum number of cached statements, zero means no limit.
	max     int
	logger  *slog.Logger
	metrics *Metrics
}

func newStatementCache(max int, logger *slog.Logger, metrics *Metrics) *statementCache {
	return &statementCache{
		stmts:   make(map[queryid.Descriptor]*sql.Stmt),
		max:     max,
		logger:  logger,
		metrics: metrics,
	}
}

// prepareSubstrate is an object that queries can be prepared on, e.g. a sql.DB
// or sql.Conn. It is used in prepare.
type prepareSubstrate interface {
	PrepareContext(context.Context, string) (*sql.Stmt, error)
}

func (sc *statementCache) get(key queryid.Descriptor) (*sql.Stmt, bool) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	sqlstmt, ok := sc.stmts[key]
	return sqlstmt, ok
}

// lookup returns the statement cached for key, if any.
func (sc *statementCache) lookup(key queryid.Descriptor) (*sql.Stmt, bool) {
	sqlstmt, ok := sc.get(key)
	if ok {
		sc.metrics.lookup(lookupHit)
		sc.logger.Debug("statement cache hit", "key", key.String())
	} else {
		sc.metrics.lookup(lookupMiss)
	}
	return sqlstmt, ok
}

// prepare returns the statement cached for key, preparing query on ps if
// there is none. The prepareSubstrate must be associated with the DB that
// owns the cache. A nil statement with a nil error means the cache is full
// and the query must be run unprepared.
func (sc *statementCache) prepare(ctx context.Context, ps prepareSubstrate, key queryid.Descriptor, query string) (*sql.Stmt, error) {
	if sqlstmt, ok := sc.get(key); ok {
		sc.metrics.lookup(lookupHit)
		sc.logger.Debug("statement cache hit", "key", key.String())
		return sqlstmt, nil
	}

	v, err, _ := sc.group.Do(key.String(), func() (any, error) {
		sc.mutex.RLock()
		sqlstmt, ok := sc.stmts[key]
		full := sc.isFull()
		sc.mutex.RUnlock()
		if ok {
			return sqlstmt, nil
		}
		if full {
			return (*sql.Stmt)(nil), nil
		}

		sqlstmt, err := ps.PrepareContext(ctx, query)
		if err != nil {
			return nil, errors.Wrap(err, "cannot prepare statement")
		}

		sc.mutex.Lock()
		defer sc.mutex.Unlock()
		// The cache may have been closed or filled by other keys while the
		// statement was being prepared.
		switch {
		case sc.closed:
			sc.closeStmt(key, sqlstmt)
			return nil, ErrClosed
		case sc.isFull():
			sc.closeStmt(key, sqlstmt)
			return (*sql.Stmt)(nil), nil
		}
		sc.stmts[key] = sqlstmt
		sc.metrics.size.Inc()
		sc.logger.Debug("statement prepared", "key", key.String())
		return sqlstmt, nil
	})
	if err != nil {
		return nil, err
	}
	sqlstmt := v.(*sql.Stmt)
	if sqlstmt == nil {
		sc.metrics.lookup(lookupBypass)
		sc.logger.Debug("statement cache bypassed", "key", key.String(), "reason", "full")
		return nil, nil
	}
	sc.metrics.lookup(lookupMiss)
	return sqlstmt, nil
}

// isFull must be called with the mutex held.
func (sc *statementCache) isFull() bool {
	return sc.max > 0 && len(sc.stmts) >= sc.max
}

func (sc *statementCache) isClosed() bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.closed
}

func (sc *statementCache) len() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return len(sc.stmts)
}

// close closes and forgets every cached statement. Later calls to prepare
// fail with ErrClosed.
func (sc *statementCache) close() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.closed = true
	for key, sqlstmt := range sc.stmts {
		sc.closeStmt(key, sqlstmt)
	}
	sc.metrics.size.Sub(float64(len(sc.stmts)))
	clear(sc.stmts)
}

func (sc *statementCache) closeStmt(key queryid.Descriptor, sqlstmt *sql.Stmt) {
	if err := sqlstmt.Close(); err != nil {
		sc.logger.Warn("cannot close statement", "key", key.String(), "err", err)
	}
}
