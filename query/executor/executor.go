// Package executor runs rendered statements against a database and maps the
// results for display or into structs.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/satishbabariya/sqlbuilder/internal/debug"
	"github.com/satishbabariya/sqlbuilder/query/cache"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

// DefaultSlowThreshold is the duration above which a statement is logged as slow.
const DefaultSlowThreshold = 100 * time.Millisecond

// Executor executes statements built with placeholders
type Executor struct {
	db            *sqlx.DB
	provider      string
	slowThreshold time.Duration
	cacheSize     int
	stmts         *cache.LRU[*sql.Stmt]
	stats         *QueryStats
}

// Option configures an Executor.
type Option func(*Executor)

// WithSlowThreshold sets the threshold for slow statement detection.
func WithSlowThreshold(d time.Duration) Option {
	return func(e *Executor) {
		e.slowThreshold = d
	}
}

// WithStatementCache keeps up to size prepared statements. Zero disables
// statement preparation.
func WithStatementCache(size int) Option {
	return func(e *Executor) {
		e.cacheSize = size
	}
}

// DriverName maps a provider name to its database/sql driver name.
func DriverName(provider string) (string, error) {
	switch strings.ToLower(provider) {
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported provider: %q", provider)
	}
}

// Open opens a connection pool for provider and verifies it with a ping.
// The driver must be registered by the caller.
func Open(ctx context.Context, provider, dsn string, opts ...Option) (*Executor, error) {
	driver, err := DriverName(provider)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db, provider, opts...)
}

// New wraps an existing connection pool
func New(db *sql.DB, provider string, opts ...Option) (*Executor, error) {
	driver, err := DriverName(provider)
	if err != nil {
		return nil, err
	}
	e := &Executor{
		db:            sqlx.NewDb(db, driver),
		provider:      provider,
		slowThreshold: DefaultSlowThreshold,
		stats:         &QueryStats{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		e.stmts = cache.New[*sql.Stmt](e.cacheSize, 0, func(_ string, stmt *sql.Stmt) {
			if err := stmt.Close(); err != nil {
				debug.Warn("failed to close prepared statement", "error", err)
			}
		})
	}
	return e, nil
}

// Provider returns the provider the executor was created for
func (e *Executor) Provider() string {
	return e.provider
}

// Rebind rewrites "?" placeholders into the bindvar style of the provider.
func (e *Executor) Rebind(query string) string {
	return e.db.Rebind(query)
}

// Exec executes a statement that returns no rows
func (e *Executor) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	query = e.Rebind(query)
	start := time.Now()

	var (
		res sql.Result
		err error
	)
	if stmt, perr := e.prepare(ctx, query); perr != nil {
		err = perr
	} else if stmt != nil {
		res, err = stmt.ExecContext(ctx, args...)
	} else {
		res, err = e.db.ExecContext(ctx, query, args...)
	}

	e.record(query, args, start, err, false)
	if err != nil {
		return nil, fmt.Errorf("statement execution failed: %w", err)
	}
	return res, nil
}

// Query executes a statement that returns rows. The caller closes the rows.
func (e *Executor) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	query = e.Rebind(query)
	start := time.Now()

	var (
		rows *sql.Rows
		err  error
	)
	if stmt, perr := e.prepare(ctx, query); perr != nil {
		err = perr
	} else if stmt != nil {
		rows, err = stmt.QueryContext(ctx, args...)
	} else {
		rows, err = e.db.QueryContext(ctx, query, args...)
	}

	e.record(query, args, start, err, true)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}

// Run executes a rendered statement, as a query when it is a SELECT and as
// an exec otherwise.
func (e *Executor) Run(ctx context.Context, q *sqlgen.Query) (*Result, error) {
	if isQuery(q.SQL) {
		return e.QueryMaps(ctx, q.SQL, q.Args...)
	}
	res, err := e.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return &Result{RowsAffected: affected}, nil
}

// Select executes a query and scans every row into dest, a pointer to a slice
// of structs tagged with `db`.
func (e *Executor) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	query = e.Rebind(query)
	start := time.Now()
	err := e.db.SelectContext(ctx, dest, query, args...)
	e.record(query, args, start, err, true)
	if err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}
	return nil
}

// Close releases the cached statements and closes the connection pool
func (e *Executor) Close() error {
	if e.stmts != nil {
		e.stmts.Clear()
	}
	return e.db.Close()
}

// Stats returns a snapshot of the execution statistics
func (e *Executor) Stats() StatsSnapshot {
	s := e.stats.Snapshot()
	if e.stmts != nil {
		s.Statements = e.stmts.GetStats()
	}
	return s
}

// prepare returns the cached prepared statement for query, preparing it on a
// miss. When concurrent misses race, the statement cached first is kept and
// the others are closed. It returns nil when the statement cache is disabled.
func (e *Executor) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if e.stmts == nil {
		return nil, nil
	}
	key := cache.StatementKey(e.provider, query)
	if stmt, ok := e.stmts.Get(key); ok {
		return stmt, nil
	}
	return e.prepareMiss(ctx, key, query)
}

func (e *Executor) prepareMiss(ctx context.Context, key, query string) (*sql.Stmt, error) {
	stmt, err := e.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	cached, loaded := e.stmts.SetIfAbsent(key, stmt, 0)
	if loaded {
		if err := stmt.Close(); err != nil {
			debug.Warn("failed to close prepared statement", "error", err)
		}
	}
	return cached, nil
}

func (e *Executor) record(query string, args []interface{}, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	e.stats.add(duration, err, isQuery)

	debug.Debug("executed statement", "provider", e.provider, "sql", query, "args", args, "duration", duration)
	if err != nil {
		debug.Debug("statement failed", "sql", query, "error", err)
	}
	if e.slowThreshold > 0 && duration > e.slowThreshold {
		e.stats.SlowQueries.Add(1)
		debug.Warn("slow query detected", "duration", duration, "sql", query, "args", args)
	}
}

func isQuery(query string) bool {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "SHOW", "PRAGMA", "EXPLAIN":
		return true
	}
	return false
}
