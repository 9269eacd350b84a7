package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlbuilder/query/cache"
	"github.com/satishbabariya/sqlbuilder/query/sqlgen"
)

func newMock(t *testing.T, provider string, opts ...Option) (*Executor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	e, err := New(db, provider, opts...)
	require.NoError(t, err)
	return e, mock
}

func TestDriverName(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{provider: "postgres", want: "postgres"},
		{provider: "PostgreSQL", want: "postgres"},
		{provider: "mysql", want: "mysql"},
		{provider: "sqlite", want: "sqlite3"},
		{provider: "sqlite3", want: "sqlite3"},
		{provider: "mongodb", wantErr: true},
		{provider: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, err := DriverName(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_UnsupportedProvider(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, "oracle")
	assert.Error(t, err)
}

func TestExec_Rebind(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "postgres", want: "UPDATE users SET name = $1 WHERE id = $2"},
		{provider: "mysql", want: "UPDATE users SET name = ? WHERE id = ?"},
		{provider: "sqlite", want: "UPDATE users SET name = ? WHERE id = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			e, mock := newMock(t, tt.provider)
			mock.ExpectExec(tt.want).WithArgs("bob", 7).WillReturnResult(sqlmock.NewResult(0, 1))

			res, err := e.Exec(context.Background(), "UPDATE users SET name = ? WHERE id = ?", "bob", 7)
			require.NoError(t, err)
			affected, err := res.RowsAffected()
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)
			require.NoError(t, mock.ExpectationsWereMet())

			stats := e.Stats()
			assert.Equal(t, int64(1), stats.TotalExecs)
			assert.Equal(t, int64(0), stats.Errors)
		})
	}
}

func TestExec_Error(t *testing.T) {
	e, mock := newMock(t, "mysql")
	mock.ExpectExec("DELETE FROM users").WillReturnError(errors.New("boom"))

	_, err := e.Exec(context.Background(), "DELETE FROM users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, int64(1), e.Stats().Errors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryMaps(t *testing.T) {
	e, mock := newMock(t, "postgres")
	mock.ExpectQuery("SELECT id, name FROM users WHERE age > $1").
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, []byte("alice")).
			AddRow(2, nil))

	res, err := e.QueryMaps(context.Background(), "SELECT id, name FROM users WHERE age > ?", 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, res.Columns)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "alice", res.Rows[0]["name"])
	assert.Equal(t, [][]string{{"1", "alice"}, {"2", "NULL"}}, res.Strings())
	assert.Equal(t, int64(1), e.Stats().TotalQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect(t *testing.T) {
	type user struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}

	e, mock := newMock(t, "sqlite")
	mock.ExpectQuery("SELECT id, name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice").AddRow(2, "bob"))

	var users []user
	require.NoError(t, e.Select(context.Background(), &users, "SELECT id, name FROM users"))
	assert.Equal(t, []user{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun(t *testing.T) {
	e, mock := newMock(t, "mysql")
	mock.ExpectQuery("SELECT * FROM t WHERE id IN (?,?)").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectExec("DELETE FROM t WHERE id = ?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := e.Run(context.Background(), &sqlgen.Query{SQL: "SELECT * FROM t WHERE id IN (?,?)", Args: []interface{}{1, 2}})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	res, err = e.Run(context.Background(), &sqlgen.Query{SQL: "DELETE FROM t WHERE id = ?", Args: []interface{}{3}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.Nil(t, res.Rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatementCache(t *testing.T) {
	e, mock := newMock(t, "postgres", WithStatementCache(4))
	const rendered = "SELECT * FROM users WHERE id = $1"

	mock.ExpectPrepare(rendered).WillBeClosed()
	mock.ExpectQuery(rendered).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(rendered).WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectClose()

	for _, id := range []int{1, 2} {
		res, err := e.QueryMaps(context.Background(), "SELECT * FROM users WHERE id = ?", id)
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
	}

	stats := e.Stats()
	assert.Equal(t, int64(1), stats.Statements.Misses)
	assert.Equal(t, int64(1), stats.Statements.Hits)
	assert.Equal(t, 1, stats.Statements.Size)

	require.NoError(t, e.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatementCache_ConcurrentMissKeepsFirst(t *testing.T) {
	e, mock := newMock(t, "sqlite", WithStatementCache(4))
	const query = "SELECT * FROM users WHERE id = ?"
	key := cache.StatementKey("sqlite", query)

	mock.ExpectPrepare(query)
	mock.ExpectPrepare(query).WillBeClosed()

	first, err := e.db.PrepareContext(context.Background(), query)
	require.NoError(t, err)
	e.stmts.Set(key, first, 0)

	// A second miss on the same statement, as a racing goroutine would see it
	got, err := e.prepareMiss(context.Background(), key, query)
	require.NoError(t, err)
	assert.Same(t, first, got)

	cached, ok := e.stmts.Get(key)
	require.True(t, ok)
	assert.Same(t, first, cached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlowQuery(t *testing.T) {
	e, mock := newMock(t, "mysql", WithSlowThreshold(time.Millisecond))
	mock.ExpectExec("DELETE FROM sessions").
		WillDelayFor(10 * time.Millisecond).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := e.Exec(context.Background(), "DELETE FROM sessions")
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.Stats().SlowQueries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		e, mock := newMock(t, "postgres")
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO t (a) VALUES ($1)").WithArgs(1).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT a FROM t").WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(1))
		mock.ExpectCommit()

		err := e.Transaction(context.Background(), nil, func(tx *Tx) error {
			if _, err := tx.Exec(context.Background(), "INSERT INTO t (a) VALUES (?)", 1); err != nil {
				return err
			}
			res, err := tx.QueryMaps(context.Background(), "SELECT a FROM t")
			if err != nil {
				return err
			}
			assert.Len(t, res.Rows, 1)
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		e, mock := newMock(t, "mysql")
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := e.Transaction(context.Background(), nil, func(*Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsQuery(t *testing.T) {
	assert.True(t, isQuery("SELECT 1;"))
	assert.True(t, isQuery("  select * from t"))
	assert.True(t, isQuery("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.False(t, isQuery("INSERT INTO t (a) VALUES ('1')"))
	assert.False(t, isQuery(""))
}
