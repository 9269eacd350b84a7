package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlbuilder/cli/internal/config"
	"github.com/satishbabariya/sqlbuilder/query/executor"
)

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := config.AppFs
	config.AppFs = afero.NewMemMapFs()
	t.Cleanup(func() { config.AppFs = prev })
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLBUILDER_DATABASE_URL", "")
	return config.AppFs
}

func inCwd(t *testing.T, name string) string {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Join(cwd, name)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useMockExecutor(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	prev := openExecutor
	openExecutor = func(ctx context.Context, provider, dsn string, opts ...executor.Option) (*executor.Executor, error) {
		return executor.New(db, provider, opts...)
	}
	t.Cleanup(func() { openExecutor = prev })
	return mock
}

const usersFile = `name: adults
table: users
columns: [id, first_name]
where:
  status: active
filters:
  - age >= 18
order_by: id
order: desc
limit: 5
---
name: add_user
kind: insert
table: users
values:
  first_name: Ada
  age: 36
`

func TestBuild_FromFlags(t *testing.T) {
	useMemFs(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "prepared by default",
			args: []string{"build", "--table", "users", "--columns", "id,first_name", "--where", "age > 30", "--limit", "10"},
			want: []string{"SELECT id,first_name FROM users WHERE age > ? LIMIT 10;", "-- args: [30]"},
		},
		{
			name: "literal values",
			args: []string{"build", "--prepared=false", "--table", "users", "--where", "age > 30", "--where", `name LIKE "A%"`},
			want: []string{`SELECT * FROM users WHERE age > "30" AND name LIKE "A%";`},
		},
		{
			name: "camel case aliases",
			args: []string{"build", "--camel-case", "--table", "users", "--columns", "id,first_name", "--order-by", "id", "--order", "desc"},
			want: []string{"SELECT id,first_name AS firstName FROM users ORDER BY id DESC;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestBuild_FromFile(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, inCwd(t, "users.yaml"), []byte(usersFile), 0644))

	out, err := runCLI(t, "build", "users.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "-- adults")
	assert.Contains(t, out, "SELECT id, first_name FROM users WHERE status = ? AND age >= ? ORDER BY id DESC LIMIT 5;")
	assert.Contains(t, out, `-- args: ["active", 18]`)
	assert.Contains(t, out, "-- add_user")
	assert.Contains(t, out, "INSERT INTO users (first_name,age) VALUES (?,?)")

	out, err = runCLI(t, "build", "--prepared=false", "users.yaml", "--where", "id > 100")
	require.NoError(t, err)
	assert.Contains(t, out, `WHERE status = "active" AND age >= "18" AND id > "100" ORDER BY id DESC LIMIT 5;`)
	assert.Contains(t, out, "INSERT INTO users (first_name,age) VALUES ('Ada','36')")
}

func TestBuild_Errors(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, inCwd(t, "bad.yaml"), []byte("table: users\nlimit: -1\n"), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"build", "missing.yaml"}},
		{name: "invalid filter", args: []string{"build", "--table", "users", "--where", "age >"}},
		{name: "negative limit", args: []string{"build", "bad.yaml"}},
		{name: "watch without file", args: []string{"build", "--table", "users", "--watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestAlias(t *testing.T) {
	useMemFs(t)

	out, err := runCLI(t, "alias", "id,first_name", "last_name")
	require.NoError(t, err)
	assert.Contains(t, out, "id,first_name AS firstName,last_name AS lastName")

	out, err = runCLI(t, "alias", "user.name", "--delimiter", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "user.name AS userName")

	out, err = runCLI(t, "alias", "first_name")
	require.NoError(t, err)
	assert.Contains(t, out, "first_name AS firstName")

	_, err = runCLI(t, "alias", "id,,name")
	assert.Error(t, err)
}

func TestInit_Defaults(t *testing.T) {
	fs := useMemFs(t)

	out, err := runCLI(t, "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlbuilder init")
	assert.Contains(t, out, "Wrote "+inCwd(t, ".sqlbuilder.yaml"))
	assert.Contains(t, out, "Wrote statements.yaml")

	exists, err := afero.Exists(fs, inCwd(t, "statements.yaml"))
	require.NoError(t, err)
	assert.True(t, exists)

	// The example file renders with the saved config
	out, err = runCLI(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT id, first_name, last_name FROM users WHERE age >= ? ORDER BY last_name ASC LIMIT 10;")
	assert.Contains(t, out, "INSERT INTO users (first_name,last_name,age) VALUES (?,?,?)")

	// A second run keeps the existing statements
	require.NoError(t, afero.WriteFile(fs, inCwd(t, "statements.yaml"), []byte("table: teams\n"), 0644))
	out, err = runCLI(t, "init", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "Wrote statements.yaml")
	data, err := afero.ReadFile(fs, inCwd(t, "statements.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "table: teams\n", string(data))
}

func TestVersion(t *testing.T) {
	useMemFs(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlbuilder version")

	out, err = runCLI(t, "version", "--check", "99.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "A newer version is available: 99.0.0")
	assert.Contains(t, out, "releases/download/v99.0.0")

	out, err = runCLI(t, "version", "--check", "0.0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	_, err = runCLI(t, "version", "--check", "not-a-version")
	assert.Error(t, err)
}

func TestExec_NoDatabaseURL(t *testing.T) {
	useMemFs(t)

	_, err := runCLI(t, "exec", "--table", "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database url")
}

func TestExec_Query(t *testing.T) {
	useMemFs(t)
	mock := useMockExecutor(t)

	const rendered = "SELECT id,name FROM users WHERE age > ?;"
	mock.ExpectPrepare(rendered).WillBeClosed()
	mock.ExpectQuery(rendered).
		WithArgs(int64(30)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice").AddRow(2, nil))
	mock.ExpectClose()

	out, err := runCLI(t, "exec", "--database-url", "file::memory:",
		"--table", "users", "--columns", "id,name", "--where", "age > 30", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "queries=1 execs=0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_Transaction(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, inCwd(t, "users.yaml"), []byte(usersFile), 0644))
	mock := useMockExecutor(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name FROM users WHERE status = ? AND age >= ? ORDER BY id DESC LIMIT 5;").
		WithArgs("active", int64(18)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}).AddRow(1, "Grace"))
	mock.ExpectExec("INSERT INTO users (first_name,age) VALUES (?,?)").
		WithArgs("Ada", 36).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, err := runCLI(t, "exec", "--database-url", "file::memory:", "--tx", "users.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Grace")
	assert.Contains(t, out, "1 rows affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_TransactionRollback(t *testing.T) {
	fs := useMemFs(t)
	require.NoError(t, afero.WriteFile(fs, inCwd(t, "users.yaml"), []byte(usersFile), 0644))
	mock := useMockExecutor(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, first_name FROM users WHERE status = ? AND age >= ? ORDER BY id DESC LIMIT 5;").
		WithArgs("active", int64(18)).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := runCLI(t, "exec", "--database-url", "file::memory:", "--tx", "users.yaml")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
