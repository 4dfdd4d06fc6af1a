// internal/repository/postgres/user_pg_test.go
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propshare-admin/internal/domain"
)

// recordingExecutor captures the statements a repository emits so tests can
// assert on the SQL without a live database.
type recordingExecutor struct {
	queries []string
	args    [][]interface{}
}

func (r *recordingExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return sql.ErrNoRows
}

func (r *recordingExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return nil
}

func (r *recordingExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return driver.RowsAffected(1), nil
}

func (r *recordingExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	r.queries = append(r.queries, query)
	r.args = append(r.args, args)
	return &sql.Row{}
}

func TestUpdateProfileWritesEmail(t *testing.T) {
	repo := NewUserRepository(nil)
	exec := &recordingExecutor{}

	user := &domain.User{
		ID:       3,
		FullName: "Dana Farid",
		Email:    "dana@example.com",
		Phone:    "+201001234567",
		Role:     domain.RoleUser,
	}
	require.NoError(t, repo.UpdateProfile(context.Background(), exec, user))
	require.Len(t, exec.queries, 1)

	query := exec.queries[0]
	assert.Contains(t, query, "email")
	assert.Contains(t, exec.args[0], "dana@example.com")
	// The profile endpoint must never touch authorization.
	assert.NotContains(t, query, "role")
}
