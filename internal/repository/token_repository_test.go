package repository_test

import (
	"context"
	"regexp"
	"testing"

	repo "github.com/MohammadTashkandi/task-manager-app/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestPostgresTokenRepository_CreateAndExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO auth_tokens (user_id, token) VALUES ($1, $2)`)).
		WithArgs(userID, "tok").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE user_id = $1 AND token = $2)`)).
		WithArgs(userID, "tok").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, r.Create(context.Background(), userID, "tok"))

	exists, err := r.Exists(context.Background(), userID, "tok")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_DeleteRemovesExactToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM auth_tokens WHERE user_id = $1 AND token = $2`)).
		WithArgs(userID, "tok").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Delete(context.Background(), userID, "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_DeleteAllForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM auth_tokens WHERE user_id = $1`)).
		WithArgs(userID).WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, r.DeleteAllForUser(context.Background(), userID))
	require.NoError(t, mock.ExpectationsWereMet())
}
