package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sefazor/imaginet-backend/internal/models"
	repo "github.com/sefazor/imaginet-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestUserRepository_MalformedIDIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewUserRepository(db)
	ctx := context.Background()

	_, err := r.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.Update(ctx, "not-a-uuid", models.UpdateUserRequest{})
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.Delete(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// hiçbir sorgu veritabanına gitmemeli
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByClerkID_Success(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewUserRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "clerk_id", "username", "email", "plan_id", "credit_balance"}).
		AddRow(id.String(), "user_1", "alice", "alice@example.com", "free", 10)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE clerk_id = \$1`).
		WillReturnRows(rows)

	u, err := r.GetByClerkID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 10, u.CreditBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewUserRepository(db)

	mock.ExpectQuery(`UPDATE "users" SET .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	name := "bob"
	_, err := r.Update(context.Background(), uuid.NewString(), models.UpdateUserRequest{Username: &name})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewUserRepository(db)

	mock.ExpectQuery(`DELETE FROM "users" WHERE id = \$1 RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repo.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
