package repos

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserGetOrCreateInsertsWithConflictIgnore(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE tenant_id = \$1 AND external_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "external_id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users" .* ON CONFLICT \("tenant_id","external_id"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE tenant_id = \$1 AND external_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "external_id"}).
			AddRow(userID.String(), tenantID.String(), "u-1"))

	repo := NewUserRepo(gormDB, testLogger(t))
	user, err := repo.GetOrCreate(context.Background(), nil, tenantID, "u-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "u-1", user.ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateProfileFieldsSkipsNilFields(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	userID := uuid.New()

	// Only updated_at is touched when both fields are nil.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "updated_at"=now\(\) WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id"}).
			AddRow(userID.String(), "u-1"))

	repo := NewUserRepo(gormDB, testLogger(t))
	user, err := repo.UpdateProfileFields(context.Background(), nil, userID, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteReportsRowCount(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewUserRepo(gormDB, testLogger(t))
	count, err := repo.Delete(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
