package repos

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpsertBumpsVersionOnConflict(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	userID := uuid.New()
	profileID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "user_profiles" .* ON CONFLICT \("user_id"\) DO UPDATE SET .*user_profiles\.version \+ 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(profileID.String()))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "user_profiles" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "summary", "version"}).
			AddRow(profileID.String(), userID.String(), "merged summary", int16(2)))

	repo := NewProfileRepo(gormDB, testLogger(t))
	profile, err := repo.Upsert(context.Background(), nil, userID, "merged summary", pgvector.NewVector([]float32{0.1, 0.2}))
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, int16(2), profile.Version)
	assert.Equal(t, "merged summary", profile.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileGetByUserIDMissingReturnsNil(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "user_profiles" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "summary", "version"}))

	repo := NewProfileRepo(gormDB, testLogger(t))
	profile, err := repo.GetByUserID(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileDeleteReportsExistence(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_profiles" WHERE user_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := NewProfileRepo(gormDB, testLogger(t))
	deleted, err := repo.Delete(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
