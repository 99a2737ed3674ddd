package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySearchByEmbeddingQueryShape(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	rowID := uuid.New()
	mock.ExpectQuery(`SELECT id, content, memory_type, importance, created_at, 1 - \(embedding <=> \$1\) AS similarity FROM "memories" WHERE user_id = \$2 .*1 - \(embedding <=> \$3\) > \$4.*expires_at IS NULL OR expires_at > now\(\).*ORDER BY similarity DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "memory_type", "importance", "created_at", "similarity"}).
			AddRow(rowID.String(), "prefers email", "preference", int16(6), time.Now(), 0.87))

	repo := NewMemoryRepo(gormDB, testLogger(t))
	results, err := repo.SearchByEmbedding(context.Background(), nil, uuid.New(), pgvector.NewVector([]float32{0.1}), 10, 0.3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, rowID, results[0].ID)
	assert.InDelta(t, 0.87, results[0].Similarity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryGetRecentFiltersExpiredAndOrdersByRecency(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "memories" WHERE user_id = \$1 .*expires_at IS NULL OR expires_at > now\(\).*ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "memory_type", "importance", "created_at"}).
			AddRow(uuid.New().String(), uuid.New().String(), "newest", "fact", int16(5), time.Now()).
			AddRow(uuid.New().String(), uuid.New().String(), "older", "fact", int16(5), time.Now().Add(-time.Hour)))

	repo := NewMemoryRepo(gormDB, testLogger(t))
	results, err := repo.GetRecent(context.Background(), nil, uuid.New(), 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "newest", results[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryListByUserIncludesExpiredRows(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	// Admin listings audit everything; no expiry predicate here.
	mock.ExpectQuery(`SELECT \* FROM "memories" WHERE user_id = \$1$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "memory_type", "importance", "created_at"}).
			AddRow(uuid.New().String(), uuid.New().String(), "expired but listed", "fact", int16(5), time.Now()))

	repo := NewMemoryRepo(gormDB, testLogger(t))
	results, err := repo.ListByUser(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryDeleteByUserReportsRowCount(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "memories" WHERE user_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	repo := NewMemoryRepo(gormDB, testLogger(t))
	count, err := repo.DeleteByUser(context.Background(), nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
