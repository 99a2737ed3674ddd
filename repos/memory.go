package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

// notExpired is the read-time expiry predicate shared by every retrieval
// path. Expired rows are never hard-deleted here; admin listings still see
// them.
const notExpired = "expires_at IS NULL OR expires_at > now()"

type MemoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, memory *types.Memory) (*types.Memory, error)
	SearchByEmbedding(ctx context.Context, tx *gorm.DB, userID uuid.UUID, query pgvector.Vector, limit int, threshold float64) ([]*types.MemorySearchResult, error)
	GetRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Memory, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Memory, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type memoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemoryRepo(db *gorm.DB, baseLog *logger.Logger) MemoryRepo {
	repoLog := baseLog.With("repo", "MemoryRepo")
	return &memoryRepo{db: db, log: repoLog}
}

func (mr *memoryRepo) Create(ctx context.Context, tx *gorm.DB, memory *types.Memory) (*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if err := transaction.WithContext(ctx).Create(memory).Error; err != nil {
		return nil, err
	}
	return memory, nil
}

// SearchByEmbedding ranks by cosine similarity (1 - cosine distance), scoped
// to the user before ranking. Rows survive only when similarity is strictly
// greater than the threshold.
func (mr *memoryRepo) SearchByEmbedding(ctx context.Context, tx *gorm.DB, userID uuid.UUID, query pgvector.Vector, limit int, threshold float64) ([]*types.MemorySearchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.MemorySearchResult
	if err := transaction.WithContext(ctx).
		Model(&types.Memory{}).
		Select("id, content, memory_type, importance, created_at, 1 - (embedding <=> ?) AS similarity", query).
		Where("user_id = ?", userID).
		Where("1 - (embedding <=> ?) > ?", query, threshold).
		Where(notExpired).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memoryRepo) GetRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Memory
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where(notExpired).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memoryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Memory, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Memory
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memoryRepo) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.Memory{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
