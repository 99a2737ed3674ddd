package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type TenantMemoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, memory *types.TenantMemory) (*types.TenantMemory, error)
	SearchByEmbedding(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, query pgvector.Vector, limit int, threshold float64, memoryType string) ([]*types.TenantMemorySearchResult, error)
	GetAll(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, memoryTypes []string) ([]*types.TenantMemory, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantMemory, error)
	DeleteByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error)
}

type tenantMemoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantMemoryRepo(db *gorm.DB, baseLog *logger.Logger) TenantMemoryRepo {
	repoLog := baseLog.With("repo", "TenantMemoryRepo")
	return &tenantMemoryRepo{db: db, log: repoLog}
}

func (tr *tenantMemoryRepo) Create(ctx context.Context, tx *gorm.DB, memory *types.TenantMemory) (*types.TenantMemory, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(memory).Error; err != nil {
		return nil, err
	}
	return memory, nil
}

func (tr *tenantMemoryRepo) SearchByEmbedding(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, query pgvector.Vector, limit int, threshold float64, memoryType string) ([]*types.TenantMemorySearchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.TenantMemory{}).
		Select("id, tenant_id, content, memory_type, importance, source_user_id, source_memory_id, metadata, created_at, expires_at, 1 - (embedding <=> ?) AS similarity", query).
		Where("tenant_id = ?", tenantID).
		Where("1 - (embedding <=> ?) > ?", query, threshold).
		Where(notExpired)
	if memoryType != "" {
		q = q.Where("memory_type = ?", memoryType)
	}

	var results []*types.TenantMemorySearchResult
	if err := q.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tenantMemoryRepo) GetAll(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, memoryTypes []string) ([]*types.TenantMemory, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	q := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where(notExpired)
	if len(memoryTypes) > 0 {
		q = q.Where("memory_type IN ?", memoryTypes)
	}

	var results []*types.TenantMemory
	if err := q.
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tenantMemoryRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantMemory, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.TenantMemory
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tenantMemoryRepo) DeleteByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	res := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&types.TenantMemory{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
