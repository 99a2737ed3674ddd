package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type TenantNoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.TenantNote) (*types.TenantNote, error)
	SearchByEmbedding(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, query pgvector.Vector, limit int, threshold float64, category string) ([]*types.TenantNoteSearchResult, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, category string) ([]*types.TenantNote, error)
	GetAllActive(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantNote, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantNote, error)
	DeleteByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error)
}

type tenantNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantNoteRepo(db *gorm.DB, baseLog *logger.Logger) TenantNoteRepo {
	repoLog := baseLog.With("repo", "TenantNoteRepo")
	return &tenantNoteRepo{db: db, log: repoLog}
}

func (nr *tenantNoteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.TenantNote) (*types.TenantNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (nr *tenantNoteRepo) SearchByEmbedding(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, query pgvector.Vector, limit int, threshold float64, category string) ([]*types.TenantNoteSearchResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	q := transaction.WithContext(ctx).
		Model(&types.TenantNote{}).
		Select("id, tenant_id, category, title, content, is_active, priority, tags, metadata, created_at, updated_at, expires_at, 1 - (embedding <=> ?) AS similarity", query).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Where("1 - (embedding <=> ?) > ?", query, threshold).
		Where(notExpired)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var results []*types.TenantNoteSearchResult
	if err := q.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *tenantNoteRepo) GetByCategory(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, category string) ([]*types.TenantNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.TenantNote
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND category = ?", tenantID, category).
		Where("is_active = ?", true).
		Where(notExpired).
		Order("priority DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *tenantNoteRepo) GetAllActive(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.TenantNote
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("is_active = ?", true).
		Where(notExpired).
		Order("priority DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *tenantNoteRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.TenantNote
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *tenantNoteRepo) DeleteByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	res := transaction.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&types.TenantNote{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
