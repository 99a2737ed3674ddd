package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type TenantRepo interface {
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, slug, name string) (*types.Tenant, error)
	Delete(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error)
}

type tenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantRepo(db *gorm.DB, baseLog *logger.Logger) TenantRepo {
	repoLog := baseLog.With("repo", "TenantRepo")
	return &tenantRepo{db: db, log: repoLog}
}

func (tr *tenantRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Tenant
	if err := transaction.WithContext(ctx).
		Where("slug = ?", slug).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetOrCreate is race-safe without locks: insert with conflict-ignore on the
// slug uniqueness constraint, then re-read the winner's row.
func (tr *tenantRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, slug, name string) (*types.Tenant, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	existing, err := tr.GetBySlug(ctx, transaction, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if name == "" {
		name = slug
	}
	tenant := &types.Tenant{Slug: slug, Name: name}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(tenant).Error; err != nil {
		return nil, err
	}

	return tr.GetBySlug(ctx, transaction, slug)
}

func (tr *tenantRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", tenantID).
		Delete(&types.Tenant{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
