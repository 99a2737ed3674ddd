package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type UserRepo interface {
	GetByExternalID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, externalID string) (*types.User, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, externalID string) (*types.User, error)
	UpdateProfileFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, displayName *string, metadata map[string]interface{}) (*types.User, error)
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, externalID string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetOrCreate mirrors TenantRepo.GetOrCreate: conflict-ignore insert on the
// (tenant_id, external_id) uniqueness constraint, then re-read.
func (ur *userRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, externalID string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	existing, err := ur.GetByExternalID(ctx, transaction, tenantID, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := &types.User{TenantID: tenantID, ExternalID: externalID}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoNothing: true,
		}).
		Create(user).Error; err != nil {
		return nil, err
	}

	return ur.GetByExternalID(ctx, transaction, tenantID, externalID)
}

func (ur *userRepo) UpdateProfileFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, displayName *string, metadata map[string]interface{}) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	updates := map[string]interface{}{"updated_at": gorm.Expr("now()")}
	if displayName != nil {
		updates["display_name"] = *displayName
	}
	if metadata != nil {
		updates["metadata"] = datatypes.JSONMap(metadata)
	}

	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Where("id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&types.User{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
