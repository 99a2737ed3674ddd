package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type ProfileRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, summary string, embedding pgvector.Vector) (*types.UserProfile, error)
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

func (pr *profileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.UserProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Upsert replaces the row in place: first write inserts version 1, every
// later write swaps summary and embedding and bumps version. Last writer
// wins; postgres serializes concurrent upserts through the user_id
// constraint.
func (pr *profileRepo) Upsert(ctx context.Context, tx *gorm.DB, userID uuid.UUID, summary string, embedding pgvector.Vector) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	profile := &types.UserProfile{
		UserID:           userID,
		Summary:          summary,
		SummaryEmbedding: embedding,
		Version:          1,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"summary":           summary,
				"summary_embedding": embedding,
				"version":           gorm.Expr("user_profiles.version + 1"),
				"updated_at":        gorm.Expr("now()"),
			}),
		}).
		Create(profile).Error; err != nil {
		return nil, err
	}

	// Re-read: on the conflict path the in-memory struct does not reflect
	// the incremented version.
	return pr.GetByUserID(ctx, transaction, userID)
}

func (pr *profileRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserProfile{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
