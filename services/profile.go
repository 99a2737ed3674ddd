package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/providers/embedding"
	"github.com/JidouAI/metrio-memory/repos"
	"github.com/JidouAI/metrio-memory/types"
)

// ProfileService owns the single versioned rolling summary per user. Upsert
// is a full replace; merge logic belongs to the extraction provider, not
// here.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	Upsert(ctx context.Context, userID uuid.UUID, summary string) (*types.UserProfile, error)
	Delete(ctx context.Context, userID uuid.UUID) (bool, error)
}

type profileService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.ProfileRepo
	embedder embedding.Provider
}

func NewProfileService(db *gorm.DB, log *logger.Logger, repo repos.ProfileRepo, embedder embedding.Provider) ProfileService {
	return &profileService{
		db:       db,
		log:      log.With("service", "ProfileService"),
		repo:     repo,
		embedder: embedder,
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return s.repo.GetByUserID(ctx, nil, userID)
}

func (s *profileService) Upsert(ctx context.Context, userID uuid.UUID, summary string) (*types.UserProfile, error) {
	vec, err := s.embedder.Embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embed profile summary: %w", err)
	}
	return s.repo.Upsert(ctx, nil, userID, summary, pgvector.NewVector(vec))
}

func (s *profileService) Delete(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.Delete(ctx, nil, userID)
}
