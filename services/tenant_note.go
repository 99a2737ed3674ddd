package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/providers/embedding"
	"github.com/JidouAI/metrio-memory/repos"
	"github.com/JidouAI/metrio-memory/types"
)

// TenantNoteService owns curated tenant-wide knowledge with activation,
// priority and category filtering on top of similarity search.
type TenantNoteService interface {
	Add(ctx context.Context, tenantID uuid.UUID, input types.AddTenantNoteInput) (*types.TenantNote, error)
	Search(ctx context.Context, tenantID uuid.UUID, input types.SearchTenantNotesInput) ([]*types.TenantNoteSearchResult, error)
	GetByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]*types.TenantNote, error)
	GetAll(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantNote, error)
}

type tenantNoteService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.TenantNoteRepo
	embedder embedding.Provider
}

func NewTenantNoteService(db *gorm.DB, log *logger.Logger, repo repos.TenantNoteRepo, embedder embedding.Provider) TenantNoteService {
	return &tenantNoteService{
		db:       db,
		log:      log.With("service", "TenantNoteService"),
		repo:     repo,
		embedder: embedder,
	}
}

func (s *tenantNoteService) Add(ctx context.Context, tenantID uuid.UUID, input types.AddTenantNoteInput) (*types.TenantNote, error) {
	vec, err := s.embedder.Embed(ctx, input.Content)
	if err != nil {
		return nil, fmt.Errorf("embed note content: %w", err)
	}

	priority := input.Priority
	if priority == 0 {
		priority = types.DefaultPriority
	}

	note := &types.TenantNote{
		TenantID:  tenantID,
		Category:  input.Category,
		Title:     input.Title,
		Content:   input.Content,
		Embedding: pgvector.NewVector(vec),
		IsActive:  true,
		Priority:  priority,
		Tags:      datatypes.NewJSONSlice(input.Tags),
		Metadata:  datatypes.JSONMap(input.Metadata),
		ExpiresAt: input.ExpiresAt,
	}

	saved, err := s.repo.Create(ctx, nil, note)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Tenant note added", "tenant_id", tenantID, "category", note.Category)
	return saved, nil
}

func (s *tenantNoteService) Search(ctx context.Context, tenantID uuid.UUID, input types.SearchTenantNotesInput) ([]*types.TenantNoteSearchResult, error) {
	vec, err := s.embedder.Embed(ctx, input.Query)
	if err != nil {
		return nil, fmt.Errorf("embed note query: %w", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return s.repo.SearchByEmbedding(ctx, nil, tenantID, pgvector.NewVector(vec), limit, defaultSearchThreshold, input.Category)
}

func (s *tenantNoteService) GetByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]*types.TenantNote, error) {
	return s.repo.GetByCategory(ctx, nil, tenantID, category)
}

func (s *tenantNoteService) GetAll(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantNote, error) {
	return s.repo.GetAllActive(ctx, nil, tenantID)
}
