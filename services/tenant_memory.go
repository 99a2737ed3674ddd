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

// TenantMemoryService owns tenant-wide derived knowledge, including
// promotion of user-scoped memories into tenant scope.
type TenantMemoryService interface {
	Add(ctx context.Context, tenantID uuid.UUID, input types.AddTenantMemoryInput) (*types.TenantMemory, error)
	PromoteFromUser(ctx context.Context, tenantID uuid.UUID, input types.PromoteFromUserInput) (*types.TenantMemory, error)
	Search(ctx context.Context, tenantID uuid.UUID, input types.SearchTenantMemoriesInput) ([]*types.TenantMemorySearchResult, error)
	GetAll(ctx context.Context, tenantID uuid.UUID, memoryTypes []string) ([]*types.TenantMemory, error)
}

type tenantMemoryService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.TenantMemoryRepo
	embedder embedding.Provider
}

func NewTenantMemoryService(db *gorm.DB, log *logger.Logger, repo repos.TenantMemoryRepo, embedder embedding.Provider) TenantMemoryService {
	return &tenantMemoryService{
		db:       db,
		log:      log.With("service", "TenantMemoryService"),
		repo:     repo,
		embedder: embedder,
	}
}

func (s *tenantMemoryService) Add(ctx context.Context, tenantID uuid.UUID, input types.AddTenantMemoryInput) (*types.TenantMemory, error) {
	vec, err := s.embedder.Embed(ctx, input.Content)
	if err != nil {
		return nil, fmt.Errorf("embed tenant memory content: %w", err)
	}

	importance := input.Importance
	if importance == 0 {
		importance = types.DefaultImportance
	}

	memory := &types.TenantMemory{
		TenantID:       tenantID,
		Content:        input.Content,
		Embedding:      pgvector.NewVector(vec),
		MemoryType:     input.Type,
		Importance:     importance,
		SourceUserID:   input.SourceUserID,
		SourceMemoryID: input.SourceMemoryID,
		Metadata:       datatypes.JSONMap(input.Metadata),
	}

	saved, err := s.repo.Create(ctx, nil, memory)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Tenant memory added", "tenant_id", tenantID, "memory_type", memory.MemoryType)
	return saved, nil
}

// PromoteFromUser re-embeds the supplied content rather than copying the
// source item's stored vector: content may be edited during promotion.
func (s *tenantMemoryService) PromoteFromUser(ctx context.Context, tenantID uuid.UUID, input types.PromoteFromUserInput) (*types.TenantMemory, error) {
	sourceMemoryID := input.SourceMemoryID
	return s.Add(ctx, tenantID, types.AddTenantMemoryInput{
		Content:        input.Content,
		Type:           input.Type,
		Importance:     input.Importance,
		SourceMemoryID: &sourceMemoryID,
	})
}

func (s *tenantMemoryService) Search(ctx context.Context, tenantID uuid.UUID, input types.SearchTenantMemoriesInput) ([]*types.TenantMemorySearchResult, error) {
	vec, err := s.embedder.Embed(ctx, input.Query)
	if err != nil {
		return nil, fmt.Errorf("embed tenant memory query: %w", err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return s.repo.SearchByEmbedding(ctx, nil, tenantID, pgvector.NewVector(vec), limit, defaultSearchThreshold, input.Type)
}

func (s *tenantMemoryService) GetAll(ctx context.Context, tenantID uuid.UUID, memoryTypes []string) ([]*types.TenantMemory, error) {
	return s.repo.GetAll(ctx, nil, tenantID, memoryTypes)
}
