package services

import (
	"context"
	"encoding/json"
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

const (
	defaultSearchLimit     = 10
	defaultSearchThreshold = 0.3
)

// MemoryStoreService owns user-scoped memory items: embed on write, rank by
// similarity on read.
type MemoryStoreService interface {
	Add(ctx context.Context, userID uuid.UUID, input types.AddMemoryInput) (*types.Memory, error)
	Search(ctx context.Context, userID uuid.UUID, query string, opts types.SearchOptions) ([]*types.MemorySearchResult, error)
	GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Memory, error)
}

type memoryStoreService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.MemoryRepo
	embedder embedding.Provider
}

func NewMemoryStoreService(db *gorm.DB, log *logger.Logger, repo repos.MemoryRepo, embedder embedding.Provider) MemoryStoreService {
	return &memoryStoreService{
		db:       db,
		log:      log.With("service", "MemoryStoreService"),
		repo:     repo,
		embedder: embedder,
	}
}

// Add embeds the content first; an embedding failure aborts the call before
// anything is written, so no partial record can exist.
func (s *memoryStoreService) Add(ctx context.Context, userID uuid.UUID, input types.AddMemoryInput) (*types.Memory, error) {
	vec, err := s.embedder.Embed(ctx, input.Content)
	if err != nil {
		return nil, fmt.Errorf("embed memory content: %w", err)
	}

	importance := input.Importance
	if importance == 0 {
		importance = types.DefaultImportance
	}

	memory := &types.Memory{
		UserID:     userID,
		Content:    input.Content,
		Embedding:  pgvector.NewVector(vec),
		MemoryType: input.MemoryType,
		Importance: importance,
		Metadata:   datatypes.JSONMap(input.Metadata),
	}
	if len(input.RawConversation) > 0 {
		raw, mErr := json.Marshal(input.RawConversation)
		if mErr != nil {
			return nil, fmt.Errorf("marshal raw conversation: %w", mErr)
		}
		memory.RawConversation = datatypes.JSON(raw)
	}

	saved, err := s.repo.Create(ctx, nil, memory)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Memory added", "user_id", userID, "memory_type", memory.MemoryType)
	return saved, nil
}

func (s *memoryStoreService) Search(ctx context.Context, userID uuid.UUID, query string, opts types.SearchOptions) ([]*types.MemorySearchResult, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = defaultSearchThreshold
	}

	return s.repo.SearchByEmbedding(ctx, nil, userID, pgvector.NewVector(vec), limit, threshold)
}

func (s *memoryStoreService) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Memory, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.repo.GetRecent(ctx, nil, userID, limit)
}
