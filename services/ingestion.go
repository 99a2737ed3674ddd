package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/errs"
	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/providers/extraction"
	"github.com/JidouAI/metrio-memory/types"
)

// IngestionService turns a conversation transcript into stored memories and
// a refreshed profile summary via the extraction provider.
type IngestionService interface {
	ProcessConversation(ctx context.Context, userID uuid.UUID, conversation []types.ConversationMessage) (*types.ProcessConversationResult, error)
}

type ingestionService struct {
	db        *gorm.DB
	log       *logger.Logger
	memories  MemoryStoreService
	profiles  ProfileService
	extractor extraction.Provider // nil when the capability is not configured
}

func NewIngestionService(db *gorm.DB, log *logger.Logger, memories MemoryStoreService, profiles ProfileService, extractor extraction.Provider) IngestionService {
	return &ingestionService{
		db:        db,
		log:       log.With("service", "IngestionService"),
		memories:  memories,
		profiles:  profiles,
		extractor: extractor,
	}
}

func (s *ingestionService) ProcessConversation(ctx context.Context, userID uuid.UUID, conversation []types.ConversationMessage) (*types.ProcessConversationResult, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: conversation ingestion requires an extraction provider", errs.ErrUnconfiguredCapability)
	}

	extracted, err := s.extractor.ExtractMemories(ctx, conversation)
	if err != nil {
		return nil, err
	}

	saved := make([]*types.Memory, 0, len(extracted.Memories))
	for _, mem := range extracted.Memories {
		memory, addErr := s.memories.Add(ctx, userID, types.AddMemoryInput{
			Content:         mem.Content,
			MemoryType:      mem.MemoryType,
			Importance:      mem.Importance,
			RawConversation: conversation,
		})
		if addErr != nil {
			return nil, addErr
		}
		saved = append(saved, memory)
	}

	// The profile refresh runs only when something was actually saved;
	// profileUpdated reports that the merge+upsert ran, not that the text
	// changed.
	profileUpdated := false
	if len(saved) > 0 {
		existing, pErr := s.profiles.Get(ctx, userID)
		if pErr != nil {
			return nil, pErr
		}
		existingSummary := ""
		if existing != nil {
			existingSummary = existing.Summary
		}

		contents := make([]string, len(saved))
		for i, m := range saved {
			contents[i] = m.Content
		}

		merged, mErr := s.extractor.MergeSummary(ctx, existingSummary, contents)
		if mErr != nil {
			return nil, mErr
		}
		if _, uErr := s.profiles.Upsert(ctx, userID, merged); uErr != nil {
			return nil, uErr
		}
		profileUpdated = true
	}

	s.log.Info("Conversation processed",
		"user_id", userID,
		"memories_saved", len(saved),
		"profile_updated", profileUpdated,
	)

	return &types.ProcessConversationResult{Memories: saved, ProfileUpdated: profileUpdated}, nil
}
