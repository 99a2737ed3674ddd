package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type fakeTenantMemoryRepo struct {
	created       []*types.TenantMemory
	searchCalls   int
	lastLimit     int
	lastThreshold float64
	lastType      string
	all           []*types.TenantMemory
}

func (f *fakeTenantMemoryRepo) Create(ctx context.Context, tx *gorm.DB, memory *types.TenantMemory) (*types.TenantMemory, error) {
	f.created = append(f.created, memory)
	return memory, nil
}

func (f *fakeTenantMemoryRepo) SearchByEmbedding(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, query pgvector.Vector, limit int, threshold float64, memoryType string) ([]*types.TenantMemorySearchResult, error) {
	f.searchCalls++
	f.lastLimit = limit
	f.lastThreshold = threshold
	f.lastType = memoryType
	return []*types.TenantMemorySearchResult{}, nil
}

func (f *fakeTenantMemoryRepo) GetAll(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, memoryTypes []string) ([]*types.TenantMemory, error) {
	return f.all, nil
}

func (f *fakeTenantMemoryRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.TenantMemory, error) {
	return f.all, nil
}

func (f *fakeTenantMemoryRepo) DeleteByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (int64, error) {
	return int64(len(f.all)), nil
}

func newTenantMemoryService(t *testing.T, repo *fakeTenantMemoryRepo, emb *fakeEmbedder) TenantMemoryService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewTenantMemoryService(nil, log, repo, emb)
}

func TestPromoteFromUserReembedsAndKeepsProvenance(t *testing.T) {
	repo := &fakeTenantMemoryRepo{}
	emb := &fakeEmbedder{vec: []float32{0.5, 0.6}}
	svc := newTenantMemoryService(t, repo, emb)

	sourceID := uuid.New()
	tenantID := uuid.New()
	saved, err := svc.PromoteFromUser(context.Background(), tenantID, types.PromoteFromUserInput{
		SourceMemoryID: sourceID,
		Content:        "customers often ask about SSO",
		Type:           "pattern",
	})
	if err != nil {
		t.Fatalf("PromoteFromUser: %v", err)
	}
	if emb.embedCalls != 1 || emb.lastText != "customers often ask about SSO" {
		t.Fatalf("promotion must re-embed the promoted content, calls=%d text=%q", emb.embedCalls, emb.lastText)
	}
	if saved.SourceMemoryID == nil || *saved.SourceMemoryID != sourceID {
		t.Fatalf("source memory provenance: got=%v", saved.SourceMemoryID)
	}
	if saved.TenantID != tenantID {
		t.Fatalf("tenant id: want=%s got=%s", tenantID, saved.TenantID)
	}
	if saved.Importance != types.DefaultImportance {
		t.Fatalf("importance default: want=%d got=%d", types.DefaultImportance, saved.Importance)
	}
}

func TestTenantMemorySearchPassesTypeFilter(t *testing.T) {
	repo := &fakeTenantMemoryRepo{}
	svc := newTenantMemoryService(t, repo, &fakeEmbedder{})

	_, err := svc.Search(context.Background(), uuid.New(), types.SearchTenantMemoriesInput{Query: "sso", Type: "pattern"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if repo.lastType != "pattern" {
		t.Fatalf("type filter: want=%q got=%q", "pattern", repo.lastType)
	}
	if repo.lastLimit != defaultSearchLimit || repo.lastThreshold != defaultSearchThreshold {
		t.Fatalf("search defaults: limit=%d threshold=%v", repo.lastLimit, repo.lastThreshold)
	}
}
