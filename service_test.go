package metriomemory

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

type fakeTenantService struct {
	tenants       map[string]*types.Tenant
	getOrCreateN  int
	lastSlug      string
	createdTenant *types.Tenant
}

func (f *fakeTenantService) GetOrCreate(ctx context.Context, slug string) (*types.Tenant, error) {
	f.getOrCreateN++
	f.lastSlug = slug
	if t, ok := f.tenants[slug]; ok {
		return t, nil
	}
	t := &types.Tenant{ID: uuid.New(), Slug: slug, Name: slug}
	if f.tenants == nil {
		f.tenants = map[string]*types.Tenant{}
	}
	f.tenants[slug] = t
	f.createdTenant = t
	return t, nil
}

func (f *fakeTenantService) GetBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	return f.tenants[slug], nil
}

type fakeUserService struct {
	users        map[string]*types.User
	getOrCreateN int
}

func (f *fakeUserService) GetOrCreate(ctx context.Context, tenantID uuid.UUID, externalID string) (*types.User, error) {
	f.getOrCreateN++
	if u, ok := f.users[externalID]; ok {
		return u, nil
	}
	u := &types.User{ID: uuid.New(), TenantID: tenantID, ExternalID: externalID}
	if f.users == nil {
		f.users = map[string]*types.User{}
	}
	f.users[externalID] = u
	return u, nil
}

func (f *fakeUserService) GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*types.User, error) {
	return f.users[externalID], nil
}

func (f *fakeUserService) Update(ctx context.Context, userID uuid.UUID, displayName *string, metadata map[string]interface{}) (*types.User, error) {
	return &types.User{ID: userID}, nil
}

type fakeMemoryService struct {
	addCalls    int
	searchCalls int
	lastUserID  uuid.UUID
}

func (f *fakeMemoryService) Add(ctx context.Context, userID uuid.UUID, input types.AddMemoryInput) (*types.Memory, error) {
	f.addCalls++
	f.lastUserID = userID
	return &types.Memory{ID: uuid.New(), UserID: userID, Content: input.Content}, nil
}

func (f *fakeMemoryService) Search(ctx context.Context, userID uuid.UUID, query string, opts types.SearchOptions) ([]*types.MemorySearchResult, error) {
	f.searchCalls++
	return []*types.MemorySearchResult{{Content: "hit"}}, nil
}

func (f *fakeMemoryService) GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Memory, error) {
	return []*types.Memory{}, nil
}

type fakeAdminService struct {
	purgeUserMemoriesN int
	listUserMemoriesN  int
}

func (f *fakeAdminService) ListUserMemories(ctx context.Context, userID uuid.UUID) ([]*types.Memory, error) {
	f.listUserMemoriesN++
	return []*types.Memory{{ID: uuid.New()}}, nil
}

func (f *fakeAdminService) ListTenantNotes(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantNote, error) {
	return []*types.TenantNote{}, nil
}

func (f *fakeAdminService) ListTenantMemories(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantMemory, error) {
	return []*types.TenantMemory{}, nil
}

func (f *fakeAdminService) PurgeUserMemories(ctx context.Context, userID uuid.UUID) (types.PurgeResult, error) {
	f.purgeUserMemoriesN++
	return types.PurgeResult{DeletedCount: 2}, nil
}

func (f *fakeAdminService) PurgeTenantNotes(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error) {
	return types.PurgeResult{DeletedCount: 1}, nil
}

func (f *fakeAdminService) PurgeTenantMemories(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error) {
	return types.PurgeResult{DeletedCount: 1}, nil
}

func (f *fakeAdminService) PurgeUser(ctx context.Context, userID uuid.UUID) (types.PurgeResult, error) {
	return types.PurgeResult{DeletedCount: 1}, nil
}

func (f *fakeAdminService) PurgeTenant(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error) {
	return types.PurgeResult{DeletedCount: 1}, nil
}

func newTestFacade(t *testing.T, tenants *fakeTenantService, users *fakeUserService, memories *fakeMemoryService, admin *fakeAdminService) *Service {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return newService(log, tenants, users, memories, nil, nil, nil, nil, nil, admin)
}

func TestAddMemoryCreatesIdentitiesLazily(t *testing.T) {
	tenants := &fakeTenantService{}
	users := &fakeUserService{}
	memories := &fakeMemoryService{}
	svc := newTestFacade(t, tenants, users, memories, &fakeAdminService{})

	_, err := svc.AddMemory(context.Background(), "acme", "u-1", types.AddMemoryInput{Content: "x"})
	if err != nil {
		t.Fatalf("AddMemory: %v", err)
	}
	if tenants.getOrCreateN != 1 || users.getOrCreateN != 1 {
		t.Fatalf("lazy creation: tenant=%d user=%d", tenants.getOrCreateN, users.getOrCreateN)
	}
	if memories.addCalls != 1 {
		t.Fatalf("memory add calls: want=1 got=%d", memories.addCalls)
	}
	if memories.lastUserID != users.users["u-1"].ID {
		t.Fatalf("memory scoped to wrong user")
	}
}

func TestSearchUnknownIdentityReturnsEmpty(t *testing.T) {
	tenants := &fakeTenantService{}
	memories := &fakeMemoryService{}
	svc := newTestFacade(t, tenants, &fakeUserService{}, memories, &fakeAdminService{})

	results, err := svc.Search(context.Background(), "ghost", "nobody", "q", types.SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("unknown identity search: got=%v", results)
	}
	if memories.searchCalls != 0 {
		t.Fatalf("search should not reach the store for unknown identities")
	}
	if tenants.getOrCreateN != 0 {
		t.Fatalf("read path must not create tenants")
	}
}

func TestSearchKnownIdentityDelegates(t *testing.T) {
	tenantID := uuid.New()
	tenants := &fakeTenantService{tenants: map[string]*types.Tenant{
		"acme": {ID: tenantID, Slug: "acme"},
	}}
	users := &fakeUserService{users: map[string]*types.User{
		"u-1": {ID: uuid.New(), TenantID: tenantID, ExternalID: "u-1"},
	}}
	memories := &fakeMemoryService{}
	svc := newTestFacade(t, tenants, users, memories, &fakeAdminService{})

	results, err := svc.Search(context.Background(), "acme", "u-1", "q", types.SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || memories.searchCalls != 1 {
		t.Fatalf("delegation: results=%d calls=%d", len(results), memories.searchCalls)
	}
}

func TestGetProfileSummaryUnknownIdentityReturnsNil(t *testing.T) {
	svc := newTestFacade(t, &fakeTenantService{}, &fakeUserService{}, &fakeMemoryService{}, &fakeAdminService{})

	profile, err := svc.GetProfileSummary(context.Background(), "ghost", "nobody")
	if err != nil {
		t.Fatalf("GetProfileSummary: %v", err)
	}
	if profile != nil {
		t.Fatalf("profile: want=nil got=%+v", profile)
	}
}

func TestAdminPurgeUnknownIdentityReportsZero(t *testing.T) {
	admin := &fakeAdminService{}
	svc := newTestFacade(t, &fakeTenantService{}, &fakeUserService{}, &fakeMemoryService{}, admin)

	res, err := svc.Admin.PurgeUserMemories(context.Background(), "ghost", "nobody")
	if err != nil {
		t.Fatalf("PurgeUserMemories: %v", err)
	}
	if res.DeletedCount != 0 {
		t.Fatalf("deleted count: want=0 got=%d", res.DeletedCount)
	}
	if admin.purgeUserMemoriesN != 0 {
		t.Fatalf("purge should not run for unknown identities")
	}
}

func TestAdminListUnknownTenantReturnsEmpty(t *testing.T) {
	svc := newTestFacade(t, &fakeTenantService{}, &fakeUserService{}, &fakeMemoryService{}, &fakeAdminService{})

	notes, err := svc.Admin.ListTenantNotes(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ListTenantNotes: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Fatalf("unknown tenant listing: got=%v", notes)
	}
}

func TestAdminListKnownUserDelegates(t *testing.T) {
	tenantID := uuid.New()
	tenants := &fakeTenantService{tenants: map[string]*types.Tenant{
		"acme": {ID: tenantID, Slug: "acme"},
	}}
	users := &fakeUserService{users: map[string]*types.User{
		"u-1": {ID: uuid.New(), TenantID: tenantID, ExternalID: "u-1"},
	}}
	admin := &fakeAdminService{}
	svc := newTestFacade(t, tenants, users, &fakeMemoryService{}, admin)

	listed, err := svc.Admin.ListUserMemories(context.Background(), "acme", "u-1")
	if err != nil {
		t.Fatalf("ListUserMemories: %v", err)
	}
	if len(listed) != 1 || admin.listUserMemoriesN != 1 {
		t.Fatalf("delegation: listed=%d calls=%d", len(listed), admin.listUserMemoriesN)
	}
}
