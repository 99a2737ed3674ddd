package metriomemory

import (
	"context"

	"github.com/JidouAI/metrio-memory/types"
)

// TenantsAPI groups the tenant-scoped stores. Tenant-scoped writes create
// the tenant lazily from its slug.
type TenantsAPI struct {
	Notes    NotesAPI
	Memories TenantMemoriesAPI
}

type NotesAPI struct {
	svc *Service
}

func (a NotesAPI) Add(ctx context.Context, tenantSlug string, input types.AddTenantNoteInput) (*types.TenantNote, error) {
	tenant, err := a.svc.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return a.svc.noteSvc.Add(ctx, tenant.ID, input)
}

func (a NotesAPI) Search(ctx context.Context, tenantSlug string, input types.SearchTenantNotesInput) ([]*types.TenantNoteSearchResult, error) {
	tenant, err := a.svc.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return a.svc.noteSvc.Search(ctx, tenant.ID, input)
}

func (a NotesAPI) GetByCategory(ctx context.Context, tenantSlug, category string) ([]*types.TenantNote, error) {
	tenant, err := a.svc.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return a.svc.noteSvc.GetByCategory(ctx, tenant.ID, category)
}

type TenantMemoriesAPI struct {
	svc *Service
}

func (a TenantMemoriesAPI) Add(ctx context.Context, tenantSlug string, input types.AddTenantMemoryInput) (*types.TenantMemory, error) {
	tenant, err := a.svc.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return a.svc.tenantMemorySvc.Add(ctx, tenant.ID, input)
}

func (a TenantMemoriesAPI) PromoteFromUser(ctx context.Context, tenantSlug string, input types.PromoteFromUserInput) (*types.TenantMemory, error) {
	tenant, err := a.svc.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return a.svc.tenantMemorySvc.PromoteFromUser(ctx, tenant.ID, input)
}

func (a TenantMemoriesAPI) Search(ctx context.Context, tenantSlug string, input types.SearchTenantMemoriesInput) ([]*types.TenantMemorySearchResult, error) {
	tenant, err := a.svc.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return a.svc.tenantMemorySvc.Search(ctx, tenant.ID, input)
}
