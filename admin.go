package metriomemory

import (
	"context"

	"github.com/JidouAI/metrio-memory/types"
)

// AdminAPI is the audit surface. Reads on unknown identities return empty
// listings; purges on unknown identities report zero deletions. Nothing here
// creates identities.
type AdminAPI struct {
	svc *Service
}

func (a AdminAPI) ListUserMemories(ctx context.Context, tenantSlug, userExternalID string) ([]*types.Memory, error) {
	_, user, err := a.svc.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*types.Memory{}, nil
	}
	return a.svc.adminSvc.ListUserMemories(ctx, user.ID)
}

func (a AdminAPI) ListTenantNotes(ctx context.Context, tenantSlug string) ([]*types.TenantNote, error) {
	tenant, err := a.svc.tenantSvc.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return []*types.TenantNote{}, nil
	}
	return a.svc.adminSvc.ListTenantNotes(ctx, tenant.ID)
}

func (a AdminAPI) ListTenantMemories(ctx context.Context, tenantSlug string) ([]*types.TenantMemory, error) {
	tenant, err := a.svc.tenantSvc.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return []*types.TenantMemory{}, nil
	}
	return a.svc.adminSvc.ListTenantMemories(ctx, tenant.ID)
}

func (a AdminAPI) PurgeUserMemories(ctx context.Context, tenantSlug, userExternalID string) (types.PurgeResult, error) {
	_, user, err := a.svc.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	if user == nil {
		return types.PurgeResult{}, nil
	}
	return a.svc.adminSvc.PurgeUserMemories(ctx, user.ID)
}

func (a AdminAPI) PurgeTenantNotes(ctx context.Context, tenantSlug string) (types.PurgeResult, error) {
	tenant, err := a.svc.tenantSvc.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return types.PurgeResult{}, err
	}
	if tenant == nil {
		return types.PurgeResult{}, nil
	}
	return a.svc.adminSvc.PurgeTenantNotes(ctx, tenant.ID)
}

func (a AdminAPI) PurgeTenantMemories(ctx context.Context, tenantSlug string) (types.PurgeResult, error) {
	tenant, err := a.svc.tenantSvc.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return types.PurgeResult{}, err
	}
	if tenant == nil {
		return types.PurgeResult{}, nil
	}
	return a.svc.adminSvc.PurgeTenantMemories(ctx, tenant.ID)
}

// PurgeUser deletes the user row; memories and profile cascade with it.
func (a AdminAPI) PurgeUser(ctx context.Context, tenantSlug, userExternalID string) (types.PurgeResult, error) {
	_, user, err := a.svc.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	if user == nil {
		return types.PurgeResult{}, nil
	}
	return a.svc.adminSvc.PurgeUser(ctx, user.ID)
}

// PurgeTenant deletes the tenant row; users, memories, notes and tenant
// memories cascade with it.
func (a AdminAPI) PurgeTenant(ctx context.Context, tenantSlug string) (types.PurgeResult, error) {
	tenant, err := a.svc.tenantSvc.GetBySlug(ctx, tenantSlug)
	if err != nil {
		return types.PurgeResult{}, err
	}
	if tenant == nil {
		return types.PurgeResult{}, nil
	}
	return a.svc.adminSvc.PurgeTenant(ctx, tenant.ID)
}
