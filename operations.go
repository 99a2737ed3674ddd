package metriomemory

import (
	"context"

	"github.com/JidouAI/metrio-memory/types"
)

// resolveOrCreate is the write-path identity resolution: unknown tenants and
// users come into existence here.
func (s *Service) resolveOrCreate(ctx context.Context, tenantSlug, userExternalID string) (*types.Tenant, *types.User, error) {
	tenant, err := s.tenantSvc.GetOrCreate(ctx, tenantSlug)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userSvc.GetOrCreate(ctx, tenant.ID, userExternalID)
	if err != nil {
		return nil, nil, err
	}
	return tenant, user, nil
}

// findExisting is the read-path resolution: unknown identities report
// "nothing", not an error.
func (s *Service) findExisting(ctx context.Context, tenantSlug, userExternalID string) (*types.Tenant, *types.User, error) {
	tenant, err := s.tenantSvc.GetBySlug(ctx, tenantSlug)
	if err != nil || tenant == nil {
		return nil, nil, err
	}
	user, err := s.userSvc.GetByExternalID(ctx, tenant.ID, userExternalID)
	if err != nil || user == nil {
		return nil, nil, err
	}
	return tenant, user, nil
}

func (s *Service) AddMemory(ctx context.Context, tenantSlug, userExternalID string, input types.AddMemoryInput) (*types.Memory, error) {
	_, user, err := s.resolveOrCreate(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	return s.memorySvc.Add(ctx, user.ID, input)
}

func (s *Service) Search(ctx context.Context, tenantSlug, userExternalID, query string, opts types.SearchOptions) ([]*types.MemorySearchResult, error) {
	_, user, err := s.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*types.MemorySearchResult{}, nil
	}
	return s.memorySvc.Search(ctx, user.ID, query, opts)
}

func (s *Service) GetRecentMemories(ctx context.Context, tenantSlug, userExternalID string, limit int) ([]*types.Memory, error) {
	_, user, err := s.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []*types.Memory{}, nil
	}
	return s.memorySvc.GetRecent(ctx, user.ID, limit)
}

func (s *Service) GetContext(ctx context.Context, tenantSlug, userExternalID string, opts types.GetContextOptions) (*types.ContextResult, error) {
	tenant, user, err := s.resolveOrCreate(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	return s.contextSvc.Compose(ctx, tenant.ID, user.ID, opts)
}

func (s *Service) ProcessConversation(ctx context.Context, tenantSlug, userExternalID string, conversation []types.ConversationMessage) (*types.ProcessConversationResult, error) {
	_, user, err := s.resolveOrCreate(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	return s.ingestionSvc.ProcessConversation(ctx, user.ID, conversation)
}

func (s *Service) UpdateProfileSummary(ctx context.Context, tenantSlug, userExternalID, summary string) (*types.UserProfile, error) {
	_, user, err := s.resolveOrCreate(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	return s.profileSvc.Upsert(ctx, user.ID, summary)
}

func (s *Service) GetProfileSummary(ctx context.Context, tenantSlug, userExternalID string) (*types.UserProfile, error) {
	_, user, err := s.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil || user == nil {
		return nil, err
	}
	return s.profileSvc.Get(ctx, user.ID)
}

func (s *Service) DeleteProfileSummary(ctx context.Context, tenantSlug, userExternalID string) (bool, error) {
	_, user, err := s.findExisting(ctx, tenantSlug, userExternalID)
	if err != nil || user == nil {
		return false, err
	}
	return s.profileSvc.Delete(ctx, user.ID)
}

// UpdateUser changes the only mutable user fields: display name and
// metadata. Nil leaves a field untouched.
func (s *Service) UpdateUser(ctx context.Context, tenantSlug, userExternalID string, displayName *string, metadata map[string]interface{}) (*types.User, error) {
	_, user, err := s.resolveOrCreate(ctx, tenantSlug, userExternalID)
	if err != nil {
		return nil, err
	}
	return s.userSvc.Update(ctx, user.ID, displayName, metadata)
}
