package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/repos"
	"github.com/JidouAI/metrio-memory/types"
)

// AdminService is the audit surface: raw listings (including expired rows)
// and bulk purges. Purges report affected row counts and never fail on
// "nothing to delete".
type AdminService interface {
	ListUserMemories(ctx context.Context, userID uuid.UUID) ([]*types.Memory, error)
	ListTenantNotes(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantNote, error)
	ListTenantMemories(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantMemory, error)
	PurgeUserMemories(ctx context.Context, userID uuid.UUID) (types.PurgeResult, error)
	PurgeTenantNotes(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error)
	PurgeTenantMemories(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error)
	// PurgeUser removes the user row itself; memories and profile cascade.
	PurgeUser(ctx context.Context, userID uuid.UUID) (types.PurgeResult, error)
	// PurgeTenant removes the tenant row; users, memories, notes and tenant
	// memories cascade.
	PurgeTenant(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error)
}

type adminService struct {
	db               *gorm.DB
	log              *logger.Logger
	tenantRepo       repos.TenantRepo
	userRepo         repos.UserRepo
	memoryRepo       repos.MemoryRepo
	tenantNoteRepo   repos.TenantNoteRepo
	tenantMemoryRepo repos.TenantMemoryRepo
}

func NewAdminService(db *gorm.DB, log *logger.Logger, tenantRepo repos.TenantRepo, userRepo repos.UserRepo, memoryRepo repos.MemoryRepo, tenantNoteRepo repos.TenantNoteRepo, tenantMemoryRepo repos.TenantMemoryRepo) AdminService {
	return &adminService{
		db:               db,
		log:              log.With("service", "AdminService"),
		tenantRepo:       tenantRepo,
		userRepo:         userRepo,
		memoryRepo:       memoryRepo,
		tenantNoteRepo:   tenantNoteRepo,
		tenantMemoryRepo: tenantMemoryRepo,
	}
}

func (s *adminService) ListUserMemories(ctx context.Context, userID uuid.UUID) ([]*types.Memory, error) {
	return s.memoryRepo.ListByUser(ctx, nil, userID)
}

func (s *adminService) ListTenantNotes(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantNote, error) {
	return s.tenantNoteRepo.ListByTenant(ctx, nil, tenantID)
}

func (s *adminService) ListTenantMemories(ctx context.Context, tenantID uuid.UUID) ([]*types.TenantMemory, error) {
	return s.tenantMemoryRepo.ListByTenant(ctx, nil, tenantID)
}

func (s *adminService) PurgeUserMemories(ctx context.Context, userID uuid.UUID) (types.PurgeResult, error) {
	count, err := s.memoryRepo.DeleteByUser(ctx, nil, userID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	s.log.Info("User memories purged", "user_id", userID, "deleted", count)
	return types.PurgeResult{DeletedCount: count}, nil
}

func (s *adminService) PurgeTenantNotes(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error) {
	count, err := s.tenantNoteRepo.DeleteByTenant(ctx, nil, tenantID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	s.log.Info("Tenant notes purged", "tenant_id", tenantID, "deleted", count)
	return types.PurgeResult{DeletedCount: count}, nil
}

func (s *adminService) PurgeTenantMemories(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error) {
	count, err := s.tenantMemoryRepo.DeleteByTenant(ctx, nil, tenantID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	s.log.Info("Tenant memories purged", "tenant_id", tenantID, "deleted", count)
	return types.PurgeResult{DeletedCount: count}, nil
}

func (s *adminService) PurgeUser(ctx context.Context, userID uuid.UUID) (types.PurgeResult, error) {
	count, err := s.userRepo.Delete(ctx, nil, userID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	s.log.Info("User purged", "user_id", userID, "deleted", count)
	return types.PurgeResult{DeletedCount: count}, nil
}

func (s *adminService) PurgeTenant(ctx context.Context, tenantID uuid.UUID) (types.PurgeResult, error) {
	count, err := s.tenantRepo.Delete(ctx, nil, tenantID)
	if err != nil {
		return types.PurgeResult{}, err
	}
	s.log.Info("Tenant purged", "tenant_id", tenantID, "deleted", count)
	return types.PurgeResult{DeletedCount: count}, nil
}
