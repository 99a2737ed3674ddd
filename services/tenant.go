package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/repos"
	"github.com/JidouAI/metrio-memory/types"
)

type TenantService interface {
	// GetOrCreate resolves a slug to a tenant, creating it on first use.
	GetOrCreate(ctx context.Context, slug string) (*types.Tenant, error)
	// GetBySlug returns nil without error when the tenant does not exist.
	GetBySlug(ctx context.Context, slug string) (*types.Tenant, error)
}

type tenantService struct {
	db         *gorm.DB
	log        *logger.Logger
	tenantRepo repos.TenantRepo
}

func NewTenantService(db *gorm.DB, log *logger.Logger, tenantRepo repos.TenantRepo) TenantService {
	return &tenantService{
		db:         db,
		log:        log.With("service", "TenantService"),
		tenantRepo: tenantRepo,
	}
}

func (s *tenantService) GetOrCreate(ctx context.Context, slug string) (*types.Tenant, error) {
	return s.tenantRepo.GetOrCreate(ctx, nil, slug, "")
}

func (s *tenantService) GetBySlug(ctx context.Context, slug string) (*types.Tenant, error) {
	return s.tenantRepo.GetBySlug(ctx, nil, slug)
}
