// Package metriomemory maintains per-tenant and per-user long-lived memory
// and assembles the subset relevant to a conversation turn into a single
// text block for prompt injection.
//
// Memory lives at three scopes: user memories, tenant notes (curated) and
// tenant memories (derived, optionally promoted from a user memory). Writes
// embed content through the configured embedding provider before persisting;
// reads rank by cosine similarity inside the tenant/user boundary.
package metriomemory

import (
	"fmt"

	"github.com/JidouAI/metrio-memory/db"
	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/providers/embedding"
	"github.com/JidouAI/metrio-memory/providers/extraction"
	"github.com/JidouAI/metrio-memory/repos"
	"github.com/JidouAI/metrio-memory/services"
)

type Config struct {
	// DatabaseURL is a postgres DSN. The database needs the vector and
	// uuid-ossp extensions available.
	DatabaseURL string
	// LogMode selects the zap profile: "prod", "dev" (default) or "test".
	LogMode string
	// AutoMigrate creates/updates the schema on startup.
	AutoMigrate bool
	Embedding   embedding.Config
	// Extraction is optional; without it ProcessConversation fails with
	// errs.ErrUnconfiguredCapability.
	Extraction *extraction.Config
}

// Service is the library facade. All operations address identities by
// (tenant slug, user external id); writes create unknown identities
// lazily, reads degrade to empty results.
type Service struct {
	log *logger.Logger
	pg  *db.PostgresService

	tenantSvc       services.TenantService
	userSvc         services.UserService
	memorySvc       services.MemoryStoreService
	profileSvc      services.ProfileService
	noteSvc         services.TenantNoteService
	tenantMemorySvc services.TenantMemoryService
	contextSvc      services.ContextService
	ingestionSvc    services.IngestionService
	adminSvc        services.AdminService

	Tenants TenantsAPI
	Admin   AdminAPI
}

func New(cfg Config) (*Service, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := db.NewPostgresService(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := pg.AutoMigrateAll(); err != nil {
			return nil, err
		}
	}

	embedder, err := embedding.New(cfg.Embedding, log)
	if err != nil {
		return nil, err
	}

	var extractor extraction.Provider
	if cfg.Extraction != nil {
		extractor, err = extraction.New(*cfg.Extraction, log)
		if err != nil {
			return nil, err
		}
	}

	gdb := pg.DB()
	tenantRepo := repos.NewTenantRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	memoryRepo := repos.NewMemoryRepo(gdb, log)
	profileRepo := repos.NewProfileRepo(gdb, log)
	noteRepo := repos.NewTenantNoteRepo(gdb, log)
	tenantMemoryRepo := repos.NewTenantMemoryRepo(gdb, log)

	tenantSvc := services.NewTenantService(gdb, log, tenantRepo)
	userSvc := services.NewUserService(gdb, log, userRepo)
	memorySvc := services.NewMemoryStoreService(gdb, log, memoryRepo, embedder)
	profileSvc := services.NewProfileService(gdb, log, profileRepo, embedder)
	noteSvc := services.NewTenantNoteService(gdb, log, noteRepo, embedder)
	tenantMemorySvc := services.NewTenantMemoryService(gdb, log, tenantMemoryRepo, embedder)
	contextSvc := services.NewContextService(gdb, log, profileSvc, memorySvc, noteSvc, tenantMemorySvc)
	ingestionSvc := services.NewIngestionService(gdb, log, memorySvc, profileSvc, extractor)
	adminSvc := services.NewAdminService(gdb, log, tenantRepo, userRepo, memoryRepo, noteRepo, tenantMemoryRepo)

	svc := newService(log, tenantSvc, userSvc, memorySvc, profileSvc, noteSvc, tenantMemorySvc, contextSvc, ingestionSvc, adminSvc)
	svc.pg = pg
	return svc, nil
}

// newService wires a facade from already-built services. Tests use it to
// inject fakes.
func newService(
	log *logger.Logger,
	tenantSvc services.TenantService,
	userSvc services.UserService,
	memorySvc services.MemoryStoreService,
	profileSvc services.ProfileService,
	noteSvc services.TenantNoteService,
	tenantMemorySvc services.TenantMemoryService,
	contextSvc services.ContextService,
	ingestionSvc services.IngestionService,
	adminSvc services.AdminService,
) *Service {
	svc := &Service{
		log:             log,
		tenantSvc:       tenantSvc,
		userSvc:         userSvc,
		memorySvc:       memorySvc,
		profileSvc:      profileSvc,
		noteSvc:         noteSvc,
		tenantMemorySvc: tenantMemorySvc,
		contextSvc:      contextSvc,
		ingestionSvc:    ingestionSvc,
		adminSvc:        adminSvc,
	}
	svc.Tenants = TenantsAPI{
		Notes:    NotesAPI{svc: svc},
		Memories: TenantMemoriesAPI{svc: svc},
	}
	svc.Admin = AdminAPI{svc: svc}
	return svc
}

func (s *Service) Close() error {
	s.log.Sync()
	if s.pg == nil {
		return nil
	}
	return s.pg.Close()
}
