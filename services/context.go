package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/types"
)

const defaultRecentLimit = 3

// ContextService fans out to the profile, memory, note and tenant-memory
// stores and renders one deterministic text block for prompt injection.
type ContextService interface {
	Compose(ctx context.Context, tenantID, userID uuid.UUID, opts types.GetContextOptions) (*types.ContextResult, error)
}

type contextService struct {
	db             *gorm.DB
	log            *logger.Logger
	profiles       ProfileService
	memories       MemoryStoreService
	notes          TenantNoteService
	tenantMemories TenantMemoryService
}

func NewContextService(db *gorm.DB, log *logger.Logger, profiles ProfileService, memories MemoryStoreService, notes TenantNoteService, tenantMemories TenantMemoryService) ContextService {
	return &contextService{
		db:             db,
		log:            log.With("service", "ContextService"),
		profiles:       profiles,
		memories:       memories,
		notes:          notes,
		tenantMemories: tenantMemories,
	}
}

// Compose runs its four fetches concurrently; they touch disjoint data and
// none mutates state, so ordering between them does not matter.
func (s *contextService) Compose(ctx context.Context, tenantID, userID uuid.UUID, opts types.GetContextOptions) (*types.ContextResult, error) {
	recentLimit := opts.RecentLimit
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}

	var (
		profile     *types.UserProfile
		recent      []*types.Memory
		orgNotes    []*types.TenantNote
		orgMemories []*types.TenantMemory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.profiles.Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.memories.GetRecent(gctx, userID, recentLimit)
		return err
	})
	if opts.IncludeOrgNotes {
		g.Go(func() error {
			notes, err := s.notes.GetAll(gctx, tenantID)
			if err != nil {
				return err
			}
			orgNotes = filterNoteCategories(notes, opts.OrgNoteCategories)
			return nil
		})
	}
	if opts.IncludeOrgMemories {
		g.Go(func() error {
			var err error
			orgMemories, err = s.tenantMemories.GetAll(gctx, tenantID, opts.OrgMemoryTypes)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if recent == nil {
		recent = []*types.Memory{}
	}
	if orgNotes == nil {
		orgNotes = []*types.TenantNote{}
	}
	if orgMemories == nil {
		orgMemories = []*types.TenantMemory{}
	}

	return &types.ContextResult{
		Profile:        profile,
		RecentMemories: recent,
		OrgNotes:       orgNotes,
		OrgMemories:    orgMemories,
		Formatted:      formatContext(profile, recent, orgNotes, orgMemories),
	}, nil
}

func filterNoteCategories(notes []*types.TenantNote, categories []string) []*types.TenantNote {
	if len(categories) == 0 {
		return notes
	}
	allowed := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		allowed[c] = struct{}{}
	}
	filtered := make([]*types.TenantNote, 0, len(notes))
	for _, n := range notes {
		if _, ok := allowed[n.Category]; ok {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// formatContext renders sections in a fixed order, omitting a section
// entirely when its source is empty, and joining sections with one blank
// line. The ordering is a contract callers can rely on.
func formatContext(profile *types.UserProfile, recent []*types.Memory, orgNotes []*types.TenantNote, orgMemories []*types.TenantMemory) string {
	var sections []string

	if len(orgNotes) > 0 {
		lines := make([]string, len(orgNotes))
		for i, n := range orgNotes {
			lines[i] = fmt.Sprintf("- [%s] %s: %s", n.Category, n.Title, n.Content)
		}
		sections = append(sections, "## Organization Notes\n"+strings.Join(lines, "\n"))
	}

	if len(orgMemories) > 0 {
		lines := make([]string, len(orgMemories))
		for i, m := range orgMemories {
			lines[i] = fmt.Sprintf("- [%s] %s", m.MemoryType, m.Content)
		}
		sections = append(sections, "## Organization Knowledge\n"+strings.Join(lines, "\n"))
	}

	if profile != nil && profile.Summary != "" {
		sections = append(sections, "## Customer Profile\n"+profile.Summary)
	}

	if len(recent) > 0 {
		lines := make([]string, len(recent))
		for i, m := range recent {
			lines[i] = fmt.Sprintf("- [%s] %s", m.MemoryType, m.Content)
		}
		sections = append(sections, "## Recent Interactions\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}
