package types

import (
	"time"

	"github.com/google/uuid"
)

// DefaultImportance is used when a caller or extractor leaves importance
// unset (zero).
const DefaultImportance int16 = 5

// DefaultPriority mirrors DefaultImportance for tenant notes.
const DefaultPriority int16 = 5

type AddMemoryInput struct {
	Content         string
	MemoryType      string
	Importance      int16 // 0 means DefaultImportance
	Metadata        map[string]interface{}
	RawConversation []ConversationMessage
}

type SearchOptions struct {
	Limit     int     // 0 means 10
	Threshold float64 // 0 means 0.3; rows kept when similarity > threshold
}

type AddTenantNoteInput struct {
	Category  string
	Title     string
	Content   string
	Tags      []string
	Priority  int16 // 0 means DefaultPriority
	Metadata  map[string]interface{}
	ExpiresAt *time.Time
}

type SearchTenantNotesInput struct {
	Query    string
	Limit    int    // 0 means 10
	Category string // optional equality filter
}

type AddTenantMemoryInput struct {
	Content        string
	Type           string
	Importance     int16 // 0 means DefaultImportance
	SourceUserID   *uuid.UUID
	SourceMemoryID *uuid.UUID
	Metadata       map[string]interface{}
}

type PromoteFromUserInput struct {
	SourceMemoryID uuid.UUID
	Content        string
	Type           string
	Importance     int16 // 0 means DefaultImportance
}

type SearchTenantMemoriesInput struct {
	Query string
	Limit int    // 0 means 10
	Type  string // optional equality filter on memory_type
}

type GetContextOptions struct {
	RecentLimit        int // 0 means 3
	IncludeOrgNotes    bool
	OrgNoteCategories  []string // optional allow-list, applied after fetch
	IncludeOrgMemories bool
	OrgMemoryTypes     []string // optional inclusion filter
}
