package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MemorySearchResult is one similarity-ranked row from a user-memory search.
type MemorySearchResult struct {
	ID         uuid.UUID `json:"id"`
	Content    string    `json:"content"`
	MemoryType string    `json:"memory_type"`
	Importance int16     `json:"importance"`
	Similarity float64   `json:"similarity"`
	CreatedAt  time.Time `json:"created_at"`
}

type TenantNoteSearchResult struct {
	ID         uuid.UUID                   `json:"id"`
	TenantID   uuid.UUID                   `json:"tenant_id"`
	Category   string                      `json:"category"`
	Title      string                      `json:"title"`
	Content    string                      `json:"content"`
	IsActive   bool                        `json:"is_active"`
	Priority   int16                       `json:"priority"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Metadata   datatypes.JSONMap           `json:"metadata"`
	Similarity float64                     `json:"similarity"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
	ExpiresAt  *time.Time                  `json:"expires_at,omitempty"`
}

type TenantMemorySearchResult struct {
	ID             uuid.UUID         `json:"id"`
	TenantID       uuid.UUID         `json:"tenant_id"`
	Content        string            `json:"content"`
	MemoryType     string            `json:"memory_type"`
	Importance     int16             `json:"importance"`
	SourceUserID   *uuid.UUID        `json:"source_user_id,omitempty"`
	SourceMemoryID *uuid.UUID        `json:"source_memory_id,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata"`
	Similarity     float64           `json:"similarity"`
	CreatedAt      time.Time         `json:"created_at"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
}

// ContextResult bundles everything the composer fetched plus the formatted
// block ready for prompt injection.
type ContextResult struct {
	Profile        *UserProfile    `json:"profile,omitempty"`
	RecentMemories []*Memory       `json:"recent_memories"`
	OrgNotes       []*TenantNote   `json:"org_notes"`
	OrgMemories    []*TenantMemory `json:"org_memories"`
	Formatted      string          `json:"formatted"`
}

type ProcessConversationResult struct {
	Memories       []*Memory `json:"memories"`
	ProfileUpdated bool      `json:"profile_updated"`
}

// PurgeResult reports how many rows an admin purge removed.
type PurgeResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
