package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Vector widths are fixed per column family. User-scoped content is embedded
// with the wide model, tenant-scoped content with the narrow one; a provider
// swap must match the column width or the insert fails at persistence time.
const (
	UserVectorDim   = 3072
	TenantVectorDim = 768
)

// Memory is a discrete user-scoped fact or preference. Immutable once
// written except for deletion.
type Memory struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	User            *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Content         string            `gorm:"type:text;not null;column:content" json:"content"`
	RawConversation datatypes.JSON    `gorm:"type:jsonb;column:raw_conversation" json:"raw_conversation,omitempty"`
	Embedding       pgvector.Vector   `gorm:"type:vector(3072);column:embedding" json:"-"`
	MemoryType      string            `gorm:"size:50;not null;index;column:memory_type" json:"memory_type"`
	Importance      int16             `gorm:"default:5;column:importance" json:"importance"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt       time.Time         `gorm:"not null;default:now();index" json:"created_at"`
	ExpiresAt       *time.Time        `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (Memory) TableName() string {
	return "memories"
}
