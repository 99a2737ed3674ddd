package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// TenantMemory is tenant-wide derived knowledge. SourceUserID/SourceMemoryID
// are non-owning provenance labels pointing at the user-scoped memory a row
// was promoted from; no cascade and no integrity enforcement.
type TenantMemory struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID       uuid.UUID         `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	Tenant         *Tenant           `gorm:"constraint:OnDelete:CASCADE;foreignKey:TenantID;references:ID" json:"tenant,omitempty"`
	Content        string            `gorm:"type:text;not null;column:content" json:"content"`
	Embedding      pgvector.Vector   `gorm:"type:vector(768);column:embedding" json:"-"`
	MemoryType     string            `gorm:"size:50;not null;index;column:memory_type" json:"memory_type"`
	Importance     int16             `gorm:"default:5;column:importance" json:"importance"`
	SourceUserID   *uuid.UUID        `gorm:"type:uuid;column:source_user_id" json:"source_user_id,omitempty"`
	SourceMemoryID *uuid.UUID        `gorm:"type:uuid;column:source_memory_id" json:"source_memory_id,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt      time.Time         `gorm:"not null;default:now()" json:"created_at"`
	ExpiresAt      *time.Time        `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (TenantMemory) TableName() string {
	return "tenant_memories"
}
