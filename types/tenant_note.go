package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// TenantNote is curated, manually authored tenant-wide knowledge. Notes can
// be soft-deactivated via IsActive instead of deleted.
type TenantNote struct {
	ID        uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID  uuid.UUID                  `gorm:"type:uuid;not null;index;column:tenant_id" json:"tenant_id"`
	Tenant    *Tenant                    `gorm:"constraint:OnDelete:CASCADE;foreignKey:TenantID;references:ID" json:"tenant,omitempty"`
	Category  string                     `gorm:"size:100;not null;index;column:category" json:"category"`
	Title     string                     `gorm:"size:255;not null;column:title" json:"title"`
	Content   string                     `gorm:"type:text;not null;column:content" json:"content"`
	Embedding pgvector.Vector            `gorm:"type:vector(768);column:embedding" json:"-"`
	IsActive  bool                       `gorm:"default:true;column:is_active" json:"is_active"`
	Priority  int16                      `gorm:"default:5;column:priority" json:"priority"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb;column:tags" json:"tags"`
	Metadata  datatypes.JSONMap          `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt time.Time                  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time                  `gorm:"not null;default:now()" json:"updated_at"`
	ExpiresAt *time.Time                 `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (TenantNote) TableName() string {
	return "tenant_notes"
}
