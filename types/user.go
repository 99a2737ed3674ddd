package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:users_tenant_external_idx" json:"tenant_id"`
	Tenant      *Tenant           `gorm:"constraint:OnDelete:CASCADE;foreignKey:TenantID;references:ID" json:"tenant,omitempty"`
	ExternalID  string            `gorm:"size:255;not null;uniqueIndex:users_tenant_external_idx;column:external_id" json:"external_id"`
	DisplayName string            `gorm:"size:255;column:display_name" json:"display_name"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;column:metadata" json:"metadata"`
	CreatedAt   time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
