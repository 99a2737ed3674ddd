package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Tenant struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string            `gorm:"size:255;not null;column:name" json:"name"`
	Slug      string            `gorm:"size:100;uniqueIndex;not null;column:slug" json:"slug"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb;column:settings" json:"settings"`
	CreatedAt time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
