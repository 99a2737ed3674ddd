package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// UserProfile is the single rolling summary kept per user. Upserts replace
// the summary wholesale and bump Version.
type UserProfile struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`
	User             *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Summary          string          `gorm:"type:text;default:'';column:summary" json:"summary"`
	SummaryEmbedding pgvector.Vector `gorm:"type:vector(3072);column:summary_embedding" json:"-"`
	Version          int16           `gorm:"default:1;column:version" json:"version"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
