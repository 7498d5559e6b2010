package types

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a frozen snapshot of a subject's rank at issuance time.
// Rows are append-only; re-issuance as rank rises leaves earlier rows intact.
type Credential struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"credential_id"`
	SubjectID      uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	TierNumber     int       `gorm:"column:tier_number;not null" json:"tier_number"`
	TierName       string    `gorm:"column:tier_name;not null" json:"tier_name"`
	TierColor      string    `gorm:"column:tier_color" json:"tier_color"`
	CompletedCount int       `gorm:"column:completed_count;not null" json:"completed_count"`
	IssuedAt       time.Time `gorm:"column:issued_at;not null" json:"issued_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Credential) TableName() string { return "k9_credential" }
