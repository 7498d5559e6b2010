package types

import (
	"time"

	"github.com/google/uuid"
)

// TokenAccount holds the spendable balance of the account owning a subject.
// The engine only ever debits; credits arrive from the external
// purchase/reward collaborator through the grant endpoint.
type TokenAccount struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"subject_id"`
	Balance   int       `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TokenAccount) TableName() string { return "token_account" }
