package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EnrollmentInProgress = "in_progress"
	EnrollmentCompleted  = "completed"
)

// Enrollment is a subject's progress through one lesson. At most one row
// exists per (subject, skill), ever; rows are never deleted.
type Enrollment struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"enrollment_id"`
	SubjectID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_subject_skill,unique" json:"subject_id"`
	SkillID        string         `gorm:"column:skill_id;not null;index:idx_subject_skill,unique" json:"skill_id"`
	Status         string         `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	CompletedSteps datatypes.JSON `gorm:"type:jsonb;column:completed_steps" json:"completed_steps"`
	CompletedAt    *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Enrollment) TableName() string { return "training_enrollment" }

// StepIndices decodes the completed step set. The stored form is a sorted
// JSON int array.
func (e *Enrollment) StepIndices() ([]int, error) {
	if len(e.CompletedSteps) == 0 {
		return nil, nil
	}
	var out []int
	if err := json.Unmarshal(e.CompletedSteps, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Enrollment) SetStepIndices(indices []int) error {
	if indices == nil {
		indices = []int{}
	}
	raw, err := json.Marshal(indices)
	if err != nil {
		return err
	}
	e.CompletedSteps = datatypes.JSON(raw)
	return nil
}

func (e *Enrollment) HasStep(index int) (bool, error) {
	done, err := e.StepIndices()
	if err != nil {
		return false, err
	}
	for _, i := range done {
		if i == index {
			return true, nil
		}
	}
	return false, nil
}
