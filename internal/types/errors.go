package types

import "errors"

// Domain failures surfaced to callers. Handlers branch on these with
// errors.Is, so services must wrap rather than replace them.
var (
	ErrAlreadyEnrolled     = errors.New("already enrolled in this skill")
	ErrPrerequisitesNotMet = errors.New("prerequisites not completed")
	ErrInsufficientTokens  = errors.New("insufficient token balance")
	ErrAlreadyCompleted    = errors.New("enrollment already completed")
	ErrInvalidStep         = errors.New("invalid step index")
	ErrNoProgress          = errors.New("no completed lessons, nothing to credential")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAccountNotFound     = errors.New("token account not found")
)
