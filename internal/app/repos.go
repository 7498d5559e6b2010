package app

import (
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/repos"
)

type Repos struct {
	Enrollment   repos.EnrollmentRepo
	TokenAccount repos.TokenAccountRepo
	Credential   repos.CredentialRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Enrollment:   repos.NewEnrollmentRepo(db, log),
		TokenAccount: repos.NewTokenAccountRepo(db, log),
		Credential:   repos.NewCredentialRepo(db, log),
	}
}
