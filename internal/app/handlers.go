package app

import (
	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/handlers"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
)

type Handlers struct {
	Training   *handlers.TrainingHandler
	Credential *handlers.CredentialHandler
	Token      *handlers.TokenHandler
}

func wireHandlers(log *logger.Logger, cat *catalog.Catalog, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Training:   handlers.NewTrainingHandler(log, cat, serviceset.Enrollment),
		Credential: handlers.NewCredentialHandler(log, serviceset.Tier, serviceset.Credential),
		Token:      handlers.NewTokenHandler(log, serviceset.Token),
	}
}
