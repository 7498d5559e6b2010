package app

import (
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/cache"
	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/services"
)

type Services struct {
	Enrollment services.EnrollmentService
	Tier       services.TierService
	Credential services.CredentialService
	Token      services.TokenService
}

func wireServices(db *gorm.DB, log *logger.Logger, cat *catalog.Catalog, tierTable catalog.TierTable, reposet Repos, tierCache *cache.TierCache) Services {
	log.Info("Wiring services...")
	tierService := services.NewTierService(log, tierTable, reposet.Enrollment, tierCache)
	return Services{
		Enrollment: services.NewEnrollmentService(db, log, cat, reposet.Enrollment, reposet.TokenAccount, tierCache),
		Tier:       tierService,
		Credential: services.NewCredentialService(db, log, cat, tierService, reposet.Credential),
		Token:      services.NewTokenService(log, reposet.TokenAccount),
	}
}
