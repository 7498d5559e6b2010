package app

import (
	"strings"
	"time"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string
	DBDriver     string
	CatalogPath  string
	RedisAddr    string
	TierCacheTTL time.Duration
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		DBDriver:     utils.GetEnv("DB_DRIVER", "postgres", log),
		CatalogPath:  utils.GetEnv("CATALOG_PATH", "", log),
		RedisAddr:    utils.GetEnv("REDIS_ADDR", "", log),
		TierCacheTTL: time.Duration(utils.GetEnvAsInt("TIER_CACHE_TTL_SECONDS", 300, log)) * time.Second,
		AllowOrigins: origins,
	}
}
