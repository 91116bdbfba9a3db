package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr   string
	GinMode   string
	DBDSN     string
	JWTSecret string
	LogLevel  string
}

func LoadEnv() Env {
	// .env is optional; deployments normally set variables directly.
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "fleetops-dev-secret-change-me"
	}

	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}

	return Env{
		AppAddr:   appAddr,
		GinMode:   strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:     strings.TrimSpace(os.Getenv("DB_DSN")),
		JWTSecret: secret,
		LogLevel:  level,
	}
}
