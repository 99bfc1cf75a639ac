package config

import (
	"os"
)

type ResendConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
}

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	AppBaseURL  string
	PublicDir   string
	TmpDir      string
	CORSOrigins string
	Resend      ResendConfig
}

// Load reads the whole configuration once at startup. Everything that
// needs a value gets it from this struct; nothing else reads the
// environment after this point.
func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:8080"),
		PublicDir:   getEnv("PUBLIC_DIR", "public"),
		TmpDir:      getEnv("TMP_DIR", "tmp"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),
	}

	cfg.Resend.APIKey = os.Getenv("RESEND_API_KEY")
	cfg.Resend.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Resend.FromName = os.Getenv("EMAIL_FROM_NAME")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
