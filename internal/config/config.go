package config

import "os"

type Config struct {
	Port         string
	JWTSecret    string
	UpstreamURL  string // empty disables the best-effort backend client
	DemoPassword string // password for the seeded local login directory
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		UpstreamURL:  getEnv("UPSTREAM_URL", ""),
		DemoPassword: getEnv("DEMO_PASSWORD", "demo123"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
