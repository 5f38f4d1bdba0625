package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	PostgresURL    string
	JWTKey         string
	Debug          bool
}

func Load() (Config, error) {
	cfg := Config{
		Addr:  ":5000",
		Debug: os.Getenv("DEBUG") == "true",
	}
	if port, ok := os.LookupEnv("PORT"); ok {
		cfg.Addr = ":" + port
	}

	origins, ok := os.LookupEnv("ALLOWED_ORIGINS")
	if !ok {
		return Config{}, fmt.Errorf("missing ALLOWED_ORIGINS")
	}
	cfg.AllowedOrigins = strings.Split(origins, ",")

	cfg.PostgresURL, ok = os.LookupEnv("POSTGRES_URL")
	if !ok {
		return Config{}, fmt.Errorf("missing POSTGRES_URL")
	}

	cfg.JWTKey, ok = os.LookupEnv("JWT_KEY")
	if !ok {
		return Config{}, fmt.Errorf("missing JWT_KEY")
	}

	return cfg, nil
}
