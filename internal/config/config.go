package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	// StoreDriver selects the persistence backend: blob|sqlite|postgres.
	// blob keeps one JSON document per collection under BlobBasePath.
	StoreDriver string
	DBDSN       string

	BlobBasePath string

	AuthSecret string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		StoreDriver:  envOr("STORE_DRIVER", "blob"),
		DBDSN:        os.Getenv("DB_DSN"),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:   envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),
		CORSOrigins:  csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	parts := strings.Split(envOr(k, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
