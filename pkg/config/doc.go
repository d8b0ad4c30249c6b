// Package config loads environment-based configuration into tagged structs.
// It layers github.com/joho/godotenv (optional .env files) under
// github.com/caarlos0/env (struct parsing) and caches each config type so
// components can load their own slice of the environment independently
// without re-parsing.
package config
