package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ApprovalPolicy controls the approval state of newly registered visitor
// reservations. The registry defaults to approving on registration so a
// resident never sees their own fresh registration missing from the list.
type ApprovalPolicy string

const (
	ApprovalAuto   ApprovalPolicy = "auto"
	ApprovalManual ApprovalPolicy = "manual"
)

type Config struct {
	HTTPAddr string

	// DBEnabled false runs against the in-memory store; useful for local
	// runs without a MySQL instance.
	DBEnabled bool

	DBUser string
	DBPass string
	DBAddr string
	DBName string

	// Display timezone for visit/created timestamps in API payloads.
	Timezone string

	Approval ApprovalPolicy
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":80"),
		DBEnabled: getEnv("DB_ENABLED", "true") == "true",
		DBUser:    getEnv("DB_USER", "root"),
		DBPass:    getEnv("DB_PASS", ""),
		DBAddr:    getEnv("DB_ADDR", "127.0.0.1:3306"),
		DBName:    getEnv("DB_NAME", "registry-go"),
		Timezone:  getEnv("DISPLAY_TIMEZONE", "Asia/Seoul"),
		Approval:  ApprovalPolicy(getEnv("APPROVAL_POLICY", string(ApprovalAuto))),
	}
	if cfg.Approval != ApprovalManual {
		cfg.Approval = ApprovalAuto
	}
	return cfg
}

// Location resolves the display timezone, falling back to UTC if the
// configured name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
