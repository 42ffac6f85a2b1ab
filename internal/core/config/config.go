package config

import (
	"github.com/vietddude/crosspay/internal/core/session"
	"github.com/vietddude/crosspay/internal/infra/storage/sqlite"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig        `yaml:"server"`
	Storage StorageConfig       `yaml:"storage"`
	Admin   session.Credentials `yaml:"admin"`
	Demo    DemoConfig          `yaml:"demo"`
	Logging LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds the console's health/metrics listener. Port 0 disables it.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig selects the local store.
type StorageConfig struct {
	Driver        string `yaml:"driver"` // sqlite, memory
	sqlite.Config `yaml:",inline"`
}

// DemoConfig controls demo data.
type DemoConfig struct {
	Seed *bool `yaml:"seed"` // nil = true
}

// SeedEnabled reports whether demo addresses are written into an empty registry.
func (d DemoConfig) SeedEnabled() bool {
	return d.Seed == nil || *d.Seed
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
