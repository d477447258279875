package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type EditorConfig struct {
	SystemPrefixes []string `yaml:"system_prefixes"`
	CacheTTL       string   `yaml:"cache_ttl"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Editor   EditorConfig   `yaml:"editor"`
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.Database.Type = normalizeDatabaseType(config.Database.Type)

	if config.Database.Type == "postgres" {
		if config.Database.SSLMode == "" {
			config.Database.SSLMode = "disable"
		}
		if config.Database.Port == 0 {
			config.Database.Port = 5432
		}
	}
	if config.Database.Type == "sqlite" && config.Database.Path == "" {
		config.Database.Path = config.Database.Database
	}

	return &config, nil
}

func (c *Config) GetConnectionString() string {
	switch c.Database.Type {
	case "sqlite":
		return c.Database.Path
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.Username,
			c.Database.Password,
			c.Database.Database,
			c.Database.SSLMode,
		)
	default:
		return ""
	}
}

// GetCacheTTL parses the configured metadata cache TTL; zero means
// "use the default".
func (c *Config) GetCacheTTL() time.Duration {
	raw := strings.TrimSpace(c.Editor.CacheTTL)
	if raw == "" {
		return 0
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

func normalizeDatabaseType(dbType string) string {
	dbType = strings.ToLower(strings.TrimSpace(dbType))
	if dbType == "" {
		return "postgres"
	}

	switch dbType {
	case "postgres", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return dbType
	}
}
