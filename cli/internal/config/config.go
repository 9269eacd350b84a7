package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// FileName is the config file name without extension
const FileName = ".sqlbuilder"

// Config holds the application configuration
type Config struct {
	Provider          string
	DatabaseURL       string
	PreparedStatement bool
	CamelCase         bool
	SlowThreshold     time.Duration
	CacheSize         int
	StatementsPath    string
}

// LoadConfig loads configuration from the config file, the environment and
// .env files
func LoadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cwd)
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "sqlbuilder"))

	v.SetEnvPrefix("SQLBUILDER")
	v.AutomaticEnv()

	v.SetDefault("provider", "sqlite")
	v.SetDefault("prepared_statement", true)
	v.SetDefault("camel_case", false)
	v.SetDefault("slow_threshold", "100ms")
	v.SetDefault("cache_size", 64)
	v.SetDefault("statements_path", "statements.yaml")

	// Missing config file is fine
	_ = v.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	// .env.local wins over .env
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Provider:          v.GetString("provider"),
		DatabaseURL:       v.GetString("database_url"),
		PreparedStatement: v.GetBool("prepared_statement"),
		CamelCase:         v.GetBool("camel_case"),
		SlowThreshold:     v.GetDuration("slow_threshold"),
		CacheSize:         v.GetInt("cache_size"),
		StatementsPath:    v.GetString("statements_path"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// SaveConfig writes cfg to .sqlbuilder.yaml in the working directory, or to
// ~/.config/sqlbuilder/.sqlbuilder.yaml when global is set. It returns the
// path written.
func SaveConfig(cfg *Config, global bool) (string, error) {
	v := viper.New()
	v.SetFs(AppFs)
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("prepared_statement", cfg.PreparedStatement)
	v.Set("camel_case", cfg.CamelCase)
	v.Set("slow_threshold", cfg.SlowThreshold.String())
	v.Set("cache_size", cfg.CacheSize)
	v.Set("statements_path", cfg.StatementsPath)

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if global {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "sqlbuilder")
		if err := AppFs.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	configFile := filepath.Join(dir, FileName+".yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return "", err
	}
	return configFile, nil
}
