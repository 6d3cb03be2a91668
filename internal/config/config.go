package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Sephora  SephoraConfig  `mapstructure:"sephora"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// SephoraConfig holds catalog API configuration
type SephoraConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxWorkers           int    `mapstructure:"max_workers"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	PageSize             int    `mapstructure:"page_size"`
	CategoriesFile       string `mapstructure:"categories_file"`
}

// StorageConfig holds the on-disk document store configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// DatabaseConfig holds the optional postgres sink configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details for run-progress state
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// LoaderConfig holds the downstream catalog push API configuration
type LoaderConfig struct {
	APIURL   string `mapstructure:"api_url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MetricsConfig holds the prometheus listener configuration
type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// LoadCategories reads the raw category key -> display name mapping from the
// configured JSON file.
func (c *Config) LoadCategories() (map[string]string, error) {
	data, err := os.ReadFile(c.Sephora.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	var categories map[string]string
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("decode categories file %s: %w", c.Sephora.CategoriesFile, err)
	}

	return categories, nil
}

func setDefaults() {
	viper.SetDefault("sephora.base_url", "http://www.sephora.com")
	viper.SetDefault("sephora.timeout", 60)
	viper.SetDefault("sephora.max_retries", 3)
	viper.SetDefault("sephora.max_workers", 4)
	viper.SetDefault("sephora.max_requests_per_second", 5)
	viper.SetDefault("sephora.page_size", 100)
	viper.SetDefault("sephora.categories_file", "./revised_categories.json")

	viper.SetDefault("storage.data_dir", "./data")

	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "sephora")
	viper.SetDefault("database.user", "sephora_user")
	viper.SetDefault("database.password", "sephora_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)

	viper.SetDefault("loader.api_url", "https://makeup-production.herokuapp.com")
	viper.SetDefault("loader.username", "")
	viper.SetDefault("loader.password", "")

	viper.SetDefault("metrics.port", 9090)
}
