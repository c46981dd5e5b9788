package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Remote RemoteConfig `yaml:"remote"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

type CacheConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig points at the JSON document in a GitHub repository.
type RemoteConfig struct {
	APIURL string `yaml:"api_url"`
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

func (r RemoteConfig) Enabled() bool {
	return r.Owner != "" && r.Repo != ""
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	File string `yaml:"file"`
}

func Defaults() Config {
	return Config{
		Cache: CacheConfig{
			Path: "projects.db",
		},
		Remote: RemoteConfig{
			APIURL: "https://api.github.com",
			Branch: "main",
			Path:   "data.json",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load reads .env, an optional YAML file and environment overrides, in that order.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Defaults()

	if path := os.Getenv("PROJTRACK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PROJTRACK_CACHE_PATH":     &cfg.Cache.Path,
		"PROJTRACK_GITHUB_API_URL": &cfg.Remote.APIURL,
		"PROJTRACK_GITHUB_OWNER":   &cfg.Remote.Owner,
		"PROJTRACK_GITHUB_REPO":    &cfg.Remote.Repo,
		"PROJTRACK_GITHUB_BRANCH":  &cfg.Remote.Branch,
		"PROJTRACK_GITHUB_PATH":    &cfg.Remote.Path,
		"PROJTRACK_SERVER_HOST":    &cfg.Server.Host,
		"PROJTRACK_LOG_FILE":       &cfg.Log.File,
	}
	for key, target := range strs {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}

	if portStr := os.Getenv("PROJTRACK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PROJTRACK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	return nil
}

func (c Config) Validate() error {
	if c.Cache.Path == "" {
		return fmt.Errorf("cache path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if (c.Remote.Owner == "") != (c.Remote.Repo == "") {
		return fmt.Errorf("remote owner and repo must be set together")
	}
	return nil
}
