// Package config содержит логику чтения конфигурации клиента арт-маркетплейса.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации клиента и стаб-сервера маркетплейса.
type Config struct {
	APIAddress string `env:"ARTMARKET_API_ADDRESS"`
	TokenFile  string `env:"ARTMARKET_TOKEN_FILE"`
	RunAddress string `env:"RUN_ADDRESS"`
	AuthSecret string `env:"ARTMARKET_AUTH_SECRET"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIAddress := cfg.APIAddress
	envTokenFile := cfg.TokenFile
	envRunAddress := cfg.RunAddress
	envAuthSecret := cfg.AuthSecret

	flag.StringVar(&cfg.APIAddress, "r", "http://localhost:8080/api", "base URL of the marketplace API")
	flag.StringVar(&cfg.TokenFile, "t", "", "path to the session token file")
	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for the stub HTTP server")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret key for signing stub server tokens")

	flag.Parse()

	if envAPIAddress != "" {
		cfg.APIAddress = envAPIAddress
	}
	if envTokenFile != "" {
		cfg.TokenFile = envTokenFile
	}
	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envAuthSecret != "" {
		cfg.AuthSecret = envAuthSecret
	}

	if cfg.APIAddress == "" {
		cfg.APIAddress = "http://localhost:8080/api"
	}
	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}

	return cfg, nil
}

// FromEnv считывает конфигурацию только из переменных окружения. Используется
// консольным клиентом, где командной строкой владеет cobra.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.APIAddress == "" {
		cfg.APIAddress = "http://localhost:8080/api"
	}
	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}

	return cfg, nil
}

// DefaultTokenFile возвращает путь к файлу сессии по умолчанию в домашнем
// каталоге пользователя.
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".artmarket-session.json"
	}
	return filepath.Join(home, ".artmarket", "session.json")
}
