package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/ugaemi/dragonboatrace-server/internal/game"
)

type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	DatabaseURL string // empty keeps saves and results in memory

	PlayerCount int
	Difficulty  int
	RaceLength  int
	TickRate    int
}

// Load reads a .env file when one is present, then the environment. A .env
// file that cannot be parsed is reported through the error while the
// returned Config still holds the values read from the environment.
func Load() (*Config, error) {
	var envErr error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		envErr = fmt.Errorf("load .env: %w", err)
	}

	defaults := game.DefaultSettings()
	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		PlayerCount: getEnvInt("PLAYER_COUNT", defaults.PlayerCount),
		Difficulty:  getEnvInt("DIFFICULTY", defaults.Difficulty),
		RaceLength:  getEnvInt("RACE_LENGTH", defaults.RaceLength),
		TickRate:    getEnvInt("TICK_RATE", game.DefaultTickRate),
	}
	return cfg, envErr
}

// Settings builds validated race settings from the configuration.
func (c *Config) Settings() (game.Settings, error) {
	s := game.DefaultSettings()
	s.PlayerCount = c.PlayerCount
	s.Difficulty = c.Difficulty
	s.RaceLength = c.RaceLength
	if err := s.Validate(); err != nil {
		return game.Settings{}, err
	}
	return s, nil
}

// TickInterval is the time between race updates.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / game.DefaultTickRate
	}
	return time.Second / time.Duration(c.TickRate)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
