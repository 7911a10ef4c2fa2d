package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

var (
	ErrUnknownStorage   = errors.New("unknown storage")
	ErrInvalidBoardSize = errors.New("board must have positive dimensions")
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"8088"`
	Storage  string `yaml:"storage" env:"STORAGE" env-default:"redis"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
	Client   Client `yaml:"client"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Game struct {
	Rows              int  `yaml:"rows" env:"GAME_ROWS" env-default:"6"`
	Columns           int  `yaml:"columns" env:"GAME_COLUMNS" env-default:"9"`
	EnforceTurns      bool `yaml:"enforce-turns" env:"GAME_ENFORCE_TURNS" env-default:"false"`
	MaxUpdateAttempts int  `yaml:"max-update-attempts" env:"GAME_MAX_UPDATE_ATTEMPTS" env-default:"5"`
}

type Client struct {
	ServerURL      string        `yaml:"server-url" env:"CLIENT_SERVER_URL" env-default:"http://localhost:8088"`
	PollInterval   time.Duration `yaml:"poll-interval" env:"CLIENT_POLL_INTERVAL" env-default:"3s"`
	RequestTimeout time.Duration `yaml:"request-timeout" env:"CLIENT_REQUEST_TIMEOUT" env-default:"5s"`
	LogFile        string        `yaml:"log-file" env:"CLIENT_LOG_FILE" env-default:""`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// MustLoadEnv - load configuration from the environment only.
func MustLoadEnv() *Config {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("unable to read environment: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Storage {
	case StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}

	if that.Game.Rows <= 0 || that.Game.Columns <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBoardSize, that.Game.Rows, that.Game.Columns)
	}

	if that.Game.MaxUpdateAttempts <= 0 {
		that.Game.MaxUpdateAttempts = 1
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// SlogLevel - maps the configured log level onto slog, unknown levels fall back to info.
func (that *Config) SlogLevel() slog.Level {
	switch that.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
