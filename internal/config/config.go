package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	MoveService MoveService   `yaml:"move-service"`
	Delays      Delays        `yaml:"delays"`
	Redis       Redis         `yaml:"redis"`
	SessionTTL  time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"24h"`
}

type MoveService struct {
	URL string `yaml:"url" env:"MOVE_SERVICE_URL" env-default:"http://localhost:5000"`
	// Timeout of zero leaves the request unbounded.
	Timeout time.Duration `yaml:"timeout" env:"MOVE_SERVICE_TIMEOUT" env-default:"0s"`
}

type Delays struct {
	Think     time.Duration `yaml:"think" env:"DELAY_THINK" env-default:"600ms"`
	Highlight time.Duration `yaml:"highlight" env:"DELAY_HIGHLIGHT" env-default:"100ms"`
	Reset     time.Duration `yaml:"reset" env:"DELAY_RESET" env-default:"300ms"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - loads .env (if any) and then config.yml; without config.yml only env and defaults apply.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
