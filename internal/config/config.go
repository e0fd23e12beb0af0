package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env-default:"info"`
	BoardSize         int    `yaml:"board-size" env-default:"15"`
	WinLength         int    `yaml:"win-length" env-default:"5"`
	Redis             Redis  `yaml:"redis"`
	Oracle            Oracle `yaml:"oracle"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env-default:"gomoku.db"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Oracle struct {
	URL     string        `yaml:"url" env-default:""`
	APIKey  string        `yaml:"api-key" env-default:""`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
