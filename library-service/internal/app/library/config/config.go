package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Library LibraryConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Report  ReportConfig
}

type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"` // Адрес хоста
	Port string `env:"SERVER_PORT" envDefault:"8083"`    // Порт служебного HTTP (health, metrics)
}

type LogConfig struct {
	Level        string `env:"LOG_LEVEL" envDefault:"info"`
	LogstashAddr string `env:"LOGSTASH_ADDR"` // Пустой адрес отключает Logstash
}

type LibraryConfig struct {
	CurrentUserID string        `env:"CURRENT_USER_ID" envDefault:"user-1"`
	QueryLatency  time.Duration `env:"QUERY_LATENCY" envDefault:"100ms"` // Имитация задержки удаленного бэкенда
	SeedFile      string        `env:"SEED_FILE"`                        // Пустой путь - встроенный каталог
	EventBuffer   int           `env:"EVENT_BUFFER" envDefault:"256"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"library"`
}

type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"library_review_events"` // Топик для событий REVIEW_CREATED

	WriteTimeout    time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"10s"`
	AutoCreateTopic bool          `env:"KAFKA_AUTO_CREATE_TOPIC" envDefault:"true"`
}

type ReportConfig struct {
	Schedule string        `env:"REPORT_SCHEDULE" envDefault:"@every 1h"`
	TTL      time.Duration `env:"REPORT_TTL" envDefault:"24h"` // Время жизни последнего отчета в Redis
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Library.CurrentUserID == "" {
		return errors.New("CURRENT_USER_ID must not be empty")
	}
	if c.Library.QueryLatency < 0 {
		return errors.New("QUERY_LATENCY must not be negative")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS must be set when KAFKA_ENABLED is true")
	}
	return nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}
