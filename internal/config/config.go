package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	FakeStore FakeStoreConfig `envPrefix:"FAKESTORE_"`
	Cart      CartConfig      `envPrefix:"CART_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Kafka     KafkaConfig     `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:"0.0.0.0:8080"`
	// CORSOriginPattern is matched against the Origin header; empty disables CORS.
	CORSOriginPattern string `env:"CORS_ORIGIN_PATTERN" envDefault:""`
}

type FakeStoreConfig struct {
	BaseURL    string        `env:"BASE_URL" envDefault:"https://fakestoreapi.com"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RetryCount int           `env:"RETRY_COUNT" envDefault:"1"`
}

type CartConfig struct {
	// SyncWorkers bounds the background pushes outstanding per session.
	SyncWorkers int           `env:"SYNC_WORKERS" envDefault:"4"`
	SyncTimeout time.Duration `env:"SYNC_TIMEOUT" envDefault:"15s"`
}

type DatabaseConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"storefront"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"storefront.cart-events"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
