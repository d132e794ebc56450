package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Payment  PaymentConfig  `yaml:"payment"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// BookingConfig holds the acceptance windows the reference deployment
// hardcoded: departure year within [2023, 2025], birth year within
// [1963, 2023].
type BookingConfig struct {
	DepartureYearMin int `yaml:"departure_year_min"`
	DepartureYearMax int `yaml:"departure_year_max"`
	BirthYearMin     int `yaml:"birth_year_min"`
	BirthYearMax     int `yaml:"birth_year_max"`
	AirportsCacheTTL int `yaml:"airports_cache_ttl_seconds"`
	SearchCacheTTL   int `yaml:"search_cache_ttl_seconds"`
}

type PaymentConfig struct {
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type WorkerConfig struct {
	ReconcileSweepMinutes int `yaml:"reconcile_sweep_minutes"`
	ReconcileBatchSize    int `yaml:"reconcile_batch_size"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.DepartureYearMin == 0 {
		c.Booking.DepartureYearMin = 2023
	}
	if c.Booking.DepartureYearMax == 0 {
		c.Booking.DepartureYearMax = 2025
	}
	if c.Booking.BirthYearMin == 0 {
		c.Booking.BirthYearMin = 1963
	}
	if c.Booking.BirthYearMax == 0 {
		c.Booking.BirthYearMax = 2023
	}
	if c.Payment.TimeoutSeconds == 0 {
		c.Payment.TimeoutSeconds = 10
	}
	if c.Worker.ReconcileSweepMinutes == 0 {
		c.Worker.ReconcileSweepMinutes = 5
	}
	if c.Worker.ReconcileBatchSize == 0 {
		c.Worker.ReconcileBatchSize = 100
	}
}
