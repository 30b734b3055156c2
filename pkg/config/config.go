package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"CryptoSeason/pkg/logger"
	"CryptoSeason/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"required"`
	Log         logger.Config `yaml:"log"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Analysis struct {
		BaseURL      string        `yaml:"base_url" default:"http://localhost:8000" validate:"required,url"`
		Timeout      time.Duration `yaml:"timeout" default:"10s"`
		Assets       []string      `yaml:"assets" default:"[\"BTC\",\"ETH\"]" validate:"min=1"`
		DefaultAsset string        `yaml:"default_asset" default:"BTC"`
	} `yaml:"analysis"`
	Cache struct {
		Type  string        `yaml:"type" default:"none" validate:"oneof=none memory redis layered"`
		TTL   time.Duration `yaml:"ttl" default:"10m"`
		Redis struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"cryptoseason"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Sink struct {
		Type string `yaml:"type" default:"none" validate:"oneof=none kafka clickhouse"`
	} `yaml:"sink"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"season.snapshots"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"cryptoseason" validate:"required,alphanum"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		UseHTTP     bool          `yaml:"use_http"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"5"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"2"`
	} `yaml:"rate_limit"`
}

var (
	validate    = validator.New()
	assetSymbol = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// Default returns a configuration populated only from `default` tags.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ANALYSIS_BASE_URL"); v != "" {
		c.Analysis.BaseURL = v
	}
	if v := os.Getenv("ASSETS"); v != "" {
		c.Analysis.Assets = strings.Split(v, ",")
	}
	if v := os.Getenv("CACHE_TYPE"); v != "" {
		c.Cache.Type = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	c.Cache.Redis.Port = util.ParseIntDefault(os.Getenv("REDIS_PORT"), c.Cache.Redis.Port)
	c.ClickHouse.Port = util.ParseIntDefault(os.Getenv("CLICKHOUSE_PORT"), c.ClickHouse.Port)
	if v := os.Getenv("SINK_TYPE"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) normalize() {
	for i, a := range c.Analysis.Assets {
		c.Analysis.Assets[i] = strings.ToUpper(strings.TrimSpace(a))
	}
	c.Analysis.DefaultAsset = strings.ToUpper(strings.TrimSpace(c.Analysis.DefaultAsset))
	c.Analysis.BaseURL = strings.TrimRight(c.Analysis.BaseURL, "/")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	known := false
	for _, a := range c.Analysis.Assets {
		if !assetSymbol.MatchString(a) {
			return fmt.Errorf("analysis.assets: invalid symbol '%s'", a)
		}
		if a == c.Analysis.DefaultAsset {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("analysis.default_asset '%s' is not in analysis.assets", c.Analysis.DefaultAsset)
	}
	if c.Sink.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when sink.type is 'kafka'")
	}
	if c.Sink.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when sink.type is 'clickhouse'")
	}
	return nil
}
