package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string           `yaml:"environment" default:"development" validate:"required,oneof=development staging production"`
	Log         LogConfig        `yaml:"log"`
	Provider    ProviderConfig   `yaml:"provider"`
	Batch       BatchConfig      `yaml:"batch"`
	Output      OutputConfig     `yaml:"output"`
	Cache       CacheConfig      `yaml:"cache"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	Server      ServerConfig     `yaml:"server"`
	Metrics     MetricsConfig    `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

// ProviderConfig configures the market data provider client.
type ProviderConfig struct {
	BaseURL       string        `yaml:"base_url" default:"https://query2.finance.yahoo.com" validate:"required,url"`
	UserAgent     string        `yaml:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
	Timeout       time.Duration `yaml:"timeout" default:"20s" validate:"gt=0"`
	RateLimit     float64       `yaml:"rate_limit" default:"4" validate:"gt=0"`
	Burst         int           `yaml:"burst" default:"4" validate:"min=1"`
	RetryAttempts int           `yaml:"retry_attempts" default:"4" validate:"min=0,max=10"`
	BackoffMin    time.Duration `yaml:"backoff_min" default:"500ms"`
	BackoffMax    time.Duration `yaml:"backoff_max" default:"10s"`
	HistoryYears  int           `yaml:"history_years" default:"6" validate:"min=1,max=30"`
	Verbose       bool          `yaml:"verbose"`
	Cookie        string        `yaml:"cookie"`
	Crumb         string        `yaml:"crumb"`
}

type BatchConfig struct {
	Symbols     []string `yaml:"symbols"`
	Concurrency int      `yaml:"concurrency" default:"3" validate:"min=1,max=32"`
	// TargetCurrency overrides the quote currency statements are converted to.
	TargetCurrency string `yaml:"target_currency" validate:"omitempty,len=3"`
}

type OutputConfig struct {
	WideCSV string `yaml:"wide_csv" default:"output/fundamentals_wide.csv"`
	LongCSV string `yaml:"long_csv" default:"output/fundamentals_long.csv"`
}

type CacheConfig struct {
	MemorySize int           `yaml:"memory_size" default:"512" validate:"min=1"`
	TTL        time.Duration `yaml:"ttl" default:"6h"`
	Redis      RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"fundamentals"`
}

type ClickHouseConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"fundamentals"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
}

type KafkaConfig struct {
	Enabled      bool                `yaml:"enabled"`
	Brokers      []string            `yaml:"brokers"`
	ReportTopic  string              `yaml:"report_topic" default:"fundamentals.reports"`
	RequestTopic string              `yaml:"request_topic" default:"fundamentals.report-requests"`
	LogTopic     string              `yaml:"log_topic"`
	RequiredAcks int                 `yaml:"required_acks" default:"-1" validate:"oneof=-1 0 1"`
	Compression  string              `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	Producer     KafkaProducerConfig `yaml:"producer"`
	Consumer     KafkaConsumerConfig `yaml:"consumer"`
}

type KafkaProducerConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	BatchSize    int           `yaml:"batch_size" default:"100"`
	BatchTimeout time.Duration `yaml:"batch_timeout" default:"500ms"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	Async        bool          `yaml:"async"`
}

type KafkaConsumerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	GroupID         string        `yaml:"group_id" default:"fundamentals"`
	AutoOffsetReset string        `yaml:"auto_offset_reset" default:"latest" validate:"oneof=earliest latest"`
	Workers         int           `yaml:"workers" default:"2" validate:"min=1"`
	BufferSize      int           `yaml:"buffer_size" default:"16"`
	RetryMax        int           `yaml:"retry_max" default:"2"`
	BackoffMin      time.Duration `yaml:"backoff_min" default:"200ms"`
	BackoffMax      time.Duration `yaml:"backoff_max" default:"5s"`
	DLQTopic        string        `yaml:"dlq_topic"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"90s"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML configuration file over the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Batch.Symbols = splitList(v)
	}
	if v := os.Getenv("TARGET_CURRENCY"); v != "" {
		c.Batch.TargetCurrency = strings.TrimSpace(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("YAHOO_COOKIE"); v != "" {
		c.Provider.Cookie = v
	}
	if v := os.Getenv("YAHOO_CRUMB"); v != "" {
		c.Provider.Crumb = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func read(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Validate checks struct tags and the rules that span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	var errs []error
	if c.Provider.BackoffMax < c.Provider.BackoffMin {
		errs = append(errs, fmt.Errorf("provider.backoff_max must be >= provider.backoff_min"))
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		errs = append(errs, fmt.Errorf("clickhouse.host is required when clickhouse is enabled"))
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled"))
		}
		if c.Kafka.ReportTopic == "" {
			errs = append(errs, fmt.Errorf("kafka.report_topic is required when kafka is enabled"))
		}
		if c.Kafka.Consumer.Enabled && c.Kafka.RequestTopic == "" {
			errs = append(errs, fmt.Errorf("kafka.request_topic is required when the consumer is enabled"))
		}
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("cache.redis.addr is required when redis is enabled"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
