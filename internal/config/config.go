package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	// AuthSecret guards the admin routes. Empty leaves them open.
	AuthSecret string `mapstructure:"auth_secret"`
	LogLevel   string `mapstructure:"log_level"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	// SeedFile is applied at startup when the memory driver is used.
	SeedFile string `mapstructure:"seed_file"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool             `mapstructure:"enabled"`
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	SpinResult string `mapstructure:"spin_result"`
	ShopOrder  string `mapstructure:"shop_order"`
	DuckLedger string `mapstructure:"duck_ledger"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
}

type BusinessConfig struct {
	WorkerID          int64 `mapstructure:"worker_id"`
	MaxRetryCount     int   `mapstructure:"max_retry_count"`
	LockTTLSeconds    int   `mapstructure:"lock_ttl_seconds"`
	LockMaxRetries    int   `mapstructure:"lock_max_retries"`
	CacheTTLSeconds   int   `mapstructure:"cache_ttl_seconds"`
	OutboxIntervalMs  int   `mapstructure:"outbox_interval_ms"`
	OutboxBatchSize   int   `mapstructure:"outbox_batch_size"`
	NotifyMinRarity   int   `mapstructure:"notify_min_rarity"`
	AllowRequestSeeds bool  `mapstructure:"allow_request_seeds"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("app.name", "duckwheel")
	v.SetDefault("app.auth_secret", "")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.seed_file", "config/seed.yaml")
	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "duckwheel")
	v.SetDefault("mysql.max_open_conns", 50)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.topic.spin_result", "duckwheel.spin_result")
	v.SetDefault("kafka.topic.shop_order", "duckwheel.shop_order")
	v.SetDefault("kafka.topic.duck_ledger", "duckwheel.duck_ledger")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("business.worker_id", 1)
	v.SetDefault("business.max_retry_count", 5)
	v.SetDefault("business.lock_ttl_seconds", 30)
	v.SetDefault("business.lock_max_retries", 30)
	v.SetDefault("business.cache_ttl_seconds", 60)
	v.SetDefault("business.outbox_interval_ms", 100)
	v.SetDefault("business.outbox_batch_size", 100)
	v.SetDefault("business.notify_min_rarity", 4)
	v.SetDefault("business.allow_request_seeds", true)
}

// LoadConfig reads the YAML file at configPath and applies DUCKWHEEL_*
// environment overrides. A missing file is tolerated so the service can run on
// defaults and environment alone; a .env file in the working directory is
// loaded first when present.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("DUCKWHEEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	switch cfg.Storage.Driver {
	case StorageMySQL, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return cfg, nil
}
