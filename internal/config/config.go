package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置，来自 .env 文件和环境变量
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	JWTAccessSecret  string `mapstructure:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`
	CSRFSecret       string `mapstructure:"CSRF_SECRET"`
	CSRFSecureCookie bool   `mapstructure:"CSRF_SECURE_COOKIE"`
	CORSOrigin       string `mapstructure:"CORS_ORIGIN"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`

	ActivityTTL time.Duration `mapstructure:"ACTIVITY_TTL"`
}

var defaults = map[string]any{
	"HTTP_ADDR":          ":8080",
	"LOG_LEVEL":          "info",
	"DB_DRIVER":          "mysql",
	"DATABASE_URL":       "root:root@tcp(127.0.0.1:3306)/campus?charset=utf8mb4&parseTime=True&loc=Local",
	"REDIS_ADDR":         "127.0.0.1:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"JWT_ACCESS_SECRET":  "dev-access-secret",
	"JWT_REFRESH_SECRET": "dev-refresh-secret",
	"CSRF_SECRET":        "dev-csrf-secret",
	"CSRF_SECURE_COOKIE": false,
	"CORS_ORIGIN":        "http://localhost:3000",
	"KAFKA_BROKERS":      "",
	"KAFKA_TOPIC":        "club-events",
	"SMTP_HOST":          "",
	"SMTP_PORT":          465,
	"SMTP_USERNAME":      "",
	"SMTP_PASSWORD":      "",
	"SMTP_FROM":          "",
	"ADMIN_EMAIL":        "",
	"ADMIN_PASSWORD":     "",
	"ADMIN_NAME":         "Administrator",
	"ACTIVITY_TTL":       "24h",
}

// Load 读取当前目录下的 .env，环境变量优先
func Load() (*Config, error) {
	return load(".")
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// 只有设置过默认值的 key 才会被 Unmarshal 从环境变量读取
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.ActivityTTL <= 0 {
		return nil, fmt.Errorf("ACTIVITY_TTL must be positive")
	}
	return &cfg, nil
}

// Brokers 解析逗号分隔的 broker 列表，为空表示不投递 Kafka
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
