// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 是应用的全部配置。来源优先级：环境变量 > 配置文件 > 默认值。
type Config struct {
	App     AppConfig     `yaml:"app"`
	Log     LogConfig     `yaml:"log"`
	Payment PaymentConfig `yaml:"payment"`
	Server  ServerConfig  `yaml:"server"`
	Infra   InfraConfig   `yaml:"infra"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PaymentConfig struct {
	// DiscountUnit 指明记录中 discount 字段的单位：percent（"15" 表示 15%）或 fraction（"0.15"）
	DiscountUnit string `yaml:"discount_unit"`
	// Workers 是多付款人并发处理时的最大并发数
	Workers int `yaml:"workers"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type InfraConfig struct {
	Jaeger JaegerConfig `yaml:"jaeger"`
	Kafka  KafkaConfig  `yaml:"kafka"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

const (
	DiscountUnitPercent  = "percent"
	DiscountUnitFraction = "fraction"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		App:     AppConfig{Name: "paypilot"},
		Log:     LogConfig{Level: "info", Format: "console"},
		Payment: PaymentConfig{DiscountUnit: DiscountUnitPercent, Workers: 4},
		Server:  ServerConfig{Port: 8080},
		Infra: InfraConfig{
			Kafka: KafkaConfig{Topic: "payment-allocations"},
		},
	}
}

// LoadConfig 读取配置文件（path 为空时跳过），再应用环境变量覆盖并校验。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Payment.DiscountUnit = getEnv("PAYMENT_DISCOUNT_UNIT", cfg.Payment.DiscountUnit)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Infra.Kafka.Topic)

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		cfg.Infra.Kafka.Brokers = splitList(v)
	}
	if v, ok := os.LookupEnv("PAYMENT_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Payment.Workers = n
		}
	}
	if v, ok := os.LookupEnv("SERVER_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.Payment.DiscountUnit {
	case DiscountUnitPercent, DiscountUnitFraction:
	default:
		return errors.Errorf("payment.discount_unit must be %q or %q, got %q",
			DiscountUnitPercent, DiscountUnitFraction, c.Payment.DiscountUnit)
	}
	if c.Payment.Workers < 1 {
		return errors.Errorf("payment.workers must be positive, got %d", c.Payment.Workers)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
