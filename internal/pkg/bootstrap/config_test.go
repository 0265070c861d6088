package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: paypilot-test
log:
  level: debug
  format: json
payment:
  discount_unit: fraction
  workers: 8
server:
  port: 9090
infra:
  jaeger:
    endpoint: http://jaeger:14268/api/traces
  kafka:
    brokers: ["kafka-1:9092"]
    topic: allocations
`), 0o600))

	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PAYMENT_WORKERS", "2")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "paypilot-test", cfg.App.Name)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DiscountUnitFraction, cfg.Payment.DiscountUnit)
	assert.Equal(t, 2, cfg.Payment.Workers)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://jaeger:14268/api/traces", cfg.Infra.Jaeger.Endpoint)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Infra.Kafka.Brokers)
	assert.Equal(t, "allocations", cfg.Infra.Kafka.Topic)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("PAYMENT_DISCOUNT_UNIT", "permille")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "discount_unit")
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Payment.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}
