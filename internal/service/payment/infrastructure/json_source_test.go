package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypilot/internal/service/payment/application"
	"paypilot/internal/service/payment/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newMapper(t *testing.T) *application.RecordMapper {
	t.Helper()
	m, err := application.NewRecordMapper(application.UnitPercent)
	require.NoError(t, err)
	return m
}

func TestJSONFileSource(t *testing.T) {
	dir := t.TempDir()
	ordersPath := writeFile(t, dir, "orders.json", `[
		{"id": "ORDER1", "value": "100.00", "promotions": ["mZysk"]},
		{"id": "ORDER2", "value": 200}
	]`)
	methodsPath := writeFile(t, dir, "paymentmethods.json", `[
		{"id": "PUNKTY", "discount": "15", "limit": "100.00"},
		{"id": "mZysk", "discount": "10", "limit": "180.00"}
	]`)

	src := NewJSONFileSource(ordersPath, methodsPath, newMapper(t))

	orders, err := src.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORDER1", orders[0].ID())
	assert.True(t, orders[1].Value().Equal(decimal.NewFromInt(200)))
	assert.True(t, orders[0].IsEligible("mZysk"))

	methods, err := src.PaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, domain.KindPoints, methods[0].Kind())
	assert.Equal(t, "mZysk", methods[1].ID())
	assert.True(t, methods[1].DiscountRate().Equal(decimal.RequireFromString("0.1")))
}

func TestJSONFileSource_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"not": "a list"}`)
	invalid := writeFile(t, dir, "invalid.json", `[{"id": "", "value": "1"}]`)

	_, err := NewJSONFileSource(filepath.Join(dir, "missing.json"), bad, newMapper(t)).Orders(context.Background())
	assert.Error(t, err)

	_, err = NewJSONFileSource(bad, bad, newMapper(t)).Orders(context.Background())
	assert.ErrorContains(t, err, "decode")

	_, err = NewJSONFileSource(invalid, bad, newMapper(t)).Orders(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)

	_, err = NewJSONFileSource(invalid, bad, newMapper(t)).PaymentMethods(context.Background())
	assert.Error(t, err)
}
