package infrastructure

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypilot/internal/service/payment/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleAllocations(t *testing.T) []*domain.Scenario {
	t.Helper()
	c, err := domain.NewCard("mZysk", dec("0.10"), dec("1000"))
	require.NoError(t, err)
	p, err := domain.NewPoints(dec("0.15"), dec("1000"))
	require.NoError(t, err)

	o1, err := domain.NewOrder("order1", dec("100.00"), nil)
	require.NoError(t, err)
	o2, err := domain.NewOrder("order2", dec("65.00"), nil)
	require.NoError(t, err)
	o3, err := domain.NewOrder("order3", dec("100.00"), nil)
	require.NoError(t, err)

	return []*domain.Scenario{
		domain.NewFullCardScenario(o1, c, dec("10")),
		domain.NewFullCardScenario(o2, c, dec("6.5")),
		domain.NewFullPointsScenario(o3, p, dec("15")),
	}
}

func TestSummaryReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewSummaryReporter(&buf)

	require.NoError(t, r.Publish(context.Background(), sampleAllocations(t)))
	assert.Equal(t, "mZysk 165.00\nPUNKTY 100.00\n", buf.String())
}

func TestSummaryReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryReporter(&buf).Publish(context.Background(), nil))
	assert.Empty(t, buf.String())
}
