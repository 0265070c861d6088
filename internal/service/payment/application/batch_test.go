package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypilot/internal/service/payment/domain"
)

func TestBatchService_ProcessPayersKeepsOrderAndIsolation(t *testing.T) {
	svc := NewBatchService(NewOrderProcessor(NewScenarioEvaluator()), 3)

	var payers []Payer
	for i := 0; i < 8; i++ {
		payers = append(payers, Payer{
			ID: fmt.Sprintf("payer-%d", i),
			Orders: []*domain.Order{
				order(t, "ORDER1", "100"),
				order(t, "ORDER2", "100"),
			},
			// 每个付款人的积分只够一笔订单
			Wallet: wallet(t, points(t, "0.15", "100")),
		})
	}

	results, err := svc.ProcessPayers(context.Background(), payers)
	require.NoError(t, err)
	require.Len(t, results, len(payers))

	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("payer-%d", i), r.PayerID)
		require.NoError(t, r.Err)
		require.Len(t, r.Result.Allocations, 1)
		assert.Equal(t, "ORDER1", r.Result.Allocations[0].Order().ID())
		require.Len(t, r.Result.Failures, 1)
		assert.True(t, payers[i].Wallet.TotalRemainingPoints().IsZero())
	}
}

func TestBatchService_PayerErrorDoesNotStopOthers(t *testing.T) {
	svc := NewBatchService(NewOrderProcessor(nil), 0)

	results, err := svc.ProcessPayers(context.Background(), []Payer{
		{ID: "broken"},
		{ID: "ok", Orders: []*domain.Order{order(t, "ORDER1", "10")}, Wallet: wallet(t, card(t, "c1", "0.1", "10"))},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.ErrorIs(t, results[0].Err, domain.ErrInvalidArgument)
	assert.Nil(t, results[0].Result)
	require.NoError(t, results[1].Err)
	assert.Len(t, results[1].Result.Allocations, 1)
}

func TestBatchService_CancelledContext(t *testing.T) {
	svc := NewBatchService(NewOrderProcessor(nil), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := svc.ProcessPayers(ctx, []Payer{{ID: "p1", Wallet: wallet(t)}})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Result)
}
