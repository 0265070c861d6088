package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypilot/internal/service/payment/domain"
)

func newTestService(t *testing.T, opts ...ProcessorOption) *PaymentService {
	t.Helper()
	mapper, err := NewRecordMapper(UnitPercent)
	require.NoError(t, err)
	processor := NewOrderProcessor(NewScenarioEvaluator(), opts...)
	return NewPaymentService(mapper, processor, NewBatchService(processor, 2))
}

func pointsOnly(limit string) []PaymentMethodRecord {
	return []PaymentMethodRecord{{ID: domain.PointsMethodID, Discount: nd("15"), Limit: nd(limit)}}
}

func TestPaymentService_InvalidRecordsKeepCause(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Optimize(context.Background(), &OptimizeRequest{
		Orders:         []OrderRecord{{ID: "ORDER1"}},
		PaymentMethods: pointsOnly("100"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, domain.ErrInvalidOrder)
	assert.True(t, IsInvalidInput(err))

	_, err = svc.Optimize(context.Background(), &OptimizeRequest{
		PaymentMethods: []PaymentMethodRecord{{ID: "mZysk", Discount: nd("10")}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = svc.OptimizeBatch(context.Background(), &BatchRequest{Payers: []PayerRecord{{
		PayerID:        "alice",
		PaymentMethods: append(pointsOnly("1"), pointsOnly("1")...),
	}}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, domain.ErrMultiplePoints)
	assert.ErrorContains(t, err, "payer alice")
}

func TestPaymentService_SinkFailureKeepsAllocations(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	svc := newTestService(t, WithSink(sink))

	resp, err := svc.Optimize(context.Background(), &OptimizeRequest{
		Orders:         []OrderRecord{{ID: "ORDER1", Value: nd("100")}},
		PaymentMethods: pointsOnly("100"),
	})
	require.Error(t, err)
	assert.False(t, IsInvalidInput(err))
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Allocations, 1)
	assert.Equal(t, "ORDER1", resp.Allocations[0].OrderID)
	assert.Equal(t, []SummaryLine{{MethodID: domain.PointsMethodID, Amount: "100.00"}}, resp.Summary)
	assert.Contains(t, resp.SinkError, "broker down")
	assert.Equal(t, 1, sink.calls)
}

func TestPaymentService_BatchSinkFailureIsReportedPerPayer(t *testing.T) {
	svc := newTestService(t, WithSink(&recordingSink{err: errors.New("broker down")}))

	resp, err := svc.OptimizeBatch(context.Background(), &BatchRequest{Payers: []PayerRecord{{
		PayerID:        "alice",
		Orders:         []OrderRecord{{ID: "ORDER1", Value: nd("10")}},
		PaymentMethods: pointsOnly("100"),
	}}})
	require.NoError(t, err)
	require.Len(t, resp.Payers, 1)
	alice := resp.Payers[0]
	require.NotNil(t, alice.OptimizeResponse)
	assert.Len(t, alice.Allocations, 1)
	assert.Contains(t, alice.Error, "broker down")
	assert.Equal(t, alice.Error, alice.SinkError)
}

func TestPaymentService_DuplicatePayerID(t *testing.T) {
	svc := newTestService(t)

	payer := PayerRecord{
		PayerID:        "alice",
		Orders:         []OrderRecord{{ID: "ORDER1", Value: nd("10")}},
		PaymentMethods: pointsOnly("100"),
	}
	_, err := svc.OptimizeBatch(context.Background(), &BatchRequest{Payers: []PayerRecord{payer, payer}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorContains(t, err, "duplicate payerId alice")

	payer.PayerID = "bob"
	resp, err := svc.OptimizeBatch(context.Background(), &BatchRequest{Payers: []PayerRecord{
		{PayerID: "alice", Orders: payer.Orders, PaymentMethods: pointsOnly("100")},
		payer,
	}})
	require.NoError(t, err)
	assert.Len(t, resp.Payers, 2)
}
