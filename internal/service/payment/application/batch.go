// internal/service/payment/application/batch.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/service/payment/domain"
)

// Payer 是一个独立付款人：自己的订单队列和钱包，与其他付款人不共享任何余额。
type Payer struct {
	ID     string
	Orders []*domain.Order
	Wallet *domain.Wallet
}

// PayerResult 是一个付款人的处理结果，顺序与输入一致。
type PayerResult struct {
	PayerID string
	Result  *BatchResult
	Err     error
}

// BatchService 把多个付款人分发到有限数量的 goroutine 上并发处理。
// 同一付款人的订单仍在单个 goroutine 内按顺序处理。
type BatchService struct {
	processor *OrderProcessor
	workers   int
}

func NewBatchService(processor *OrderProcessor, workers int) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{processor: processor, workers: workers}
}

// ProcessPayers 并发处理所有付款人。单个付款人的错误记录在其 PayerResult 中；
// 只有 ctx 被取消时才返回错误，此时尚未开始的付款人不会被处理。
func (b *BatchService) ProcessPayers(ctx context.Context, payers []Payer) ([]PayerResult, error) {
	ctx, span := b.processor.tracer.Start(ctx, "app.ProcessPayers")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.payers", len(payers)), attribute.Int("batch.workers", b.workers))

	results := make([]PayerResult, len(payers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, payer := range payers {
		i, payer := i, payer
		results[i].PayerID = payer.ID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			pctx := logger.With(gctx, map[string]string{"payer_id": payer.ID})
			res, err := b.processor.ProcessOrders(pctx, payer.Orders, payer.Wallet)
			results[i].Result = res
			results[i].Err = err
			if err != nil {
				logger.Ctx(pctx).Error().Err(err).Msg("payer batch failed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return results, err
	}
	return results, nil
}
