package port

import (
	"context"

	"paypilot/internal/service/payment/domain"
)

// RecordSource 是订单与支付方式记录的入站端口。
type RecordSource interface {
	// Orders 按录入顺序返回订单，顺序决定处理顺序。
	Orders(ctx context.Context) ([]*domain.Order, error)

	// PaymentMethods 返回付款人的全部支付方式，顺序决定银行卡的平局决胜顺序。
	PaymentMethods(ctx context.Context) ([]domain.Method, error)
}

// SummarySink 是分配结果的出站端口。
type SummarySink interface {
	// Publish 在一批订单处理完成后接收全部成功的分配方案。
	Publish(ctx context.Context, allocations []*domain.Scenario) error
}
