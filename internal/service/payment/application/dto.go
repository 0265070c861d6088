// internal/service/payment/application/dto.go
package application

import (
	"github.com/shopspring/decimal"

	"paypilot/internal/service/payment/domain"
)

// OrderRecord 是订单的外部记录格式。value 可以是 JSON 字符串或数字，缺失或为 null 时 Valid 为 false。
type OrderRecord struct {
	ID         string              `json:"id"`
	Value      decimal.NullDecimal `json:"value"`
	Promotions []string        `json:"promotions,omitempty"`
}

// PaymentMethodRecord 是支付方式的外部记录格式。
// id 为 domain.PointsMethodID 的记录表示积分，其余均为银行卡。
type PaymentMethodRecord struct {
	ID       string              `json:"id"`
	Discount decimal.NullDecimal `json:"discount"`
	Limit    decimal.NullDecimal `json:"limit"`
}

// OptimizeRequest 是单个付款人优化请求
type OptimizeRequest struct {
	Orders         []OrderRecord         `json:"orders"`
	PaymentMethods []PaymentMethodRecord `json:"paymentMethods"`
}

// PayerRecord 是批量请求中的一个付款人，拥有独立的钱包
type PayerRecord struct {
	PayerID        string                `json:"payerId"`
	Orders         []OrderRecord         `json:"orders"`
	PaymentMethods []PaymentMethodRecord `json:"paymentMethods"`
}

// BatchRequest 是多付款人优化请求
type BatchRequest struct {
	Payers []PayerRecord `json:"payers"`
}

// AllocationView 是一笔成功分配的对外视图
type AllocationView struct {
	OrderID    string   `json:"orderId"`
	Shape      string   `json:"shape"`
	CardID     string   `json:"cardId,omitempty"`
	PointsUsed string   `json:"pointsUsed"`
	CardCharge string   `json:"cardCharge"`
	Discount   string   `json:"discount"`
	Promotions []string `json:"promotions,omitempty"`
}

// FailureView 是一笔失败订单的对外视图
type FailureView struct {
	Index   int    `json:"index"`
	OrderID string `json:"orderId,omitempty"`
	Reason  string `json:"reason"`
}

// SummaryLine 是汇总中的一行
type SummaryLine struct {
	MethodID string `json:"methodId"`
	Amount   string `json:"amount"`
}

// OptimizeResponse 是单个付款人的处理结果。SinkError 非空表示分配已生效但下游投递失败。
type OptimizeResponse struct {
	RunID       string           `json:"runId"`
	Allocations []AllocationView `json:"allocations"`
	Failures    []FailureView    `json:"failures"`
	Summary     []SummaryLine    `json:"summary"`
	SinkError   string           `json:"sinkError,omitempty"`
}

// PayerResponse 是批量结果中一个付款人的部分；Error 非空时其余字段为空。
type PayerResponse struct {
	PayerID string `json:"payerId"`
	*OptimizeResponse
	Error string `json:"error,omitempty"`
}

// BatchResponse 是多付款人处理结果，顺序与请求一致
type BatchResponse struct {
	Payers []PayerResponse `json:"payers"`
}

// ToAllocationView 把领域方案转换为对外视图
func ToAllocationView(s *domain.Scenario) AllocationView {
	return AllocationView{
		OrderID:    s.Order().ID(),
		Shape:      string(s.Shape()),
		CardID:     s.CardID(),
		PointsUsed: s.PointsUsed().StringFixed(2),
		CardCharge: s.CardCharge().StringFixed(2),
		Discount:   s.Discount().StringFixed(2),
		Promotions: s.Promotions(),
	}
}

// ToOptimizeResponse 把批处理结果转换为对外响应
func ToOptimizeResponse(r *BatchResult) *OptimizeResponse {
	resp := &OptimizeResponse{
		RunID:       r.RunID,
		Allocations: make([]AllocationView, 0, len(r.Allocations)),
		Failures:    make([]FailureView, 0, len(r.Failures)),
	}
	for _, s := range r.Allocations {
		resp.Allocations = append(resp.Allocations, ToAllocationView(s))
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, FailureView{Index: f.Index, OrderID: f.OrderID, Reason: f.Err.Error()})
	}
	resp.Summary = ToSummaryLines(domain.Summarize(r.Allocations))
	return resp
}

// ToSummaryLines 转换汇总结果
func ToSummaryLines(totals []domain.MethodTotal) []SummaryLine {
	lines := make([]SummaryLine, 0, len(totals))
	for _, t := range totals {
		lines = append(lines, SummaryLine{MethodID: t.MethodID, Amount: t.Amount.StringFixed(2)})
	}
	return lines
}
