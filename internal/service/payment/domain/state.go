// internal/service/payment/domain/state.go
package domain

// AllocationState 定义了单个订单在一次批处理中的生命周期状态
type AllocationState string

const (
	StateEvaluating AllocationState = "EVALUATING" // 正在生成并挑选支付方案
	StateAllocated  AllocationState = "ALLOCATED"  // 方案已选定且已从钱包扣减
	StateFailed     AllocationState = "FAILED"     // 无可行方案或扣减失败，本轮不再重试
)

// IsTerminal 报告状态是否为终态。
func (s AllocationState) IsTerminal() bool {
	return s == StateAllocated || s == StateFailed
}
