// internal/service/payment/domain/errors.go
package domain

import "github.com/pkg/errors"

// 领域错误。调用方统一使用 errors.Is 判断类别，具体上下文通过 errors.Wrapf 附加。
var (
	// ErrInvalidArgument 表示必需参数缺失（nil 订单、钱包或规则集）。
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoFeasibleScenario 表示当前余额下该订单没有任何可行的支付方案。
	ErrNoFeasibleScenario = errors.New("no feasible payment scenario")
	// ErrInsufficientLimit 表示扣减后额度会变为负数。
	ErrInsufficientLimit = errors.New("insufficient limit")
	// ErrInvalidAmount 表示扣减金额为负。
	ErrInvalidAmount = errors.New("amount must be non-negative")
	// ErrForeignMethod 表示方案引用了不属于当前钱包的支付方式。
	ErrForeignMethod = errors.New("payment method does not belong to wallet")

	ErrInvalidOrder    = errors.New("invalid order")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrDuplicateMethod = errors.New("duplicate payment method id")
	ErrMultiplePoints  = errors.New("wallet holds more than one points method")
)
