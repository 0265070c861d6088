// internal/service/payment/domain/payment_method.go
package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PointsMethodID 是积分支付方式的保留 id，其余 id 一律视为银行卡。
const PointsMethodID = "PUNKTY"

// MethodKind 区分支付方式的两种变体
type MethodKind string

const (
	KindCard   MethodKind = "CARD"
	KindPoints MethodKind = "POINTS"
)

// Method 是支付方式的公共能力。变体集合是封闭的（Card、Points），
// 未导出的 account 方法保证包外无法再实现新的变体。
type Method interface {
	ID() string
	Kind() MethodKind
	DiscountRate() decimal.Decimal
	RemainingLimit() decimal.Decimal
	Deduct(amount decimal.Decimal) error

	account() *balance
}

// balance 保存两种变体共享的折扣率与剩余额度。
// 额度只会单调递减，所有修改都经过 deduct。
type balance struct {
	rate  decimal.Decimal
	limit decimal.Decimal
}

func newBalance(id string, rate, limit decimal.Decimal) (balance, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return balance{}, errors.Wrapf(ErrInvalidMethod, "%s: discount rate %s outside [0,1]", id, rate)
	}
	if limit.IsNegative() {
		return balance{}, errors.Wrapf(ErrInvalidMethod, "%s: negative limit %s", id, limit)
	}
	return balance{rate: rate, limit: limit}, nil
}

// check 校验扣减是否合法，不修改任何状态。
func (b *balance) check(id string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrapf(ErrInvalidAmount, "%s: %s", id, amount)
	}
	if b.limit.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientLimit, "%s: remaining %s, requested %s", id, b.limit, amount)
	}
	return nil
}

func (b *balance) deduct(id string, amount decimal.Decimal) error {
	if err := b.check(id, amount); err != nil {
		return err
	}
	b.limit = b.limit.Sub(amount)
	return nil
}

// Card 是一张银行卡
type Card struct {
	id  string
	bal balance
}

// NewCard 创建银行卡。rate 必须是 [0,1] 区间内的小数（0.10 表示 10%）。
func NewCard(id string, rate, limit decimal.Decimal) (*Card, error) {
	if id == "" {
		return nil, errors.Wrap(ErrInvalidMethod, "card id is empty")
	}
	if id == PointsMethodID {
		return nil, errors.Wrapf(ErrInvalidMethod, "card id %s is reserved for points", id)
	}
	b, err := newBalance(id, rate, limit)
	if err != nil {
		return nil, err
	}
	return &Card{id: id, bal: b}, nil
}

func (c *Card) ID() string { return c.id }
func (c *Card) Kind() MethodKind { return KindCard }
func (c *Card) DiscountRate() decimal.Decimal { return c.bal.rate }
func (c *Card) RemainingLimit() decimal.Decimal { return c.bal.limit }
func (c *Card) account() *balance { return &c.bal }

// Deduct 从卡的剩余额度中扣减 amount，失败时额度保持不变。
func (c *Card) Deduct(amount decimal.Decimal) error { return c.bal.deduct(c.id, amount) }

// Points 是钱包里唯一的积分余额
type Points struct {
	bal balance
}

// NewPoints 创建积分支付方式
func NewPoints(rate, limit decimal.Decimal) (*Points, error) {
	b, err := newBalance(PointsMethodID, rate, limit)
	if err != nil {
		return nil, err
	}
	return &Points{bal: b}, nil
}

func (p *Points) ID() string { return PointsMethodID }
func (p *Points) Kind() MethodKind { return KindPoints }
func (p *Points) DiscountRate() decimal.Decimal { return p.bal.rate }
func (p *Points) RemainingLimit() decimal.Decimal { return p.bal.limit }
func (p *Points) account() *balance { return &p.bal }

// Deduct 从积分余额中扣减 amount，失败时余额保持不变。
func (p *Points) Deduct(amount decimal.Decimal) error { return p.bal.deduct(PointsMethodID, amount) }
