// internal/service/payment/domain/wallet.go
package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Wallet 聚合了一个付款人的全部支付方式：有序的银行卡以及至多一个积分余额。
// 钱包创建后不会增删支付方式，唯一的修改入口是 Apply。
//
// Wallet 不是并发安全的：同一个钱包上的订单必须串行评估与扣减。
type Wallet struct {
	cards  []*Card
	byID   map[string]*Card
	points *Points
}

// NewWallet 用给定的支付方式组装钱包。
// 积分至多一个，银行卡 id 不允许重复。
func NewWallet(methods ...Method) (*Wallet, error) {
	w := &Wallet{byID: make(map[string]*Card, len(methods))}

	for _, m := range methods {
		switch v := m.(type) {
		case *Card:
			if v == nil {
				return nil, errors.Wrap(ErrInvalidArgument, "nil card")
			}
			if _, dup := w.byID[v.ID()]; dup {
				return nil, errors.Wrapf(ErrDuplicateMethod, "card %s", v.ID())
			}
			w.cards = append(w.cards, v)
			w.byID[v.ID()] = v
		case *Points:
			if v == nil {
				return nil, errors.Wrap(ErrInvalidArgument, "nil points method")
			}
			if w.points != nil {
				return nil, ErrMultiplePoints
			}
			w.points = v
		default:
			return nil, errors.Wrapf(ErrInvalidArgument, "unsupported payment method %T", m)
		}
	}

	return w, nil
}

// Points 返回积分支付方式，没有积分时返回 nil。
func (w *Wallet) Points() *Points { return w.points }

// Cards 按录入顺序返回银行卡。返回的切片是副本，但元素仍指向钱包内的卡。
func (w *Wallet) Cards() []*Card {
	cards := make([]*Card, len(w.cards))
	copy(cards, w.cards)
	return cards
}

// Card 按 id 查找银行卡
func (w *Wallet) Card(id string) (*Card, bool) {
	c, ok := w.byID[id]
	return c, ok
}

// Methods 返回全部支付方式，银行卡在前，积分在后。
func (w *Wallet) Methods() []Method {
	methods := make([]Method, 0, len(w.cards)+1)
	for _, c := range w.cards {
		methods = append(methods, c)
	}
	if w.points != nil {
		methods = append(methods, w.points)
	}
	return methods
}

// TotalRemainingPoints 返回剩余积分，没有积分时为 0。
func (w *Wallet) TotalRemainingPoints() decimal.Decimal {
	if w.points == nil {
		return decimal.Zero
	}
	return w.points.RemainingLimit()
}

// TotalRemainingCardLimit 返回所有银行卡剩余额度之和。
func (w *Wallet) TotalRemainingCardLimit() decimal.Decimal {
	total := decimal.Zero
	for _, c := range w.cards {
		total = total.Add(c.RemainingLimit())
	}
	return total
}

type deduction struct {
	method Method
	amount decimal.Decimal
}

// Apply 按方案扣减积分和银行卡额度。
// 两笔扣减要么全部成功，要么钱包保持原样：先整体校验，再统一扣减。
func (w *Wallet) Apply(s *Scenario) error {
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "nil scenario")
	}

	steps := make([]deduction, 0, 2)

	if s.PointsUsed().IsPositive() {
		if s.PointsMethod() == nil || s.PointsMethod() != w.points {
			return errors.Wrapf(ErrForeignMethod, "order %s: points", s.Order().ID())
		}
		steps = append(steps, deduction{method: w.points, amount: s.PointsUsed()})
	}

	if card := s.Card(); card != nil {
		owned, ok := w.byID[card.ID()]
		if !ok || owned != card {
			return errors.Wrapf(ErrForeignMethod, "order %s: card %s", s.Order().ID(), card.ID())
		}
		steps = append(steps, deduction{method: card, amount: s.CardCharge()})
	} else if s.CardCharge().IsPositive() {
		return errors.Wrapf(ErrInvalidArgument, "order %s: card charge without a card", s.Order().ID())
	}

	for _, st := range steps {
		if err := st.method.account().check(st.method.ID(), st.amount); err != nil {
			return errors.Wrapf(err, "order %s", s.Order().ID())
		}
	}
	for _, st := range steps {
		if err := st.method.Deduct(st.amount); err != nil {
			// 校验已通过，走到这里说明钱包被并发修改了
			return errors.Wrapf(err, "order %s: wallet modified during apply", s.Order().ID())
		}
	}
	return nil
}
