// internal/service/payment/domain/order.go
package domain

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Order 是一笔待支付订单，创建后不可变。
type Order struct {
	id     string
	value  decimal.Decimal
	promos map[string]struct{}
}

// NewOrder 创建订单。promoIDs 可以为空，重复的 id 会被合并。
func NewOrder(id string, value decimal.Decimal, promoIDs []string) (*Order, error) {
	if id == "" {
		return nil, errors.Wrap(ErrInvalidOrder, "order id is empty")
	}
	if value.IsNegative() {
		return nil, errors.Wrapf(ErrInvalidOrder, "order %s has negative value %s", id, value)
	}

	promos := make(map[string]struct{}, len(promoIDs))
	for _, p := range promoIDs {
		if p == "" {
			continue
		}
		promos[p] = struct{}{}
	}

	return &Order{id: id, value: value, promos: promos}, nil
}

// ID 返回订单号
func (o *Order) ID() string { return o.id }

// Value 返回折扣前的订单金额
func (o *Order) Value() decimal.Decimal { return o.value }

// PromotionIDs 按字典序返回订单可参与的促销 id。
func (o *Order) PromotionIDs() []string {
	ids := make([]string, 0, len(o.promos))
	for id := range o.promos {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsEligible 判断订单是否可以参加指定 id 的促销（例如某张卡的专属折扣）。
func (o *Order) IsEligible(promoID string) bool {
	_, ok := o.promos[promoID]
	return ok
}
