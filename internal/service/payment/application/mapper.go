// internal/service/payment/application/mapper.go
package application

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"paypilot/internal/service/payment/domain"
)

// DiscountUnit 指明记录中 discount 字段的单位
type DiscountUnit string

const (
	UnitPercent  DiscountUnit = "percent"  // "15" 表示 15%
	UnitFraction DiscountUnit = "fraction" // "0.15" 表示 15%
)

var hundred = decimal.NewFromInt(100)

// RecordMapper 把外部记录转换为领域对象。折扣单位只在这里换算一次。
type RecordMapper struct {
	unit DiscountUnit
}

// NewRecordMapper 创建映射器，未知单位返回错误。
func NewRecordMapper(unit DiscountUnit) (*RecordMapper, error) {
	switch unit {
	case UnitPercent, UnitFraction:
		return &RecordMapper{unit: unit}, nil
	case "":
		return &RecordMapper{unit: UnitPercent}, nil
	default:
		return nil, errors.Errorf("unknown discount unit %q", unit)
	}
}

func (m *RecordMapper) rate(d decimal.Decimal) decimal.Decimal {
	if m.unit == UnitPercent {
		return d.Div(hundred)
	}
	return d
}

// ToOrders 按记录顺序创建订单，订单 id 在同一批内不允许重复。
func (m *RecordMapper) ToOrders(records []OrderRecord) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if _, dup := seen[r.ID]; dup {
			return nil, errors.Wrapf(domain.ErrInvalidOrder, "record %d: duplicate order id %s", i, r.ID)
		}
		if !r.Value.Valid {
			return nil, errors.Wrapf(domain.ErrInvalidOrder, "record %d: order %s: missing value", i, r.ID)
		}
		o, err := domain.NewOrder(r.ID, r.Value.Decimal, r.Promotions)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		seen[r.ID] = struct{}{}
		orders = append(orders, o)
	}
	return orders, nil
}

// ToMethods 按记录顺序创建支付方式，discount 与 limit 均为必填。
func (m *RecordMapper) ToMethods(records []PaymentMethodRecord) ([]domain.Method, error) {
	methods := make([]domain.Method, 0, len(records))
	for i, r := range records {
		switch {
		case !r.Discount.Valid:
			return nil, errors.Wrapf(domain.ErrInvalidMethod, "record %d: method %s: missing discount", i, r.ID)
		case !r.Limit.Valid:
			return nil, errors.Wrapf(domain.ErrInvalidMethod, "record %d: method %s: missing limit", i, r.ID)
		}

		var (
			method domain.Method
			err    error
		)
		if r.ID == domain.PointsMethodID {
			method, err = domain.NewPoints(m.rate(r.Discount.Decimal), r.Limit.Decimal)
		} else {
			method, err = domain.NewCard(r.ID, m.rate(r.Discount.Decimal), r.Limit.Decimal)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		methods = append(methods, method)
	}
	return methods, nil
}

// ToWallet 创建支付方式并组装钱包
func (m *RecordMapper) ToWallet(records []PaymentMethodRecord) (*domain.Wallet, error) {
	methods, err := m.ToMethods(records)
	if err != nil {
		return nil, err
	}
	return domain.NewWallet(methods...)
}
