// internal/service/payment/domain/scenario.go
package domain

import "github.com/shopspring/decimal"

// Shape 描述方案的支付结构
type Shape string

const (
	ShapeBase       Shape = "BASE"        // 空方案，仅作为促销规则的评估基线
	ShapeFullPoints Shape = "FULL_POINTS" // 全部用积分
	ShapeFullCard   Shape = "FULL_CARD"   // 全部用一张银行卡
	ShapeMixed      Shape = "MIXED"       // 积分全部用完，余下部分刷一张卡
)

// Scenario 是一笔订单的一种具体支付方式，是不可变的快照。
// 方案本身不修改钱包，扣减由 Wallet.Apply 完成。
type Scenario struct {
	order      *Order
	card       *Card
	points     *Points
	pointsUsed decimal.Decimal
	cardCharge decimal.Decimal
	discount   decimal.Decimal
	shape      Shape
	promotions []string
}

// BaseScenario 返回不使用任何支付方式的空方案。
func BaseScenario(o *Order) *Scenario {
	return &Scenario{
		order:      o,
		pointsUsed: decimal.Zero,
		cardCharge: decimal.Zero,
		discount:   decimal.Zero,
		shape:      ShapeBase,
	}
}

// NewFullPointsScenario 全额使用积分支付
func NewFullPointsScenario(o *Order, p *Points, discount decimal.Decimal) *Scenario {
	return &Scenario{
		order:      o,
		points:     p,
		pointsUsed: o.Value(),
		cardCharge: decimal.Zero,
		discount:   discount,
		shape:      ShapeFullPoints,
	}
}

// NewFullCardScenario 全额使用一张银行卡支付
func NewFullCardScenario(o *Order, c *Card, discount decimal.Decimal) *Scenario {
	return &Scenario{
		order:      o,
		card:       c,
		pointsUsed: decimal.Zero,
		cardCharge: o.Value(),
		discount:   discount,
		shape:      ShapeFullCard,
	}
}

// NewMixedScenario 积分与一张银行卡组合支付
func NewMixedScenario(o *Order, p *Points, c *Card, pointsUsed, cardCharge, discount decimal.Decimal) *Scenario {
	return &Scenario{
		order:      o,
		card:       c,
		points:     p,
		pointsUsed: pointsUsed,
		cardCharge: cardCharge,
		discount:   discount,
		shape:      ShapeMixed,
	}
}

// WithPromotions 返回附带促销规则名称的副本。
func (s *Scenario) WithPromotions(names []string) *Scenario {
	cp := *s
	cp.promotions = append([]string(nil), names...)
	return &cp
}

func (s *Scenario) Order() *Order { return s.order }
func (s *Scenario) Card() *Card { return s.card }
func (s *Scenario) PointsMethod() *Points { return s.points }
func (s *Scenario) PointsUsed() decimal.Decimal { return s.pointsUsed }
func (s *Scenario) CardCharge() decimal.Decimal { return s.cardCharge }
func (s *Scenario) Discount() decimal.Decimal { return s.discount }
func (s *Scenario) Shape() Shape { return s.shape }
func (s *Scenario) Promotions() []string { return append([]string(nil), s.promotions...) }
func (s *Scenario) AmountPaid() decimal.Decimal { return s.pointsUsed.Add(s.cardCharge) }
func (s *Scenario) UsesCard() bool { return s.card != nil }
func (s *Scenario) UsesPoints() bool { return s.pointsUsed.IsPositive() }

// CardID 返回所用银行卡的 id，未用卡时为空串。
func (s *Scenario) CardID() string {
	if s.card == nil {
		return ""
	}
	return s.card.ID()
}
