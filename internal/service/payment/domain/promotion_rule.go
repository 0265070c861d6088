// internal/service/payment/domain/promotion_rule.go
package domain

import "github.com/shopspring/decimal"

// RuleKind 定义了促销规则的类型，与 Shape 一一对应（Default 除外）。
type RuleKind string

const (
	RuleFullPoints    RuleKind = "FULL_POINTS"
	RulePartialPoints RuleKind = "PARTIAL_POINTS"
	RuleFullCard      RuleKind = "FULL_CARD"
	RuleDefault       RuleKind = "DEFAULT"
)

// Rule 是一条促销规则：给定订单、钱包和基线方案，判断是否适用并计算折扣。
// 规则是纯函数，不修改任何输入。
//
// 规则集合是封闭的，评估器内置的方案生成逻辑才是权威策略；
// 规则只描述生成器能够实现的方案（Matches），从不声称生成器做不到的适用性。
type Rule interface {
	Name() string
	Kind() RuleKind
	Applicable(o *Order, w *Wallet, base *Scenario) bool
	Discount(o *Order, w *Wallet, base *Scenario) decimal.Decimal
	Matches(s *Scenario) bool

	sealed()
}

func validInputs(o *Order, w *Wallet, base *Scenario) bool {
	return o != nil && w != nil && base != nil
}

// FullPointsRule 整单积分支付，享受积分折扣率。
type FullPointsRule struct{}

func (FullPointsRule) Name() string { return "full-points" }
func (FullPointsRule) Kind() RuleKind { return RuleFullPoints }
func (FullPointsRule) sealed() {}

func (FullPointsRule) Applicable(o *Order, w *Wallet, base *Scenario) bool {
	if !validInputs(o, w, base) || w.Points() == nil || base.UsesPoints() {
		return false
	}
	return w.Points().RemainingLimit().GreaterThanOrEqual(o.Value())
}

func (r FullPointsRule) Discount(o *Order, w *Wallet, base *Scenario) decimal.Decimal {
	if !r.Applicable(o, w, base) {
		return decimal.Zero
	}
	return o.Value().Mul(w.Points().DiscountRate())
}

func (FullPointsRule) Matches(s *Scenario) bool {
	return s != nil && s.Shape() == ShapeFullPoints
}

// PartialPointsRule 积分不足以覆盖整单时，先用光积分，剩余部分刷卡。
// 积分覆盖至少 10% 时按整单 10% 计折扣，否则只有积分部分享受积分折扣率。
type PartialPointsRule struct{}

func (PartialPointsRule) Name() string { return "partial-points" }
func (PartialPointsRule) Kind() RuleKind { return RulePartialPoints }
func (PartialPointsRule) sealed() {}

func (PartialPointsRule) Applicable(o *Order, w *Wallet, base *Scenario) bool {
	if !validInputs(o, w, base) || w.Points() == nil || base.UsesPoints() {
		return false
	}
	available := w.Points().RemainingLimit()
	if !available.IsPositive() || !available.LessThan(o.Value()) {
		return false
	}
	// 只有存在能补足差额的银行卡时，生成器才会产出组合方案
	shortfall := o.Value().Sub(available)
	for _, c := range w.Cards() {
		if c.RemainingLimit().GreaterThanOrEqual(shortfall) {
			return true
		}
	}
	return false
}

func (r PartialPointsRule) Discount(o *Order, w *Wallet, base *Scenario) decimal.Decimal {
	if !r.Applicable(o, w, base) {
		return decimal.Zero
	}
	available := w.Points().RemainingLimit()
	if QualifiesForPointsBonus(o.Value(), available) {
		return o.Value().Mul(MixedBonusRate)
	}
	return available.Mul(w.Points().DiscountRate())
}

func (PartialPointsRule) Matches(s *Scenario) bool {
	return s != nil && s.Shape() == ShapeMixed
}

// FullCardRule 订单带有某张卡的促销标记时，用该卡整单支付享受卡的折扣率。
type FullCardRule struct {
	CardID string
}

// NewFullCardRule 创建针对指定银行卡的规则
func NewFullCardRule(cardID string) FullCardRule {
	return FullCardRule{CardID: cardID}
}

func (r FullCardRule) Name() string { return "full-card:" + r.CardID }
func (FullCardRule) Kind() RuleKind { return RuleFullCard }
func (FullCardRule) sealed() {}

func (r FullCardRule) Applicable(o *Order, w *Wallet, base *Scenario) bool {
	if !validInputs(o, w, base) || !o.IsEligible(r.CardID) || base.UsesCard() {
		return false
	}
	card, ok := w.Card(r.CardID)
	if !ok {
		return false
	}
	return card.RemainingLimit().GreaterThanOrEqual(o.Value())
}

func (r FullCardRule) Discount(o *Order, w *Wallet, base *Scenario) decimal.Decimal {
	if !r.Applicable(o, w, base) {
		return decimal.Zero
	}
	card, _ := w.Card(r.CardID)
	return o.Value().Mul(card.DiscountRate())
}

func (r FullCardRule) Matches(s *Scenario) bool {
	return s != nil && s.Shape() == ShapeFullCard && s.CardID() == r.CardID
}

// DefaultRule 永远适用，折扣为 0，保证规则集不会整体失效。
type DefaultRule struct{}

func (DefaultRule) Name() string { return "default" }
func (DefaultRule) Kind() RuleKind { return RuleDefault }
func (DefaultRule) sealed() {}
func (DefaultRule) Applicable(*Order, *Wallet, *Scenario) bool { return true }
func (DefaultRule) Discount(*Order, *Wallet, *Scenario) decimal.Decimal { return decimal.Zero }
func (DefaultRule) Matches(s *Scenario) bool { return s != nil }

// RuleSet 是有序的规则集合
type RuleSet struct {
	rules []Rule
}

// NewRuleSet 创建规则集，nil 规则会被忽略。
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		if r != nil {
			rs.rules = append(rs.rules, r)
		}
	}
	return rs
}

// DefaultRuleSet 整单积分、部分积分、默认规则，再为钱包中每张卡追加一条整单刷卡规则。
func DefaultRuleSet(w *Wallet) *RuleSet {
	rules := []Rule{FullPointsRule{}, PartialPointsRule{}, DefaultRule{}}
	if w != nil {
		for _, c := range w.Cards() {
			rules = append(rules, NewFullCardRule(c.ID()))
		}
	}
	return NewRuleSet(rules...)
}

// Rules 返回规则副本
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Len 返回规则数量
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Describe 返回对订单适用、且描述了 candidate 的规则名称。
// 适用性总是相对空的基线方案判断。
func (rs *RuleSet) Describe(o *Order, w *Wallet, candidate *Scenario) []string {
	base := BaseScenario(o)
	var names []string
	for _, r := range rs.rules {
		if r.Matches(candidate) && r.Applicable(o, w, base) {
			names = append(names, r.Name())
		}
	}
	return names
}

// Quote 返回适用规则各自给出的折扣（按规则名索引），仅用于诊断输出。
func (rs *RuleSet) Quote(o *Order, w *Wallet) map[string]decimal.Decimal {
	base := BaseScenario(o)
	quotes := make(map[string]decimal.Decimal, len(rs.rules))
	for _, r := range rs.rules {
		if r.Applicable(o, w, base) {
			quotes[r.Name()] = r.Discount(o, w, base)
		}
	}
	return quotes
}
