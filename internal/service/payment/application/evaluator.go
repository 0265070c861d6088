// internal/service/payment/application/evaluator.go
package application

import (
	"github.com/pkg/errors"

	"paypilot/internal/service/payment/domain"
)

// ScenarioEvaluator 为单笔订单生成全部可行支付方案并挑选最优的一个。
// 评估是只读的：不会修改钱包，对同一钱包状态重复调用得到相同结果。
// 不同钱包可以并发评估；同一钱包上的订单必须串行。
type ScenarioEvaluator struct{}

// NewScenarioEvaluator 创建评估器
func NewScenarioEvaluator() *ScenarioEvaluator {
	return &ScenarioEvaluator{}
}

// Evaluate 返回折扣最大的可行方案。
// 参数缺失时返回 domain.ErrInvalidArgument，没有可行方案时返回 domain.ErrNoFeasibleScenario。
func (e *ScenarioEvaluator) Evaluate(order *domain.Order, wallet *domain.Wallet, rules *domain.RuleSet) (*domain.Scenario, error) {
	best, _, err := e.evaluate(order, wallet, rules)
	return best, err
}

// evaluate 额外返回可行方案数量，供处理器记录指标。
func (e *ScenarioEvaluator) evaluate(order *domain.Order, wallet *domain.Wallet, rules *domain.RuleSet) (*domain.Scenario, int, error) {
	if order == nil || wallet == nil || rules == nil {
		return nil, 0, errors.Wrap(domain.ErrInvalidArgument, "order, wallet and rules are required")
	}

	candidates := e.Candidates(order, wallet)
	if len(candidates) == 0 {
		return nil, 0, errors.Wrapf(domain.ErrNoFeasibleScenario,
			"order %s: value %s, points %s, card limit %s",
			order.ID(), order.Value(), wallet.TotalRemainingPoints(), wallet.TotalRemainingCardLimit())
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}

	return best.WithPromotions(rules.Describe(order, wallet, best)), len(candidates), nil
}

// Candidates 按固定顺序生成全部可行方案：整单积分、各卡整单、各卡与积分组合。
// 顺序即为最终的平局决胜顺序。
func (e *ScenarioEvaluator) Candidates(order *domain.Order, wallet *domain.Wallet) []*domain.Scenario {
	if order == nil || wallet == nil {
		return nil
	}

	value := order.Value()
	points := wallet.Points()
	cards := wallet.Cards()
	scenarios := make([]*domain.Scenario, 0, 1+2*len(cards))

	// 1. 整单积分
	if points != nil && points.RemainingLimit().GreaterThanOrEqual(value) {
		discount := value.Mul(points.DiscountRate())
		scenarios = append(scenarios, domain.NewFullPointsScenario(order, points, discount))
	}

	// 2. 每张额度足够的卡整单支付
	for _, card := range cards {
		if card.RemainingLimit().GreaterThanOrEqual(value) {
			discount := value.Mul(card.DiscountRate())
			scenarios = append(scenarios, domain.NewFullCardScenario(order, card, discount))
		}
	}

	// 3. 积分不足整单时，用光全部积分，差额由一张卡补足
	if points != nil {
		available := points.RemainingLimit()
		if available.IsPositive() && available.LessThan(value) {
			shortfall := value.Sub(available)
			for _, card := range cards {
				if card.RemainingLimit().LessThan(shortfall) {
					continue
				}
				discount := domain.MixedDiscount(value, available, points.DiscountRate(), shortfall, card.DiscountRate())
				scenarios = append(scenarios, domain.NewMixedScenario(order, points, card, available, shortfall, discount))
			}
		}
	}

	return scenarios
}

// better 判断 a 是否严格优于 b：
// 折扣更大者优先；折扣相同时使用积分的方案优先；仍相同时不占用银行卡额度的方案优先。
// 全部相同则保留先生成的方案。
func better(a, b *domain.Scenario) bool {
	if cmp := a.Discount().Cmp(b.Discount()); cmp != 0 {
		return cmp > 0
	}
	if a.UsesPoints() != b.UsesPoints() {
		return a.UsesPoints()
	}
	if a.UsesCard() != b.UsesCard() {
		return !a.UsesCard()
	}
	return false
}
