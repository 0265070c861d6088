// internal/service/payment/domain/discount.go
package domain

import "github.com/shopspring/decimal"

var (
	// MixedBonusThreshold 积分至少覆盖订单金额的这一比例时，触发积分奖励折扣
	MixedBonusThreshold = decimal.RequireFromString("0.10")
	// MixedBonusRate 奖励折扣按整单金额的这一比例计算，取代分段折扣之和
	MixedBonusRate = decimal.RequireFromString("0.10")
)

// QualifiesForPointsBonus 判断积分部分是否达到整单奖励门槛。
func QualifiesForPointsBonus(orderValue, pointsUsed decimal.Decimal) bool {
	return pointsUsed.IsPositive() && pointsUsed.GreaterThanOrEqual(orderValue.Mul(MixedBonusThreshold))
}

// MixedDiscount 计算积分 + 银行卡组合支付的折扣。
// 达到门槛时按整单 MixedBonusRate 计算，否则两部分各按自身折扣率计算后相加。
func MixedDiscount(orderValue, pointsUsed, pointsRate, cardCharge, cardRate decimal.Decimal) decimal.Decimal {
	if QualifiesForPointsBonus(orderValue, pointsUsed) {
		return orderValue.Mul(MixedBonusRate)
	}
	return pointsUsed.Mul(pointsRate).Add(cardCharge.Mul(cardRate))
}
