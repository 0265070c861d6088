// internal/service/payment/domain/summary.go
package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MethodTotal 是一个支付方式在整批分配中被扣减的总额
type MethodTotal struct {
	MethodID string
	Kind     MethodKind
	Amount   decimal.Decimal
}

// String 输出 "<method-id> <amount>"，金额四舍五入保留两位小数。
func (t MethodTotal) String() string {
	return t.MethodID + " " + t.Amount.StringFixed(2)
}

// Summarize 按支付方式汇总分配金额：银行卡按 id 排序在前，积分在最后。
// 未被使用的支付方式不出现在结果中。
func Summarize(allocations []*Scenario) []MethodTotal {
	cardTotals := make(map[string]decimal.Decimal)
	points := decimal.Zero
	usedPoints := false

	for _, s := range allocations {
		if s == nil {
			continue
		}
		if s.UsesCard() {
			id := s.CardID()
			cardTotals[id] = cardTotals[id].Add(s.CardCharge())
		}
		if s.UsesPoints() {
			points = points.Add(s.PointsUsed())
			usedPoints = true
		}
	}

	ids := make([]string, 0, len(cardTotals))
	for id := range cardTotals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	totals := make([]MethodTotal, 0, len(ids)+1)
	for _, id := range ids {
		totals = append(totals, MethodTotal{MethodID: id, Kind: KindCard, Amount: cardTotals[id]})
	}
	if usedPoints {
		totals = append(totals, MethodTotal{MethodID: PointsMethodID, Kind: KindPoints, Amount: points})
	}
	return totals
}
