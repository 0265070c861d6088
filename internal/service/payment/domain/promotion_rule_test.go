package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullPointsRule(t *testing.T) {
	p := mustPoints(t, "0.15", "100")
	w, err := NewWallet(p)
	require.NoError(t, err)

	r := FullPointsRule{}
	o := mustOrder(t, "ORDER1", "100")
	base := BaseScenario(o)

	assert.True(t, r.Applicable(o, w, base))
	assert.True(t, r.Discount(o, w, base).Equal(dec("15")))

	big := mustOrder(t, "ORDER2", "100.01")
	assert.False(t, r.Applicable(big, w, BaseScenario(big)))
	assert.True(t, r.Discount(big, w, BaseScenario(big)).IsZero())

	used := NewFullPointsScenario(o, p, dec("15"))
	assert.False(t, r.Applicable(o, w, used), "points already used by base")

	assert.False(t, r.Applicable(nil, w, base))
	assert.True(t, r.Matches(used))
	assert.False(t, r.Matches(nil))
}

func TestPartialPointsRule(t *testing.T) {
	tests := []struct {
		name       string
		points     string
		cardLimit  string
		value      string
		applicable bool
		discount   string
	}{
		{name: "bonus when points cover ten percent", points: "50", cardLimit: "1000", value: "100", applicable: true, discount: "10"},
		{name: "exactly ten percent qualifies", points: "10", cardLimit: "1000", value: "100", applicable: true, discount: "10"},
		{name: "below threshold uses points rate", points: "5", cardLimit: "1000", value: "100", applicable: true, discount: "0.75"},
		{name: "points cover whole order", points: "100", cardLimit: "1000", value: "100", applicable: false, discount: "0"},
		{name: "no points left", points: "0", cardLimit: "1000", value: "100", applicable: false, discount: "0"},
		{name: "no card covers shortfall", points: "50", cardLimit: "49.99", value: "100", applicable: false, discount: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWallet(mustPoints(t, "0.15", tt.points), mustCard(t, "mZysk", "0.10", tt.cardLimit))
			require.NoError(t, err)
			o := mustOrder(t, "ORDER1", tt.value)
			base := BaseScenario(o)

			r := PartialPointsRule{}
			assert.Equal(t, tt.applicable, r.Applicable(o, w, base))
			assert.True(t, r.Discount(o, w, base).Equal(dec(tt.discount)), "discount %s", r.Discount(o, w, base))
		})
	}
}

func TestFullCardRule(t *testing.T) {
	c := mustCard(t, "mZysk", "0.10", "180")
	w, err := NewWallet(c, mustCard(t, "BosBankrut", "0.05", "200"))
	require.NoError(t, err)

	r := NewFullCardRule("mZysk")
	assert.Equal(t, "full-card:mZysk", r.Name())
	assert.Equal(t, RuleFullCard, r.Kind())

	eligible := mustOrder(t, "ORDER1", "100", "mZysk")
	assert.True(t, r.Applicable(eligible, w, BaseScenario(eligible)))
	assert.True(t, r.Discount(eligible, w, BaseScenario(eligible)).Equal(dec("10")))

	notEligible := mustOrder(t, "ORDER2", "100", "BosBankrut")
	assert.False(t, r.Applicable(notEligible, w, BaseScenario(notEligible)))

	tooBig := mustOrder(t, "ORDER3", "180.01", "mZysk")
	assert.False(t, r.Applicable(tooBig, w, BaseScenario(tooBig)))

	cardUsed := NewFullCardScenario(eligible, c, dec("10"))
	assert.False(t, r.Applicable(eligible, w, cardUsed))

	missing := NewFullCardRule("Revolut")
	withRevolut := mustOrder(t, "ORDER4", "1", "Revolut")
	assert.False(t, missing.Applicable(withRevolut, w, BaseScenario(withRevolut)))

	assert.True(t, r.Matches(cardUsed))
	other, _ := w.Card("BosBankrut")
	assert.False(t, r.Matches(NewFullCardScenario(eligible, other, dec("5"))))
}

func TestDefaultRule(t *testing.T) {
	r := DefaultRule{}
	assert.True(t, r.Applicable(nil, nil, nil))
	assert.True(t, r.Discount(nil, nil, nil).IsZero())
	assert.True(t, r.Matches(BaseScenario(mustOrder(t, "ORDER1", "1"))))
}

func TestDefaultRuleSet(t *testing.T) {
	w, err := NewWallet(
		mustCard(t, "mZysk", "0.10", "180"),
		mustCard(t, "BosBankrut", "0.05", "200"),
		mustPoints(t, "0.15", "100"),
	)
	require.NoError(t, err)

	rs := DefaultRuleSet(w)
	var names []string
	for _, r := range rs.Rules() {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"full-points", "partial-points", "default", "full-card:mZysk", "full-card:BosBankrut"}, names)
	assert.Equal(t, 5, rs.Len())

	assert.Equal(t, 3, DefaultRuleSet(nil).Len())
	assert.Equal(t, 1, NewRuleSet(nil, DefaultRule{}, nil).Len())
}

func TestRuleSet_DescribeAndQuote(t *testing.T) {
	c := mustCard(t, "mZysk", "0.10", "180")
	p := mustPoints(t, "0.15", "100")
	w, err := NewWallet(c, p)
	require.NoError(t, err)
	rs := DefaultRuleSet(w)

	o := mustOrder(t, "ORDER1", "100", "mZysk")

	assert.Equal(t, []string{"full-points", "default"}, rs.Describe(o, w, NewFullPointsScenario(o, p, dec("15"))))
	assert.Equal(t, []string{"default", "full-card:mZysk"}, rs.Describe(o, w, NewFullCardScenario(o, c, dec("10"))))

	quotes := rs.Quote(o, w)
	require.Contains(t, quotes, "full-points")
	require.Contains(t, quotes, "full-card:mZysk")
	require.Contains(t, quotes, "default")
	assert.NotContains(t, quotes, "partial-points")
	assert.True(t, quotes["full-points"].Equal(dec("15")))
	assert.True(t, quotes["full-card:mZysk"].Equal(dec("10")))
}

func TestMixedDiscount(t *testing.T) {
	// 积分 5/100 未达到门槛：5*0.15 + 95*0.10
	got := MixedDiscount(dec("100"), dec("5"), dec("0.15"), dec("95"), dec("0.10"))
	assert.True(t, got.Equal(dec("10.25")), got.String())

	got = MixedDiscount(dec("100"), dec("10"), dec("0.15"), dec("90"), dec("0"))
	assert.True(t, got.Equal(dec("10")), got.String())

	assert.False(t, QualifiesForPointsBonus(dec("100"), dec("0")))
	assert.True(t, QualifiesForPointsBonus(dec("0"), dec("0.01")))
}
