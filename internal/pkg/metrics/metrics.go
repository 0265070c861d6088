// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "paypilot"

// Recorder 收集订单分配过程的指标。所有方法对 nil 接收者安全，便于在测试中省略。
type Recorder struct {
	orders     *prometheus.CounterVec
	discount   prometheus.Counter
	charged    *prometheus.CounterVec
	candidates prometheus.Histogram
	batches    prometheus.Counter
}

// NewRecorder 创建并在 reg 上注册全部指标。
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_total",
			Help:      "Orders processed, partitioned by final allocation state.",
		}, []string{"state"}),
		discount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_total",
			Help:      "Sum of discounts granted by allocated scenarios.",
		}),
		charged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charged_total",
			Help:      "Amount charged per payment method kind.",
		}, []string{"kind"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_candidates",
			Help:      "Number of feasible scenarios generated per evaluated order.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Order batches processed.",
		}),
	}
	reg.MustRegister(r.orders, r.discount, r.charged, r.candidates, r.batches)
	return r
}

// ObserveCandidates 记录一次评估产生的可行方案数
func (r *Recorder) ObserveCandidates(n int) {
	if r == nil {
		return
	}
	r.candidates.Observe(float64(n))
}

// Allocated 记录一笔成功分配的订单
func (r *Recorder) Allocated(discount, points, card decimal.Decimal) {
	if r == nil {
		return
	}
	r.orders.WithLabelValues("allocated").Inc()
	r.discount.Add(discount.InexactFloat64())
	if points.IsPositive() {
		r.charged.WithLabelValues("points").Add(points.InexactFloat64())
	}
	if card.IsPositive() {
		r.charged.WithLabelValues("card").Add(card.InexactFloat64())
	}
}

// Failed 记录一笔失败的订单
func (r *Recorder) Failed() {
	if r == nil {
		return
	}
	r.orders.WithLabelValues("failed").Inc()
}

// BatchDone 记录一批订单处理完成
func (r *Recorder) BatchDone() {
	if r == nil {
		return
	}
	r.batches.Inc()
}
