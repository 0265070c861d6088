// internal/service/payment/application/processor.go
package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/pkg/metrics"
	"paypilot/internal/service/payment/domain"
	"paypilot/internal/service/payment/port"
)

const tracerName = "paypilot/payment"

// OrderOutcome 记录一笔订单在本轮处理中的最终状态
type OrderOutcome struct {
	Index    int
	OrderID  string
	State    domain.AllocationState
	Scenario *domain.Scenario // 仅 ALLOCATED 时非空
	Err      error            // 仅 FAILED 时非空
}

// OrderFailure 是失败订单的摘要，Index 为订单在输入中的位置。
type OrderFailure struct {
	Index   int
	OrderID string
	Err     error
}

// BatchResult 是一次 ProcessOrders 的结果
type BatchResult struct {
	RunID       string
	Outcomes    []OrderOutcome
	Allocations []*domain.Scenario
	Failures    []OrderFailure
}

// ProcessorOption 配置 OrderProcessor
type ProcessorOption func(*OrderProcessor)

// WithSink 设置分配结果的接收方
func WithSink(sink port.SummarySink) ProcessorOption {
	return func(p *OrderProcessor) { p.sink = sink }
}

// WithMetrics 设置指标记录器
func WithMetrics(m *metrics.Recorder) ProcessorOption {
	return func(p *OrderProcessor) { p.metrics = m }
}

// WithTracer 替换默认的全局 tracer
func WithTracer(t trace.Tracer) ProcessorOption {
	return func(p *OrderProcessor) { p.tracer = t }
}

// WithRules 固定使用给定的规则集；未设置时按钱包生成默认规则集。
func WithRules(rules *domain.RuleSet) ProcessorOption {
	return func(p *OrderProcessor) { p.rules = rules }
}

// OrderProcessor 按输入顺序逐笔处理订单：评估、扣减、记录结果。
// 单笔订单失败不会中断整批处理。
type OrderProcessor struct {
	evaluator *ScenarioEvaluator
	rules     *domain.RuleSet
	sink      port.SummarySink
	metrics   *metrics.Recorder
	tracer    trace.Tracer
}

func NewOrderProcessor(evaluator *ScenarioEvaluator, opts ...ProcessorOption) *OrderProcessor {
	if evaluator == nil {
		evaluator = NewScenarioEvaluator()
	}
	p := &OrderProcessor{evaluator: evaluator}
	for _, opt := range opts {
		opt(p)
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	return p
}

// ProcessOrders 在同一个钱包上依次处理 orders。
// wallet 为 nil 时直接返回 domain.ErrInvalidArgument，不处理任何订单。
// 处理结束后把成功的分配交给 sink；sink 出错时结果与错误一并返回。
func (p *OrderProcessor) ProcessOrders(ctx context.Context, orders []*domain.Order, wallet *domain.Wallet) (*BatchResult, error) {
	if wallet == nil {
		return nil, errors.Wrap(domain.ErrInvalidArgument, "wallet is required")
	}

	result := &BatchResult{
		RunID:       uuid.NewString(),
		Outcomes:    make([]OrderOutcome, 0, len(orders)),
		Allocations: make([]*domain.Scenario, 0, len(orders)),
	}

	ctx, span := p.tracer.Start(ctx, "app.ProcessOrders", trace.WithAttributes(
		attribute.String("batch.run_id", result.RunID),
		attribute.Int("batch.orders", len(orders)),
	))
	defer span.End()
	ctx = logger.WithTrace(logger.With(ctx, map[string]string{"run_id": result.RunID}))

	rules := p.rules
	if rules == nil {
		rules = domain.DefaultRuleSet(wallet)
	}

	for i, order := range orders {
		outcome := p.processOne(ctx, i, order, wallet, rules)
		result.Outcomes = append(result.Outcomes, outcome)

		switch outcome.State {
		case domain.StateAllocated:
			result.Allocations = append(result.Allocations, outcome.Scenario)
		case domain.StateFailed:
			result.Failures = append(result.Failures, OrderFailure{Index: i, OrderID: outcome.OrderID, Err: outcome.Err})
		}
	}

	p.metrics.BatchDone()
	span.SetAttributes(
		attribute.Int("batch.allocated", len(result.Allocations)),
		attribute.Int("batch.failed", len(result.Failures)),
	)
	logger.Ctx(ctx).Info().
		Int("orders", len(orders)).
		Int("allocated", len(result.Allocations)).
		Int("failed", len(result.Failures)).
		Msg("batch processed")

	if p.sink != nil {
		if err := p.sink.Publish(ctx, result.Allocations); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "publish allocations failed")
			return result, errors.Wrap(err, "publish allocations")
		}
	}
	return result, nil
}

func (p *OrderProcessor) processOne(ctx context.Context, index int, order *domain.Order, wallet *domain.Wallet, rules *domain.RuleSet) OrderOutcome {
	outcome := OrderOutcome{Index: index, State: domain.StateEvaluating}
	if order == nil {
		return p.fail(ctx, outcome, errors.Wrapf(domain.ErrInvalidArgument, "order at index %d is nil", index))
	}
	outcome.OrderID = order.ID()

	ctx, span := p.tracer.Start(ctx, "app.ProcessOrder", trace.WithAttributes(
		attribute.String("order.id", order.ID()),
		attribute.String("order.value", order.Value().String()),
	))
	defer span.End()

	if e := logger.Ctx(ctx).Debug(); e.Enabled() {
		d := zerolog.Dict()
		for name, q := range rules.Quote(order, wallet) {
			d.Str(name, q.String())
		}
		e.Str("order_id", order.ID()).Dict("rule_quotes", d).Msg("evaluating order")
	}

	scenario, candidates, err := p.evaluator.evaluate(order, wallet, rules)
	p.metrics.ObserveCandidates(candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		return p.fail(ctx, outcome, err)
	}

	if err := wallet.Apply(scenario); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply scenario failed")
		return p.fail(ctx, outcome, err)
	}

	span.SetAttributes(
		attribute.String("scenario.shape", string(scenario.Shape())),
		attribute.String("scenario.card", scenario.CardID()),
		attribute.String("scenario.discount", scenario.Discount().String()),
	)
	p.metrics.Allocated(scenario.Discount(), scenario.PointsUsed(), scenario.CardCharge())
	logger.Ctx(ctx).Debug().
		Str("order_id", order.ID()).
		Str("shape", string(scenario.Shape())).
		Str("card", scenario.CardID()).
		Str("points_used", scenario.PointsUsed().String()).
		Str("card_charge", scenario.CardCharge().String()).
		Str("discount", scenario.Discount().String()).
		Strs("promotions", scenario.Promotions()).
		Msg("order allocated")

	outcome.State = domain.StateAllocated
	outcome.Scenario = scenario
	return outcome
}

func (p *OrderProcessor) fail(ctx context.Context, outcome OrderOutcome, err error) OrderOutcome {
	outcome.State = domain.StateFailed
	outcome.Err = err
	p.metrics.Failed()
	logger.Ctx(ctx).Warn().Err(err).
		Int("index", outcome.Index).
		Str("order_id", outcome.OrderID).
		Msg("order failed")
	return outcome
}
