// internal/service/payment/interfaces/http_handler.go
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/service/payment/application"
)

const (
	serviceName  = "payment-service"
	maxBodyBytes = 4 << 20
)

// PaymentHandler 封装了支付优化服务的 HTTP 处理器
type PaymentHandler struct {
	service *application.PaymentService
	tracer  trace.Tracer
}

// NewPaymentHandler 创建一个新的 HTTP 处理器实例
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service, tracer: otel.Tracer(serviceName)}
}

// RegisterRoutes 在 ServeMux 上注册业务路由，/healthz 与 /metrics 由 bootstrap 注册。
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /optimize", h.optimizeHandler)
	mux.HandleFunc("POST /optimize/batch", h.optimizeBatchHandler)
}

func (h *PaymentHandler) optimizeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "payment-service.Optimize")
	defer span.End()

	var req application.OptimizeRequest
	if !decodeBody(ctx, w, r, &req) {
		span.SetStatus(codes.Error, "malformed request body")
		return
	}
	span.SetAttributes(
		attribute.Int("request.orders", len(req.Orders)),
		attribute.Int("request.payment_methods", len(req.PaymentMethods)),
	)

	resp, err := h.service.Optimize(ctx, &req)
	if err != nil && resp == nil {
		h.writeError(ctx, w, span, err)
		return
	}
	if err != nil {
		// 分配已生效，仅投递失败：照常返回结果
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Str("run_id", resp.RunID).Msg("allocations not delivered")
	}
	span.SetAttributes(attribute.String("batch.run_id", resp.RunID))
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *PaymentHandler) optimizeBatchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.startSpan(r, "payment-service.OptimizeBatch")
	defer span.End()

	var req application.BatchRequest
	if !decodeBody(ctx, w, r, &req) {
		span.SetStatus(codes.Error, "malformed request body")
		return
	}
	span.SetAttributes(attribute.Int("request.payers", len(req.Payers)))

	resp, err := h.service.OptimizeBatch(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, span, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *PaymentHandler) startSpan(r *http.Request, name string) (context.Context, trace.Span) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
	return logger.WithTrace(ctx), span
}

func (h *PaymentHandler) writeError(ctx context.Context, w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	status := http.StatusInternalServerError
	if application.IsInvalidInput(err) {
		status = http.StatusBadRequest
		span.SetStatus(codes.Error, "invalid input")
		logger.Ctx(ctx).Warn().Err(err).Msg("rejected request")
	} else {
		span.SetStatus(codes.Error, "optimization failed")
		logger.Ctx(ctx).Error().Err(err).Msg("optimization failed")
	}
	writeJSON(ctx, w, status, map[string]string{"error": err.Error()})
}

func decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("malformed request body")
		writeJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
