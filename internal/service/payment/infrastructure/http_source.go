// internal/service/payment/infrastructure/http_source.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"

	"paypilot/internal/pkg/httpclient"
	"paypilot/internal/pkg/logger"
	"paypilot/internal/service/payment/application"
	"paypilot/internal/service/payment/domain"
)

// HTTPRecordSource 从两个 HTTP 地址拉取 JSON 记录，格式与文件相同。
type HTTPRecordSource struct {
	client     *httpclient.Client
	ordersURL  string
	methodsURL string
	mapper     *application.RecordMapper
}

func NewHTTPRecordSource(client *httpclient.Client, ordersURL, methodsURL string, mapper *application.RecordMapper) *HTTPRecordSource {
	return &HTTPRecordSource{client: client, ordersURL: ordersURL, methodsURL: methodsURL, mapper: mapper}
}

func (s *HTTPRecordSource) Orders(ctx context.Context) ([]*domain.Order, error) {
	var records []application.OrderRecord
	if err := s.client.GetJSON(ctx, s.ordersURL, &records); err != nil {
		return nil, err
	}
	orders, err := s.mapper.ToOrders(records)
	if err != nil {
		return nil, errors.Wrapf(err, "orders from %s", s.ordersURL)
	}
	logger.Ctx(ctx).Debug().Str("url", s.ordersURL).Int("count", len(orders)).Msg("orders fetched")
	return orders, nil
}

func (s *HTTPRecordSource) PaymentMethods(ctx context.Context) ([]domain.Method, error) {
	var records []application.PaymentMethodRecord
	if err := s.client.GetJSON(ctx, s.methodsURL, &records); err != nil {
		return nil, err
	}
	methods, err := s.mapper.ToMethods(records)
	if err != nil {
		return nil, errors.Wrapf(err, "payment methods from %s", s.methodsURL)
	}
	logger.Ctx(ctx).Debug().Str("url", s.methodsURL).Int("count", len(methods)).Msg("payment methods fetched")
	return methods, nil
}
