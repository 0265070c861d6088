// internal/service/payment/infrastructure/json_source.go
package infrastructure

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/service/payment/application"
	"paypilot/internal/service/payment/domain"
)

// JSONFileSource 从两个 JSON 文件读取订单与支付方式记录，实现 port.RecordSource。
type JSONFileSource struct {
	ordersPath  string
	methodsPath string
	mapper      *application.RecordMapper
}

func NewJSONFileSource(ordersPath, methodsPath string, mapper *application.RecordMapper) *JSONFileSource {
	return &JSONFileSource{ordersPath: ordersPath, methodsPath: methodsPath, mapper: mapper}
}

func (s *JSONFileSource) Orders(ctx context.Context) ([]*domain.Order, error) {
	var records []application.OrderRecord
	if err := readJSON(s.ordersPath, &records); err != nil {
		return nil, err
	}
	orders, err := s.mapper.ToOrders(records)
	if err != nil {
		return nil, errors.Wrapf(err, "orders file %s", s.ordersPath)
	}
	logger.Ctx(ctx).Debug().Str("path", s.ordersPath).Int("count", len(orders)).Msg("orders loaded")
	return orders, nil
}

func (s *JSONFileSource) PaymentMethods(ctx context.Context) ([]domain.Method, error) {
	var records []application.PaymentMethodRecord
	if err := readJSON(s.methodsPath, &records); err != nil {
		return nil, err
	}
	methods, err := s.mapper.ToMethods(records)
	if err != nil {
		return nil, errors.Wrapf(err, "payment methods file %s", s.methodsPath)
	}
	logger.Ctx(ctx).Debug().Str("path", s.methodsPath).Int("count", len(methods)).Msg("payment methods loaded")
	return methods, nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
