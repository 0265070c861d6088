// internal/service/payment/application/service.go
package application

import (
	"context"

	"github.com/pkg/errors"

	"paypilot/internal/service/payment/domain"
)

// ErrInvalidRequest 标记由请求内容本身导致的失败，接口层据此返回 400。
var ErrInvalidRequest = errors.New("invalid request")

// invalidRequestError 保留原始错误链，同时让 errors.Is(err, ErrInvalidRequest) 成立
type invalidRequestError struct {
	err error
}

func invalidRequest(err error) error {
	return &invalidRequestError{err: err}
}

func (e *invalidRequestError) Error() string { return ErrInvalidRequest.Error() + ": " + e.err.Error() }

func (e *invalidRequestError) Unwrap() error { return e.err }

func (e *invalidRequestError) Is(target error) bool { return target == ErrInvalidRequest }

// PaymentService 是对外用例入口：记录 -> 领域对象 -> 批处理 -> 响应。
type PaymentService struct {
	mapper    *RecordMapper
	processor *OrderProcessor
	batch     *BatchService
}

func NewPaymentService(mapper *RecordMapper, processor *OrderProcessor, batch *BatchService) *PaymentService {
	return &PaymentService{mapper: mapper, processor: processor, batch: batch}
}

// Optimize 处理单个付款人的全部订单。
// 投递失败时分配已经生效，响应与错误一并返回，SinkError 记录失败原因。
func (s *PaymentService) Optimize(ctx context.Context, req *OptimizeRequest) (*OptimizeResponse, error) {
	if req == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "empty request")
	}
	payer, err := s.toPayer("", req.Orders, req.PaymentMethods)
	if err != nil {
		return nil, err
	}

	result, err := s.processor.ProcessOrders(ctx, payer.Orders, payer.Wallet)
	if result == nil {
		return nil, err
	}
	resp := ToOptimizeResponse(result)
	if err != nil {
		resp.SinkError = err.Error()
	}
	return resp, err
}

// OptimizeBatch 并发处理多个付款人。任何一个付款人的记录非法或 payerId 重复时整个请求被拒绝。
func (s *PaymentService) OptimizeBatch(ctx context.Context, req *BatchRequest) (*BatchResponse, error) {
	if req == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "empty request")
	}

	payers := make([]Payer, 0, len(req.Payers))
	seen := make(map[string]struct{}, len(req.Payers))
	for i, p := range req.Payers {
		if p.PayerID == "" {
			return nil, errors.Wrapf(ErrInvalidRequest, "payer %d: missing payerId", i)
		}
		if _, dup := seen[p.PayerID]; dup {
			return nil, errors.Wrapf(ErrInvalidRequest, "payer %d: duplicate payerId %s", i, p.PayerID)
		}
		seen[p.PayerID] = struct{}{}
		payer, err := s.toPayer(p.PayerID, p.Orders, p.PaymentMethods)
		if err != nil {
			return nil, errors.Wrapf(err, "payer %s", p.PayerID)
		}
		payers = append(payers, payer)
	}

	results, err := s.batch.ProcessPayers(ctx, payers)
	if err != nil {
		return nil, err
	}

	resp := &BatchResponse{Payers: make([]PayerResponse, 0, len(results))}
	for _, r := range results {
		pr := PayerResponse{PayerID: r.PayerID}
		if r.Result != nil {
			pr.OptimizeResponse = ToOptimizeResponse(r.Result)
		}
		if r.Err != nil {
			pr.Error = r.Err.Error()
			if pr.OptimizeResponse != nil {
				pr.SinkError = pr.Error
			}
		}
		resp.Payers = append(resp.Payers, pr)
	}
	return resp, nil
}

func (s *PaymentService) toPayer(id string, orders []OrderRecord, methods []PaymentMethodRecord) (Payer, error) {
	parsed, err := s.mapper.ToOrders(orders)
	if err != nil {
		return Payer{}, invalidRequest(err)
	}
	wallet, err := s.mapper.ToWallet(methods)
	if err != nil {
		return Payer{}, invalidRequest(err)
	}
	return Payer{ID: id, Orders: parsed, Wallet: wallet}, nil
}

// IsInvalidInput 判断错误是否由非法输入引起
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		domain.ErrInvalidArgument,
		domain.ErrInvalidOrder,
		domain.ErrInvalidMethod,
		domain.ErrDuplicateMethod,
		domain.ErrMultiplePoints,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
