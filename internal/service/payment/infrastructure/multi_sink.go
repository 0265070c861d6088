// internal/service/payment/infrastructure/multi_sink.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"

	"paypilot/internal/service/payment/domain"
	"paypilot/internal/service/payment/port"
)

// MultiSink 依次把分配结果交给每个 sink，返回遇到的第一个错误。
// 前面的 sink 出错不会阻止后面的 sink 收到结果。
type MultiSink []port.SummarySink

func (m MultiSink) Publish(ctx context.Context, allocations []*domain.Scenario) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, allocations); err != nil && first == nil {
			first = errors.WithStack(err)
		}
	}
	return first
}
