// internal/service/payment/infrastructure/summary_reporter.go
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/service/payment/domain"
)

// SummaryReporter 把分配结果按支付方式汇总后逐行写入 out，实现 port.SummarySink。
type SummaryReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSummaryReporter(out io.Writer) *SummaryReporter {
	return &SummaryReporter{out: out}
}

func (r *SummaryReporter) Publish(ctx context.Context, allocations []*domain.Scenario) error {
	totals := domain.Summarize(allocations)
	if len(totals) == 0 {
		logger.Ctx(ctx).Info().Msg("no payment scenarios to report")
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range totals {
		if _, err := fmt.Fprintln(r.out, t.String()); err != nil {
			return errors.Wrap(err, "write summary")
		}
	}
	return nil
}
