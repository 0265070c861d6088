// internal/service/payment/infrastructure/kafka_sink.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/pkg/mq"
	"paypilot/internal/service/payment/application"
	"paypilot/internal/service/payment/domain"
)

// messageWriter 是 *kafka.Writer 中本适配器用到的部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AllocationEvent 是发往 Kafka 的分配消息
type AllocationEvent struct {
	TraceID string `json:"traceId,omitempty"`
	application.AllocationView
	AllocatedAt time.Time `json:"allocatedAt"`
}

// KafkaAllocationSink 把每笔分配作为一条消息发送到 Kafka，key 为订单号。
type KafkaAllocationSink struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaAllocationSink 创建连接到 brokers/topic 的 sink
func NewKafkaAllocationSink(brokers []string, topic string) *KafkaAllocationSink {
	return newKafkaAllocationSink(mq.NewKafkaWriter(brokers, topic))
}

func newKafkaAllocationSink(w messageWriter) *KafkaAllocationSink {
	return &KafkaAllocationSink{writer: w, now: time.Now}
}

func (s *KafkaAllocationSink) Publish(ctx context.Context, allocations []*domain.Scenario) error {
	if len(allocations) == 0 {
		return nil
	}

	traceID := ""
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}

	msgs := make([]kafka.Message, 0, len(allocations))
	for _, a := range allocations {
		body, err := json.Marshal(AllocationEvent{
			TraceID:        traceID,
			AllocationView: application.ToAllocationView(a),
			AllocatedAt:    s.now().UTC(),
		})
		if err != nil {
			return errors.Wrapf(err, "marshal allocation %s", a.Order().ID())
		}
		msg := kafka.Message{Key: []byte(a.Order().ID()), Value: body}
		mq.InjectTraceContext(ctx, &msg.Headers)
		msgs = append(msgs, msg)
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.Ctx(ctx).Error().Err(err).Int("messages", len(msgs)).Msg("failed to produce allocations to Kafka")
		return errors.Wrap(err, "write allocations")
	}
	logger.Ctx(ctx).Debug().Int("messages", len(msgs)).Msg("allocations produced")
	return nil
}

// Close 关闭底层的 Kafka writer
func (s *KafkaAllocationSink) Close() error {
	return s.writer.Close()
}
