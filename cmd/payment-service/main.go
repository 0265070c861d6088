// cmd/payment-service/main.go
package main

import (
	"context"
	"flag"

	zlog "github.com/rs/zerolog/log"

	"paypilot/internal/pkg/bootstrap"
	"paypilot/internal/pkg/metrics"
	"paypilot/internal/service/payment/application"
	"paypilot/internal/service/payment/infrastructure"
	"paypilot/internal/service/payment/interfaces"
)

const serviceName = "payment-service"

// main 函数是应用的"组装根" (Composition Root)
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	bootstrap.Init(cfg, serviceName)

	mapper, err := application.NewRecordMapper(application.DiscountUnit(cfg.Payment.DiscountUnit))
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid discount unit")
	}

	var kafkaSink *infrastructure.KafkaAllocationSink
	if len(cfg.Infra.Kafka.Brokers) > 0 {
		kafkaSink = infrastructure.NewKafkaAllocationSink(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic)
	}

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			opts := []application.ProcessorOption{application.WithMetrics(metrics.NewRecorder(appCtx.Registry))}
			if kafkaSink != nil {
				opts = append(opts, application.WithSink(kafkaSink))
			}
			processor := application.NewOrderProcessor(application.NewScenarioEvaluator(), opts...)
			service := application.NewPaymentService(mapper, processor, application.NewBatchService(processor, cfg.Payment.Workers))
			interfaces.NewPaymentHandler(service).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			if kafkaSink == nil {
				return
			}
			if err := kafkaSink.Close(); err != nil {
				zlog.Error().Err(err).Msg("Error closing kafka writer")
			}
		},
	})
}
