// cmd/payment-optimizer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	zlog "github.com/rs/zerolog/log"

	"paypilot/internal/pkg/bootstrap"
	"paypilot/internal/pkg/httpclient"
	"paypilot/internal/pkg/logger"
	"paypilot/internal/pkg/tracing"
	"paypilot/internal/service/payment/application"
	"paypilot/internal/service/payment/domain"
	"paypilot/internal/service/payment/infrastructure"
	"paypilot/internal/service/payment/port"
)

const serviceName = "payment-optimizer"

var errMixedLocations = errors.New("orders and payment methods must both be files or both be http(s) URLs")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file.yaml] <orders.json|url> <paymentmethods.json|url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	if err := checkLocations(flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	bootstrap.Init(cfg, serviceName)

	if err := run(context.Background(), cfg, flag.Arg(0), flag.Arg(1)); err != nil {
		zlog.Error().Err(err).Msg("payment optimizer failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *bootstrap.Config, ordersPath, methodsPath string) error {
	tp, err := tracing.InitTracerProvider(serviceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		return errors.Wrap(err, "init tracer provider")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zlog.Warn().Err(err).Msg("tracer provider shutdown")
		}
	}()

	mapper, err := application.NewRecordMapper(application.DiscountUnit(cfg.Payment.DiscountUnit))
	if err != nil {
		return err
	}

	source, err := newRecordSource(ordersPath, methodsPath, mapper)
	if err != nil {
		return err
	}
	orders, err := source.Orders(ctx)
	if err != nil {
		return err
	}
	methods, err := source.PaymentMethods(ctx)
	if err != nil {
		return err
	}
	wallet, err := domain.NewWallet(methods...)
	if err != nil {
		return err
	}

	sinks := infrastructure.MultiSink{infrastructure.NewSummaryReporter(os.Stdout)}
	if len(cfg.Infra.Kafka.Brokers) > 0 {
		kafkaSink := infrastructure.NewKafkaAllocationSink(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	processor := application.NewOrderProcessor(application.NewScenarioEvaluator(), application.WithSink(sinks))
	result, err := processor.ProcessOrders(ctx, orders, wallet)
	if err != nil {
		return err
	}

	logger.Ctx(ctx).Info().
		Str("run_id", result.RunID).
		Int("allocated", len(result.Allocations)).
		Int("failed", len(result.Failures)).
		Msg("done")
	return nil
}

// checkLocations 要求两个参数同为文件路径或同为 http(s) 地址
func checkLocations(ordersLoc, methodsLoc string) error {
	if httpclient.IsURL(ordersLoc) != httpclient.IsURL(methodsLoc) {
		return errors.Wrapf(errMixedLocations, "got %q and %q", ordersLoc, methodsLoc)
	}
	return nil
}

func newRecordSource(ordersLoc, methodsLoc string, mapper *application.RecordMapper) (port.RecordSource, error) {
	if err := checkLocations(ordersLoc, methodsLoc); err != nil {
		return nil, err
	}
	if httpclient.IsURL(ordersLoc) {
		return infrastructure.NewHTTPRecordSource(httpclient.NewClient(nil), ordersLoc, methodsLoc, mapper), nil
	}
	return infrastructure.NewJSONFileSource(ordersLoc, methodsLoc, mapper), nil
}
