// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"

	"paypilot/internal/pkg/logger"
	"paypilot/internal/pkg/tracing"
)

type AppCtx struct {
	Mux      *http.ServeMux
	Config   *Config
	Registry *prometheus.Registry
}

// AppInfo 包含了启动一个服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Config           *Config
	RegisterHandlers func(appCtx AppCtx) // 一个函数，允许每个服务注册自己独特的 HTTP 路由
	// OnShutdown 在 HTTP 服务关闭之后调用，用于释放服务自己的资源（如 Kafka writer）
	OnShutdown func(ctx context.Context)
}

// Init 初始化日志。cmd 入口在读取配置后第一时间调用。
func Init(cfg *Config, serviceName string) {
	logger.Init(logger.Options{
		Service: serviceName,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})
}

// StartService 封装了服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := info.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// 1. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 2. 指标注册表，附带 Go 运行时与进程指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 3. 创建并启动 HTTP Server
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Config: cfg, Registry: reg})
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info().Str("addr", server.Addr).Msgf("%s listening", info.ServiceName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Str("addr", server.Addr).Msg("could not listen")
		}
	}()

	// 4. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 阻塞主 goroutine，直到接收到退出信号
	<-quit
	zlog.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// a. 关闭 HTTP 服务器，不再接收新的请求
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("Error shutting down http server")
	} else {
		zlog.Info().Msg("HTTP server shut down.")
	}

	if info.OnShutdown != nil {
		info.OnShutdown(ctx)
	}

	// b. 关闭 Tracer Provider，确保所有缓冲的 trace 都被发送出去
	if err := tp.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("Error shutting down tracer provider")
	} else {
		zlog.Info().Msg("Tracer provider shut down.")
	}

	zlog.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}
