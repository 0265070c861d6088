// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Options 控制全局 logger 的输出
type Options struct {
	Service string
	Level   string // debug / info / warn / error
	Format  string // console / json
	Output  io.Writer
}

// Init 配置 zerolog 全局 logger。诊断输出一律走 stderr，stdout 留给汇总结果。
func Init(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	l := zerolog.New(out).With().Timestamp().Logger()
	if opts.Service != "" {
		l = l.With().Str("service", opts.Service).Logger()
	}
	zlog.Logger = l
	return l
}

// Ctx 返回 context 中携带的 logger，没有时退回全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &zlog.Logger
}

// With 在 context 的 logger 上追加字段，并把新 logger 写回 context。
func With(ctx context.Context, fields map[string]string) context.Context {
	lc := Ctx(ctx).With()
	for k, v := range fields {
		lc = lc.Str(k, v)
	}
	l := lc.Logger()
	return l.WithContext(ctx)
}

// WithTrace 把当前 span 的 trace_id 写入 context logger，便于日志与链路关联。
func WithTrace(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ctx
	}
	return With(ctx, map[string]string{"trace_id": sc.TraceID().String()})
}
