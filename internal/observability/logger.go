package observability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bdtax/income-tax-calculator/internal/calculation"
)

const defaultLogLevel = "info"

// Log encodings accepted by NewLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// NewLogger builds a zap logger at the given level. "json" emits structured
// lines for the server; "console" is the human readable CLI encoding.
// Unknown levels fall back to info.
func NewLogger(level, format string) (*zap.Logger, error) {
	atomic := zap.NewAtomicLevel()
	if err := atomic.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		_ = atomic.UnmarshalText([]byte(defaultLogLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeDuration: zapcore.StringDurationEncoder,
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		StacktraceKey:  "stacktrace",
	}

	encoding := strings.ToLower(strings.TrimSpace(format))
	switch encoding {
	case FormatJSON:
	case FormatConsole, "":
		encoding = FormatConsole
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	cfg := zap.Config{
		Level:             atomic,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     encoding == FormatConsole,
		DisableStacktrace: true,
	}

	return cfg.Build()
}

type loggerKey struct{}

// WithLogger injects the logger into the provided context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the logger from context, defaulting to a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

// EngineLogger adapts zap to the printf-style logger the tax engine expects.
type EngineLogger struct {
	logger *zap.SugaredLogger
}

var _ calculation.Logger = EngineLogger{}

// NewEngineLogger creates an EngineLogger backed by the supplied logger.
func NewEngineLogger(logger *zap.Logger) EngineLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return EngineLogger{logger: logger.Named("engine").Sugar()}
}

func (a EngineLogger) Debugf(format string, args ...any) { a.logger.Debugf(format, args...) }
func (a EngineLogger) Infof(format string, args ...any)  { a.logger.Infof(format, args...) }
func (a EngineLogger) Warnf(format string, args ...any)  { a.logger.Warnf(format, args...) }
func (a EngineLogger) Errorf(format string, args ...any) { a.logger.Errorf(format, args...) }

// WithRequestFields augments the logger with standard request-scoped fields.
func WithRequestFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(fields...)
}
