package xlog

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapHandler lets slog records flow into zap cores
type zapHandler struct {
	zap   *zap.Logger
	level zapcore.Level
	attrs []zap.Field
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return zapLevel(level) >= h.level
}

func (h *zapHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, len(h.attrs)+r.NumAttrs())
	fields = append(fields, h.attrs...)

	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, field(attr))
		return true
	})

	if ce := h.zap.Check(zapLevel(r.Level), r.Message); ce != nil {
		ce.Write(fields...)
	}

	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(h.attrs)+len(attrs))
	fields = append(fields, h.attrs...)
	for _, attr := range attrs {
		fields = append(fields, field(attr))
	}

	return &zapHandler{zap: h.zap, level: h.level, attrs: fields}
}

// WithGroup nests every later attr under name, the logger name is left alone
func (h *zapHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	fields := make([]zap.Field, 0, len(h.attrs)+1)
	fields = append(fields, h.attrs...)
	fields = append(fields, zap.Namespace(name))

	return &zapHandler{zap: h.zap, level: h.level, attrs: fields}
}

func field(attr slog.Attr) zap.Field {
	v := attr.Value.Resolve()
	if err, ok := v.Any().(error); ok {
		return zap.String(attr.Key, err.Error())
	}
	return zap.Any(attr.Key, v.Any())
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
