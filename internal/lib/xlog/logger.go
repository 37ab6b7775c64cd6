package xlog

import (
	"io"
	"log/slog"
	"os"

	"github.com/ImSingee/go-ex/ee"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ImSingee/repobox/internal/lib/fsutil"
)

type Options struct {
	// File receives JSON lines, rotated by size. Empty disables the file output.
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Console, when not nil, additionally receives human readable lines at debug level
	Console io.Writer
}

// Logger is a slog.Logger backed by zap
type Logger struct {
	*slog.Logger

	zap  *zap.Logger
	file *lumberjack.Logger
}

func New(o Options) (*Logger, error) {
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = 10
	}
	if o.MaxBackups == 0 {
		o.MaxBackups = 3
	}
	if o.MaxAgeDays == 0 {
		o.MaxAgeDays = 14
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(o.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var cores []zapcore.Core
	var file *lumberjack.Logger

	if o.File != "" {
		if _, err := fsutil.MkdirFor(o.File); err != nil {
			return nil, ee.Wrap(err, "cannot create log directory")
		}

		file = &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "ts"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level))
	}

	if o.Console != nil {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if o.Console != os.Stderr && o.Console != os.Stdout {
			encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(o.Console), zapcore.DebugLevel))
		level = zapcore.DebugLevel
	}

	if len(cores) == 0 {
		return &Logger{Logger: DisabledLogger, zap: zap.NewNop()}, nil
	}

	z := zap.New(zapcore.NewTee(cores...))

	return &Logger{
		Logger: slog.New(&zapHandler{zap: z, level: level}),
		zap:    z,
		file:   file,
	}, nil
}

func (l *Logger) Close() error {
	_ = l.zap.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
