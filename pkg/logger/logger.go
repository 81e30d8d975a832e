// Package logger предоставляет единый интерфейс логирования поверх zap.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger — интерфейс логгера, который передаётся во все слои приложения.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
	Sync() error
}

// Options задаёт режим и файловый вывод логгера.
type Options struct {
	Mode     string // production | development
	Filename string // если пусто, пишем только в stdout
	MaxSize  int    // мегабайты
	MaxAge   int    // дни
	Backups  int
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger создаёт логгер в режиме development без файлового вывода.
func NewZapLogger() Logger {
	return NewZapLoggerWithOptions(Options{Mode: "development"})
}

// NewZapLoggerWithOptions создаёт логгер. При заданном Filename логи дублируются
// в файл с ротацией через lumberjack.
func NewZapLoggerWithOptions(opts Options) Logger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if opts.Mode == "production" {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		encoderCfg = zap.NewProductionEncoderConfig()
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), level),
	}

	if opts.Filename != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    valueOr(opts.MaxSize, 64),
			MaxBackups: valueOr(opts.Backups, 7),
			MaxAge:     valueOr(opts.MaxAge, 7),
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return &zapLogger{sugar: l.Sugar()}
}

// NewNop возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (z *zapLogger) Debugf(format string, args ...any) {
	z.sugar.Debugf(format, args...)
}

func (z *zapLogger) Infof(format string, args ...any) {
	z.sugar.Infof(format, args...)
}

func (z *zapLogger) Warnf(format string, args ...any) {
	z.sugar.Warnf(format, args...)
}

func (z *zapLogger) Errorf(err error, format string, args ...any) {
	z.sugar.Errorw(fmt.Sprintf(format, args...), zap.Error(err))
}

func (z *zapLogger) Sync() error {
	return z.sugar.Sync()
}

func valueOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
