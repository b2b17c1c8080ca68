package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LoggerOpts struct {
	Level        string
	IsProduction bool
	JSONConsole  bool      // Whether to use JSON encoding for the console output
	Output       io.Writer // Defaults to stderr so command output on stdout stays clean
}

// Use zap WrapCore if interface is required
func NewZapLogger(opts LoggerOpts) (*zap.Logger, zap.AtomicLevel, error) {
	if opts.Level == "none" {
		return zap.NewNop(), zap.AtomicLevel{}, nil
	}
	level, err := zap.ParseAtomicLevel(opts.Level)
	if err != nil {
		return nil, level, err
	}
	var ecfg zapcore.EncoderConfig
	if opts.IsProduction {
		ecfg = zap.NewProductionEncoderConfig()
	} else {
		ecfg = zap.NewDevelopmentEncoderConfig()
	}
	ecfg.EncodeTime = zapcore.ISO8601TimeEncoder

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	// Only a terminal gets colors; redirected output is always JSON.
	var core zapcore.Core
	if opts.JSONConsole || !isTTY(out) {
		core = jsonCore(ecfg, out, level)
	} else {
		core = consoleCore(ecfg, out, level)
	}
	return zap.New(core), level, nil
}

// Core to write pretty output to the console
func consoleCore(ecfg zapcore.EncoderConfig, out io.Writer, level zap.AtomicLevel) zapcore.Core {
	ecfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(ecfg), zapcore.AddSync(out), level)
}

// Core to write only JSON
func jsonCore(ecfg zapcore.EncoderConfig, out io.Writer, level zap.AtomicLevel) zapcore.Core {
	return zapcore.NewCore(zapcore.NewJSONEncoder(ecfg), zapcore.AddSync(out), level)
}

type Logger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// New wrapped Zap logger.
func NewLogger(opts LoggerOpts) (Logger, error) {
	logger, level, err := NewZapLogger(opts)
	return Logger{logger, level}, err
}

func NewNoopLogger() Logger {
	return Logger{logger: zap.NewNop(), level: zap.AtomicLevel{}}
}

// Return usable Zap logger.
func (l Logger) Get() *zap.Logger {
	return l.logger
}

func isTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
