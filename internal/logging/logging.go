// Package logging builds the zap logger used by kmpfind. Diagnostics go to
// stderr so stdout stays reserved for results.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects output encoding and level.
type Options struct {
	JSON      bool
	Verbosity int // 0=warn, 1=info, 2+=debug
	Quiet     bool
}

// Level maps the CLI verbosity knobs to a zap level. Quiet wins.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Quiet:
		return zapcore.ErrorLevel
	case o.Verbosity >= 2:
		return zapcore.DebugLevel
	case o.Verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a logger writing to w.
func New(w io.Writer, o Options) *zap.Logger {
	var enc zapcore.Encoder
	if o.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(o.Level()))
	return zap.New(core).Named("kmpfind")
}
