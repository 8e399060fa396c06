// Package logging builds the application zap logger: console output plus an
// optional rotated file sink.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Dir is the log directory; empty disables the file sink.
	Dir string
	// RotateSizeMB is the max size of one log file before rotation.
	RotateSizeMB int
	// RotateKeep is how many rotated files to retain.
	RotateKeep int
	// Development switches to the console-friendly encoder and debug level.
	Development bool
}

// New constructs the logger. Failure to set up the file sink degrades to
// console-only rather than failing startup.
func New(opts Options) (*zap.Logger, error) {
	level := zap.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var consoleEnc zapcore.Encoder
	if opts.Development {
		level = zap.DebugLevel
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	} else {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), level),
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err == nil {
			size := opts.RotateSizeMB
			if size <= 0 {
				size = 50
			}
			keep := opts.RotateKeep
			if keep <= 0 {
				keep = 7
			}
			fileSink := zapcore.AddSync(&lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, "storefront.log"),
				MaxSize:    size,
				MaxBackups: keep,
				Compress:   true,
			})
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, level))
		}
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
