package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Output goes to stderr so reports
// printed on stdout stay clean.
func New(json bool, debug bool) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:         encoding(json),
		Level:            zap.NewAtomicLevelAt(level(debug)),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig(),
	}

	return cfg.Build()
}

func encoding(json bool) string {
	if json {
		return "json"
	}
	return "console"
}

func level(debug bool) zapcore.Level {
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey: "step",

		LevelKey:    "level",
		EncodeLevel: zapcore.LowercaseLevelEncoder,

		TimeKey:    "time",
		EncodeTime: zapcore.RFC3339TimeEncoder,

		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}
