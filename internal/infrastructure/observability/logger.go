package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"flowcanvas/internal/config"
)

// NewLogger builds the process logger. The returned level can be changed at
// runtime, which is how a configuration reload adjusts verbosity.
func NewLogger(cfg config.Logging, env config.Environment) (*zap.Logger, zap.AtomicLevel, error) {
	var zc zap.Config
	if env == config.Production {
		zc = zap.NewProductionConfig()
		zc.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	zc.Encoding = cfg.Format
	if cfg.Format == "console" {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger.With(zap.String("environment", string(env))), zc.Level, nil
}

// ParseLevel converts a configured level name. An empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(name)
}
