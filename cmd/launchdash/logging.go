package main

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spektr-org/launchdash/config"
)

// newLogger builds a zap-backed logr.Logger. Verbosity n enables
// log.V(n) messages; zap writes them at level -n.
func newLogger(c config.Log) (logr.Logger, func(), error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(int8(-c.Verbosity)))
	zc.DisableStacktrace = !c.Development

	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
