package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger = zap.NewNop()
	once sync.Once
)

// Init builds the process logger. APP_ENV=development switches to a console
// encoder with debug level.
func Init() error {
	var err error
	once.Do(func() {
		var cfg zap.Config
		if os.Getenv("APP_ENV") == "development" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.TimeKey = "ts"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		var l *zap.Logger
		l, err = cfg.Build()
		if err != nil {
			return
		}
		log = l.With(zap.String("service", "sullenda-api"))
	})
	return err
}

// L returns the process logger, a no-op logger before Init.
func L() *zap.Logger {
	return log
}

func Sync() {
	_ = log.Sync()
}
