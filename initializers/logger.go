package initializers

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger installs the global zap logger. When LOG_FILE is set the JSON
// log is rotated on disk while the console keeps the development encoder.
func InitLogger() {
	logFile := os.Getenv("LOG_FILE")

	var logger *zap.Logger
	if logFile != "" {
		fileSink := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(fileSink),
				level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zap.NewDevelopmentConfig().Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}
