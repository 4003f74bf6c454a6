// 日誌配置
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 預設為 no-op，InitLogger 之前的調用不會崩潰
var Logger = zap.NewNop().Sugar()

func InitLogger() error {
	// 配置日誌輸出
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// 文件日誌核心
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   fmt.Sprintf("logs/mindbot_%s.log", time.Now().Format("2006-01-02")), // 按日期命名
			MaxSize:    50, // MB
			MaxBackups: 14,
			MaxAge:     30, // days
		}),
		zap.InfoLevel,
	)

	// 控制台日誌核心
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zap.DebugLevel,
	)

	// 組合多個日誌核心
	core := zapcore.NewTee(fileCore, consoleCore)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	Logger = logger.Sugar()
	return nil
}
