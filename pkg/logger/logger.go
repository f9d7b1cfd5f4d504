package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log 全局日志实例，Init 之后可用
var Log *zap.Logger

// Init 初始化 zap 日志
// debug 模式下用开发配置（彩色、可读），否则用生产配置（JSON）
func Init(env string, debug bool) {
	var (
		l   *zap.Logger
		err error
	)

	if debug {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.InitialFields = map[string]interface{}{"env": env}
		l, err = cfg.Build()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	Log = l
}

// Sync 刷新缓冲的日志，进程退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
