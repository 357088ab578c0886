// Package logger 基于 zap 构建应用日志器。
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/config"
)

// New 根据环境创建日志器
// 生产环境使用 zap 生产配置（采样、ISO8601 时间），其余环境使用开发配置
func New(env, level, encoding, name, version string) (*zap.Logger, error) {
	var zcfg zap.Config
	if config.ParseDeployMode(env) == config.ModeProduction {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	if encoding != "" {
		if encoding != "json" && encoding != "console" {
			return nil, fmt.Errorf("unsupported log encoding: %s", encoding)
		}
		zcfg.Encoding = encoding
	}

	lg, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return lg.With(zap.String("service", name), zap.String("version", version)), nil
}
