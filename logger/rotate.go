package logger

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// WithRotatingFile 将日志写入按大小滚动的文件
// maxSize 单位为 MB，maxAge 单位为天，0 表示不限制
func WithRotatingFile(path string, maxSize, maxBackups, maxAge int) Option {
	return func(cfg *LogConfig) {
		if maxSize <= 0 {
			maxSize = 100
		}
		if maxBackups < 0 {
			maxBackups = 0
		}
		if maxAge < 0 {
			maxAge = 0
		}
		cfg.Output = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
		}
	}
}
