package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Google Drive 数据源配置
	DriveFolderID string

	// 信号统计API地址（独立的 signal 流）
	SignalAPIBase string

	// 采集间隔
	HomeInterval   time.Duration
	SignalInterval time.Duration
}

func Load() *Config {
	// 默认使用本地SQLite文件，生产环境通过 DATABASE_URL 切到 MySQL
	defaultDSN := "crypto_radar.db"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DriveFolderID: getEnv("DRIVE_FOLDER_ID", "1j8YV6KysUCmgcmASFOxztWWIE1Vq-kYV"),
		SignalAPIBase: getEnv("SIGNAL_API_BASE", ""),

		HomeInterval:   getDuration("HOME_INTERVAL_SEC", 600),
		SignalInterval: getDuration("SIGNAL_INTERVAL_SEC", 180),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultSec int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if sec, err := strconv.Atoi(value); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return time.Duration(defaultSec) * time.Second
}
