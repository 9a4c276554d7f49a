package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-radar/internal/config"
	"crypto-radar/internal/database"
	"crypto-radar/internal/fetcher"
	"crypto-radar/internal/ingest"
	"crypto-radar/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	homeInterval   = flag.Duration("home-interval", 0, "首页流采集间隔（0则读配置）")
	signalInterval = flag.Duration("signal-interval", 0, "信号流采集间隔（0则读配置）")
	once           = flag.Bool("once", false, "只采集一次后退出")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	if *homeInterval == 0 {
		*homeInterval = cfg.HomeInterval
	}
	if *signalInterval == 0 {
		*signalInterval = cfg.SignalInterval
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("数据库连接失败: %v", err)
	}
	st := store.New(db)

	// 水位线从库里已有的最新行恢复，重启后不会重复入库旧投递
	marks := ingest.NewWatermarks()
	if snap, _, err := st.GetLatest(); err == nil {
		marks.Seed(ingest.StreamHome, snap.SnapshotTime)
	} else if err != store.ErrNotFound {
		logger.Fatalf("恢复home水位线失败: %v", err)
	}
	if ts, err := st.LatestSignalTime(); err != nil {
		logger.Fatalf("恢复signal水位线失败: %v", err)
	} else if ts != "" {
		marks.Seed(ingest.StreamSignal, ts)
	}

	controller := ingest.NewController(st, marks, logger)
	homeFetcher := fetcher.NewGDriveFetcher(cfg.DriveFolderID, logger)

	var signalFetcher *fetcher.SignalFetcher
	if cfg.SignalAPIBase != "" {
		signalFetcher = fetcher.NewSignalFetcher(cfg.SignalAPIBase)
	}

	logger.Infof("✅ 采集器启动 (PID: %d, home间隔: %v, signal间隔: %v)",
		os.Getpid(), *homeInterval, *signalInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pollHome := func() {
		fr, err := homeFetcher.FetchLatest()
		if err != nil {
			// 抓取失败视为瞬时故障，本轮no-op，水位线不动
			logger.Warnf("home抓取失败，跳过本轮: %v", err)
			return
		}
		controller.IngestOnce(ctx, fr)
	}
	pollSignal := func() {
		if signalFetcher == nil {
			return
		}
		fr, err := signalFetcher.FetchLatest()
		if err != nil {
			logger.Warnf("signal抓取失败，跳过本轮: %v", err)
			return
		}
		controller.IngestOnce(ctx, fr)
	}

	pollHome()
	pollSignal()
	if *once {
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	homeTicker := time.NewTicker(*homeInterval)
	defer homeTicker.Stop()
	signalTicker := time.NewTicker(*signalInterval)
	defer signalTicker.Stop()

	for {
		select {
		case <-sigChan:
			logger.Info("🛑 收到关闭信号，采集器退出")
			return
		case <-homeTicker.C:
			pollHome()
		case <-signalTicker.C:
			pollSignal()
		}
	}
}
