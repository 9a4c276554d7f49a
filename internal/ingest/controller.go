package ingest

import (
	"context"
	"sync"
	"time"

	"crypto-radar/internal/classify"
	"crypto-radar/internal/models"
	"crypto-radar/internal/parser"

	"github.com/sirupsen/logrus"
)

// TimeLayout is the source timestamp format asserted by the upstream files.
const TimeLayout = "2006-01-02 15:04:05"

// Stream 独立的逻辑数据流，各自维护水位线，互不协调
type Stream string

const (
	// StreamHome 首页汇总+币种数据流
	StreamHome Stream = "home"
	// StreamSignal 信号统计数据流
	StreamSignal Stream = "signal"
)

// FetchResult is what the external fetcher hands to the controller. The
// controller itself performs no network I/O.
type FetchResult struct {
	Stream          Stream
	RawText         string
	SourceTimestamp string // TimeLayout, the snapshot's external identity
	SourceID        string // provenance: filename or URL, non-authoritative
}

// Outcome of one ingestion attempt.
type Outcome int

const (
	OutcomeCommitted Outcome = iota
	OutcomeStale
	OutcomeParseFailed
	OutcomePersistFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeStale:
		return "stale"
	case OutcomeParseFailed:
		return "parse_failed"
	case OutcomePersistFailed:
		return "persist_failed"
	}
	return "unknown"
}

// Result reports what a single IngestOnce call did.
type Result struct {
	Outcome      Outcome
	SnapshotTime string
	AssetCount   int
	Err          error
}

// SnapshotStore is the persistence surface the controller drives.
type SnapshotStore interface {
	Upsert(snap *models.Snapshot, assets []models.AssetRecord) error
	UpsertSignalStats(stats *models.SignalStats) error
}

// Watermarks 每个流最后一次成功入库的来源时间戳。
// 显式值状态，可在测试/多实例间独立存在，不依赖全局变量。
type Watermarks struct {
	mu   sync.Mutex
	last map[Stream]string
}

func NewWatermarks() *Watermarks {
	return &Watermarks{last: make(map[Stream]string)}
}

// Seed sets a stream's watermark, typically from the store's latest row at
// startup so a restart does not re-ingest old deliveries.
func (w *Watermarks) Seed(stream Stream, ts string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ts > w.last[stream] {
		w.last[stream] = ts
	}
}

// Last returns the stream's watermark ("" if nothing ingested yet).
func (w *Watermarks) Last(stream Stream) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last[stream]
}

func (w *Watermarks) advance(stream Stream, ts string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ts > w.last[stream] {
		w.last[stream] = ts
	}
}

// Controller orchestrates parse → classify → persist for each stream and
// guards the watermark so duplicate or stale deliveries are no-ops.
type Controller struct {
	store SnapshotStore
	marks *Watermarks
	log   *logrus.Logger

	// per-stream single-flight: the read-decide-advance sequence is not
	// safe under concurrent execution for the same stream
	flight sync.Map // Stream -> *sync.Mutex
}

func NewController(store SnapshotStore, marks *Watermarks, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if marks == nil {
		marks = NewWatermarks()
	}
	return &Controller{store: store, marks: marks, log: log}
}

// Watermarks exposes the controller's watermark state (read-mostly, for
// status endpoints and tests).
func (c *Controller) Watermarks() *Watermarks {
	return c.marks
}

// IngestOnce decides whether the fetched payload is new for its stream and,
// if so, runs parse → classify → persist as one unit. The watermark only
// advances after a successful store write, so any failure is retried by the
// next poll. Safe to call from any scheduler on any cadence.
func (c *Controller) IngestOnce(ctx context.Context, fr FetchResult) Result {
	if err := ctx.Err(); err != nil {
		return Result{Outcome: OutcomePersistFailed, Err: err}
	}

	lock := c.streamLock(fr.Stream)
	lock.Lock()
	defer lock.Unlock()

	ts, err := time.Parse(TimeLayout, fr.SourceTimestamp)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
		}).Warn("来源时间戳格式无效，丢弃本次投递")
		return Result{Outcome: OutcomeParseFailed, Err: err}
	}

	if fr.SourceTimestamp <= c.marks.Last(fr.Stream) {
		// duplicate/stale delivery: explicitly not a failure
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
			"watermark": c.marks.Last(fr.Stream),
		}).Debug("时间戳未超过水位线，跳过")
		return Result{Outcome: OutcomeStale, SnapshotTime: fr.SourceTimestamp}
	}

	var result Result
	switch fr.Stream {
	case StreamSignal:
		result = c.ingestSignal(fr)
	default:
		result = c.ingestHome(fr, ts)
	}

	if result.Outcome == OutcomeCommitted {
		c.marks.advance(fr.Stream, fr.SourceTimestamp)
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
			"assets":    result.AssetCount,
		}).Info("快照入库完成")
	}
	return result
}

func (c *Controller) ingestHome(fr FetchResult, ts time.Time) Result {
	summary, assets, err := parser.Parse(fr.RawText)
	if err != nil {
		// raw excerpt kept for diagnosis; watermark untouched
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
			"excerpt":   excerpt(fr.RawText),
		}).Warnf("解析失败: %v", err)
		return Result{Outcome: OutcomeParseFailed, SnapshotTime: fr.SourceTimestamp, Err: err}
	}

	snap := buildSnapshot(summary, fr, ts)
	records := make([]models.AssetRecord, 0, len(assets))
	for _, a := range assets {
		records = append(records, buildAssetRecord(a, fr.SourceTimestamp))
	}

	if err := c.store.Upsert(snap, records); err != nil {
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
		}).Errorf("持久化失败，留待下次轮询重试: %v", err)
		return Result{Outcome: OutcomePersistFailed, SnapshotTime: fr.SourceTimestamp, Err: err}
	}
	return Result{
		Outcome:      OutcomeCommitted,
		SnapshotTime: fr.SourceTimestamp,
		AssetCount:   len(records),
	}
}

func (c *Controller) ingestSignal(fr FetchResult) Result {
	fields, err := parser.ParseSignalStats(fr.RawText)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
			"excerpt":   excerpt(fr.RawText),
		}).Warnf("信号解析失败: %v", err)
		return Result{Outcome: OutcomeParseFailed, SnapshotTime: fr.SourceTimestamp, Err: err}
	}

	stats := &models.SignalStats{
		RecordTime:   fr.SourceTimestamp,
		RecordDate:   fr.SourceTimestamp[:10],
		LongCount:    fields.LongCount,
		ShortCount:   fields.ShortCount,
		TotalCount:   fields.TotalCount,
		LongRatio:    fields.LongRatio,
		ShortRatio:   fields.ShortRatio,
		TodayNewHigh: fields.TodayNewHigh,
		TodayNewLow:  fields.TodayNewLow,
		SourceURL:    fr.SourceID,
	}
	if err := c.store.UpsertSignalStats(stats); err != nil {
		c.log.WithFields(logrus.Fields{
			"stream":    fr.Stream,
			"source_ts": fr.SourceTimestamp,
		}).Errorf("信号持久化失败: %v", err)
		return Result{Outcome: OutcomePersistFailed, SnapshotTime: fr.SourceTimestamp, Err: err}
	}
	return Result{Outcome: OutcomeCommitted, SnapshotTime: fr.SourceTimestamp}
}

// buildSnapshot freezes the count score using the hour of the source
// timestamp, not the ingestion wall clock, so classification is
// reproducible from the stored row alone.
func buildSnapshot(summary parser.SummaryFields, fr FetchResult, ts time.Time) *models.Snapshot {
	score := classify.ClassifyCountScore(summary.CountTimes, ts.Hour())

	diff := summary.RushUp - summary.RushDown
	if summary.HasDiff {
		diff = int(summary.Diff)
	}

	return &models.Snapshot{
		SnapshotTime:      fr.SourceTimestamp,
		SnapshotDate:      fr.SourceTimestamp[:10],
		RushUp:            summary.RushUp,
		RushDown:          summary.RushDown,
		Diff:              diff,
		CountTimes:        summary.CountTimes,
		Ratio:             summary.Ratio,
		Status:            summary.Status,
		GreenCount:        summary.GreenCount,
		GreenPercent:      summary.GreenPercent,
		PriceLowest:       summary.PriceLowest,
		PriceNewHigh:      summary.PriceNewHigh,
		Rise24hCount:      summary.Rise24hCount,
		Fall24hCount:      summary.Fall24hCount,
		CountScoreStars:   score.Stars,
		CountScoreKind:    score.Kind,
		CountScoreDisplay: score.Display,
		SourceFilename:    fr.SourceID,
	}
}

func buildAssetRecord(a parser.AssetFields, snapshotTime string) models.AssetRecord {
	return models.AssetRecord{
		SnapshotTime:       snapshotTime,
		Symbol:             a.Symbol,
		DisplayOrder:       a.DisplayOrder,
		ChangeSpeed:        a.ChangeSpeed,
		RushUpSignal:       a.RushUpSignal,
		RushDownSignal:     a.RushDownSignal,
		LastUpdateTime:     a.LastUpdateTime,
		HistoricalHigh:     a.HistoricalHigh,
		HistoricalHighTime: a.HistoricalHighTime,
		DropFromHigh:       a.DropFromHigh,
		Change24h:          a.Change24h,
		Plus4Count:         a.Plus4Count,
		Minus3Count:        a.Minus3Count,
		MarketRank:         a.MarketRank,
		CurrentPrice:       a.CurrentPrice,
		HighRatio:          a.HighRatio,
		LowRatio:           a.LowRatio,
		Anomaly:            a.Anomaly,
		PriorityLevel:      classify.ClassifyPriority(a.HighRatio, a.LowRatio),
	}
}

func (c *Controller) streamLock(stream Stream) *sync.Mutex {
	v, _ := c.flight.LoadOrStore(stream, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func excerpt(raw string) string {
	const n = 200
	if len(raw) <= n {
		return raw
	}
	return raw[:n]
}
