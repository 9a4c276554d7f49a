package query

import (
	"time"

	"crypto-radar/internal/ingest"
	"crypto-radar/internal/models"
	"crypto-radar/internal/store"
)

// WindowSize 分页趋势图的固定时间窗口
const WindowSize = 12 * time.Hour

// Series 四指标平行数组，严格按时间升序且下标对齐：
// 下标 i 的 times/rushUp/rushDown/diff/count 描述同一个快照
type Series struct {
	Times    []string `json:"times"`
	RushUp   []int    `json:"rush_up"`
	RushDown []int    `json:"rush_down"`
	Diff     []int    `json:"diff"`
	Count    []int    `json:"count"`
}

// Page 一个12小时窗口的序列。页边界按时间戳计算而非行数，
// 稀疏时段仍然覆盖完整的12小时。
type Page struct {
	Series
	Page       int    `json:"page"` // 0 = 最新窗口
	TotalPages int    `json:"total_pages"`
	HasPrev    bool   `json:"has_prev"` // 存在更早的窗口
	HasNext    bool   `json:"has_next"` // 存在更新的窗口
	RangeStart string `json:"range_start"`
	RangeEnd   string `json:"range_end"`
}

// Service 只读查询层，对存储的并发读取不需要额外协调
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// ChartSeries builds the day's four-indicator series. An empty date means
// "the date of the latest snapshot". Returns store.ErrNotFound when the
// store is empty.
func (s *Service) ChartSeries(date string) (Series, error) {
	if date == "" {
		_, latest, err := s.store.TimeRange()
		if err != nil {
			return Series{}, err
		}
		date = latest[:10]
	}
	snaps, err := s.store.ListByDate(date)
	if err != nil {
		return Series{}, err
	}
	return buildSeries(snaps, "15:04"), nil
}

// ChartPage returns the page-th 12-hour window counting back from the
// latest snapshot (page 0 = most recent).
func (s *Service) ChartPage(page int) (Page, error) {
	if page < 0 {
		page = 0
	}
	earliestStr, latestStr, err := s.store.TimeRange()
	if err != nil {
		return Page{}, err
	}
	earliest, err := time.Parse(ingest.TimeLayout, earliestStr)
	if err != nil {
		return Page{}, err
	}
	latest, err := time.Parse(ingest.TimeLayout, latestStr)
	if err != nil {
		return Page{}, err
	}

	totalPages := int(latest.Sub(earliest)/WindowSize) + 1
	if page >= totalPages {
		page = totalPages - 1
	}

	end := latest.Add(-time.Duration(page) * WindowSize)
	start := end.Add(-WindowSize)

	snaps, err := s.store.ListBetween(
		start.Format(ingest.TimeLayout),
		end.Format(ingest.TimeLayout),
	)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Series:     buildSeries(snaps, "01-02 15:04"),
		Page:       page,
		TotalPages: totalPages,
		HasPrev:    page+1 < totalPages,
		HasNext:    page > 0,
		RangeStart: start.Format(ingest.TimeLayout),
		RangeEnd:   end.Format(ingest.TimeLayout),
	}, nil
}

func buildSeries(snaps []models.Snapshot, labelLayout string) Series {
	series := Series{
		Times:    make([]string, 0, len(snaps)),
		RushUp:   make([]int, 0, len(snaps)),
		RushDown: make([]int, 0, len(snaps)),
		Diff:     make([]int, 0, len(snaps)),
		Count:    make([]int, 0, len(snaps)),
	}
	for _, snap := range snaps {
		label := snap.SnapshotTime
		if t, err := time.Parse(ingest.TimeLayout, snap.SnapshotTime); err == nil {
			label = t.Format(labelLayout)
		}
		series.Times = append(series.Times, label)
		series.RushUp = append(series.RushUp, snap.RushUp)
		series.RushDown = append(series.RushDown, snap.RushDown)
		series.Diff = append(series.Diff, snap.Diff)
		series.Count = append(series.Count, snap.CountTimes)
	}
	return series
}
