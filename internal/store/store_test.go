package store

import (
	"path/filepath"
	"testing"

	"crypto-radar/internal/database"
	"crypto-radar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return New(db)
}

func sampleSnapshot(ts string) *models.Snapshot {
	return &models.Snapshot{
		SnapshotTime:      ts,
		SnapshotDate:      ts[:10],
		RushUp:            12,
		RushDown:          5,
		Diff:              7,
		CountTimes:        3,
		Ratio:             2.4,
		Status:            "震荡",
		CountScoreStars:   1,
		CountScoreKind:    "实心",
		CountScoreDisplay: "★",
		SourceFilename:    "2025-12-06_1430.txt",
	}
}

func sampleAssets(ts string) []models.AssetRecord {
	return []models.AssetRecord{
		{
			SnapshotTime: ts, Symbol: "BTC", DisplayOrder: 1,
			ChangeSpeed: 0.35, RushUpSignal: 2, CurrentPrice: 99500.25,
			HighRatio: "95%", LowRatio: "125%", PriorityLevel: "等级1",
			LastUpdateTime: "12-06 14:30", HistoricalHigh: 108000.5,
		},
		{
			SnapshotTime: ts, Symbol: "ETH", DisplayOrder: 2,
			ChangeSpeed: 0.21, CurrentPrice: 3600.5,
			HighRatio: "85%", LowRatio: "115%", PriorityLevel: "等级5",
		},
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ts := "2025-12-06 14:30:00"

	require.NoError(t, st.Upsert(sampleSnapshot(ts), sampleAssets(ts)))

	snap, assets, err := st.GetByTimestamp(ts)
	require.NoError(t, err)

	want := sampleSnapshot(ts)
	assert.Equal(t, want.SnapshotTime, snap.SnapshotTime)
	assert.Equal(t, want.RushUp, snap.RushUp)
	assert.Equal(t, want.RushDown, snap.RushDown)
	assert.Equal(t, want.Diff, snap.Diff)
	assert.Equal(t, want.Ratio, snap.Ratio)
	assert.Equal(t, want.Status, snap.Status)
	assert.Equal(t, want.CountScoreDisplay, snap.CountScoreDisplay)
	assert.Equal(t, want.SourceFilename, snap.SourceFilename)

	require.Len(t, assets, 2)
	assert.Equal(t, "BTC", assets[0].Symbol)
	assert.Equal(t, 1, assets[0].DisplayOrder)
	assert.Equal(t, "95%", assets[0].HighRatio)
	assert.Equal(t, 99500.25, assets[0].CurrentPrice)
	assert.Equal(t, "ETH", assets[1].Symbol)
	assert.Equal(t, 2, assets[1].DisplayOrder)
}

func TestUpsertReplacesAssetRows(t *testing.T) {
	st := newTestStore(t)
	ts := "2025-12-06 14:30:00"

	require.NoError(t, st.Upsert(sampleSnapshot(ts), sampleAssets(ts)))

	// 重新入库同一时间戳，列表更短：不能留下旧的残余行
	snap := sampleSnapshot(ts)
	snap.RushUp = 20
	shorter := sampleAssets(ts)[:1]
	require.NoError(t, st.Upsert(snap, shorter))

	got, assets, err := st.GetByTimestamp(ts)
	require.NoError(t, err)
	assert.Equal(t, 20, got.RushUp)
	require.Len(t, assets, 1)
	assert.Equal(t, "BTC", assets[0].Symbol)

	var count int64
	require.NoError(t, st.db.Model(&models.Snapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "re-upsert must not duplicate the snapshot")
}

func TestGetByTimestamp_PrefixMatch(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Upsert(sampleSnapshot("2025-12-06 14:30:00"), nil))
	require.NoError(t, st.Upsert(sampleSnapshot("2025-12-06 14:40:00"), nil))

	// 前缀命中时返回最新的那个
	snap, _, err := st.GetByTimestamp("2025-12-06 14")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-06 14:40:00", snap.SnapshotTime)

	_, _, err = st.GetByTimestamp("2025-12-07")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLatest_EmptyStore(t *testing.T) {
	st := newTestStore(t)
	_, _, err := st.GetLatest()
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = st.TimeRange()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByDate_Ordering(t *testing.T) {
	st := newTestStore(t)
	for _, ts := range []string{
		"2025-12-06 14:30:00",
		"2025-12-06 09:10:00",
		"2025-12-07 00:00:00",
		"2025-12-06 23:50:00",
	} {
		require.NoError(t, st.Upsert(sampleSnapshot(ts), nil))
	}

	snaps, err := st.ListByDate("2025-12-06")
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "2025-12-06 09:10:00", snaps[0].SnapshotTime)
	assert.Equal(t, "2025-12-06 14:30:00", snaps[1].SnapshotTime)
	assert.Equal(t, "2025-12-06 23:50:00", snaps[2].SnapshotTime)
}

func TestGetAssetHistory(t *testing.T) {
	st := newTestStore(t)
	times := []string{
		"2025-12-06 10:00:00",
		"2025-12-06 12:00:00",
		"2025-12-06 14:00:00",
	}
	for _, ts := range times {
		require.NoError(t, st.Upsert(sampleSnapshot(ts), sampleAssets(ts)))
	}

	history, err := st.GetAssetHistory("BTC", "", "")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, ts := range times {
		assert.Equal(t, ts, history[i].SnapshotTime)
	}

	bounded, err := st.GetAssetHistory("BTC", "2025-12-06 11:00:00", "2025-12-06 13:00:00")
	require.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, "2025-12-06 12:00:00", bounded[0].SnapshotTime)

	none, err := st.GetAssetHistory("DOGE", "", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSignalStats(t *testing.T) {
	st := newTestStore(t)

	latest, err := st.LatestSignalTime()
	require.NoError(t, err)
	assert.Empty(t, latest)

	stats := &models.SignalStats{
		RecordTime: "2025-12-06 14:30:00",
		RecordDate: "2025-12-06",
		LongCount:  8, ShortCount: 2, TotalCount: 10,
		LongRatio: 80, ShortRatio: 20,
	}
	require.NoError(t, st.UpsertSignalStats(stats))

	// 同一 record_time 再次写入是覆盖，不是追加
	updated := &models.SignalStats{
		RecordTime: "2025-12-06 14:30:00",
		RecordDate: "2025-12-06",
		LongCount:  9, ShortCount: 1, TotalCount: 10,
		LongRatio: 90, ShortRatio: 10,
	}
	require.NoError(t, st.UpsertSignalStats(updated))

	day, err := st.ListSignalStatsByDate("2025-12-06")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, 9, day[0].LongCount)

	latest, err = st.LatestSignalTime()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-06 14:30:00", latest)
}

func TestStats(t *testing.T) {
	st := newTestStore(t)

	empty, err := st.Stats()
	require.NoError(t, err)
	assert.Zero(t, empty.TotalSnapshots)

	require.NoError(t, st.Upsert(sampleSnapshot("2025-12-06 10:00:00"), sampleAssets("2025-12-06 10:00:00")))
	require.NoError(t, st.Upsert(sampleSnapshot("2025-12-06 12:00:00"), sampleAssets("2025-12-06 12:00:00")))

	stats, err := st.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSnapshots)
	assert.Equal(t, int64(4), stats.TotalAssets)
	assert.Equal(t, int64(2), stats.TotalSymbols)
	assert.Equal(t, "2025-12-06 10:00:00", stats.EarliestTime)
	assert.Equal(t, "2025-12-06 12:00:00", stats.LatestTime)
}
