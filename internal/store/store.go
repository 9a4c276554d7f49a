package store

import (
	"errors"
	"fmt"

	"crypto-radar/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by point lookups when no snapshot matches.
var ErrNotFound = errors.New("store: not found")

// Store 快照持久层，负责快照/币种行的原子写入和查询
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert writes a snapshot and its asset rows as one transaction, keyed by
// snapshot_time. Re-upserting the same timestamp replaces the prior asset
// rows entirely so a shorter list leaves no stale leftovers.
func (s *Store) Upsert(snap *models.Snapshot, assets []models.AssetRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Snapshot
		err := tx.Where("snapshot_time = ?", snap.SnapshotTime).First(&existing).Error
		switch {
		case err == nil:
			snap.ID = existing.ID
			snap.CreatedAt = existing.CreatedAt
			if err := tx.Save(snap).Error; err != nil {
				return fmt.Errorf("更新快照失败: %w", err)
			}
			if err := tx.Where("snapshot_id = ?", snap.ID).
				Delete(&models.AssetRecord{}).Error; err != nil {
				return fmt.Errorf("清理旧币种行失败: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(snap).Error; err != nil {
				return fmt.Errorf("创建快照失败: %w", err)
			}
		default:
			return fmt.Errorf("查询快照失败: %w", err)
		}

		if len(assets) == 0 {
			return nil
		}
		for i := range assets {
			assets[i].ID = 0
			assets[i].SnapshotID = snap.ID
			assets[i].SnapshotTime = snap.SnapshotTime
		}
		if err := tx.Create(&assets).Error; err != nil {
			return fmt.Errorf("写入币种行失败: %w", err)
		}
		return nil
	})
}

// GetByTimestamp returns the newest snapshot whose snapshot_time matches
// the given exact timestamp or prefix (e.g. "2025-12-06 14:3"), with its
// asset rows in display order.
func (s *Store) GetByTimestamp(timestampPrefix string) (*models.Snapshot, []models.AssetRecord, error) {
	var snap models.Snapshot
	err := s.db.Where("snapshot_time LIKE ?", timestampPrefix+"%").
		Order("snapshot_time DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	assets, err := s.assetsFor(snap.ID)
	if err != nil {
		return nil, nil, err
	}
	return &snap, assets, nil
}

// GetLatest returns the most recent snapshot, or ErrNotFound on an empty
// store.
func (s *Store) GetLatest() (*models.Snapshot, []models.AssetRecord, error) {
	var snap models.Snapshot
	err := s.db.Order("snapshot_time DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	assets, err := s.assetsFor(snap.ID)
	if err != nil {
		return nil, nil, err
	}
	return &snap, assets, nil
}

func (s *Store) assetsFor(snapshotID uint) ([]models.AssetRecord, error) {
	var assets []models.AssetRecord
	err := s.db.Where("snapshot_id = ?", snapshotID).
		Order("display_order ASC").
		Find(&assets).Error
	return assets, err
}

// ListByDate returns a day's snapshots ascending by time, summary fields
// only (no asset expansion) — the chart series source.
func (s *Store) ListByDate(date string) ([]models.Snapshot, error) {
	var snaps []models.Snapshot
	err := s.db.Where("snapshot_date = ?", date).
		Order("snapshot_time ASC").
		Find(&snaps).Error
	return snaps, err
}

// ListBetween returns snapshots with from < snapshot_time <= to, ascending.
// Used by the 12-hour window pagination.
func (s *Store) ListBetween(from, to string) ([]models.Snapshot, error) {
	var snaps []models.Snapshot
	err := s.db.Where("snapshot_time > ? AND snapshot_time <= ?", from, to).
		Order("snapshot_time ASC").
		Find(&snaps).Error
	return snaps, err
}

// TimeRange returns the earliest and latest snapshot times.
func (s *Store) TimeRange() (earliest, latest string, err error) {
	// MIN/MAX come back NULL on an empty table
	var b struct {
		Earliest *string
		Latest   *string
	}
	err = s.db.Model(&models.Snapshot{}).
		Select("MIN(snapshot_time) AS earliest, MAX(snapshot_time) AS latest").
		Scan(&b).Error
	if err != nil {
		return "", "", err
	}
	if b.Latest == nil || *b.Latest == "" {
		return "", "", ErrNotFound
	}
	return *b.Earliest, *b.Latest, nil
}

// GetAssetHistory returns one row per snapshot that contained the symbol,
// ascending by snapshot time. from/to are optional ("" means unbounded).
func (s *Store) GetAssetHistory(symbol, from, to string) ([]models.AssetRecord, error) {
	q := s.db.Where("symbol = ?", symbol)
	if from != "" {
		q = q.Where("snapshot_time >= ?", from)
	}
	if to != "" {
		q = q.Where("snapshot_time <= ?", to)
	}
	var records []models.AssetRecord
	err := q.Order("snapshot_time ASC").Find(&records).Error
	return records, err
}

// UpsertSignalStats writes one signal-stream record keyed by record_time.
func (s *Store) UpsertSignalStats(stats *models.SignalStats) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_time"}},
		UpdateAll: true,
	}).Create(stats).Error
}

// ListSignalStatsByDate returns a day's signal records ascending by time.
func (s *Store) ListSignalStatsByDate(date string) ([]models.SignalStats, error) {
	var stats []models.SignalStats
	err := s.db.Where("record_date = ?", date).
		Order("record_time ASC").
		Find(&stats).Error
	return stats, err
}

// LatestSignalTime returns the newest signal record_time, "" on empty.
func (s *Store) LatestSignalTime() (string, error) {
	var stats models.SignalStats
	err := s.db.Order("record_time DESC").First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return stats.RecordTime, nil
}

// DBStats 数据库概览
type DBStats struct {
	TotalSnapshots int64  `json:"total_snapshots"`
	TotalAssets    int64  `json:"total_assets"`
	TotalSymbols   int64  `json:"total_symbols"`
	EarliestTime   string `json:"earliest_time"`
	LatestTime     string `json:"latest_time"`
}

// Stats returns overall store counters and time bounds.
func (s *Store) Stats() (DBStats, error) {
	var st DBStats
	if err := s.db.Model(&models.Snapshot{}).Count(&st.TotalSnapshots).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&models.AssetRecord{}).Count(&st.TotalAssets).Error; err != nil {
		return st, err
	}
	if err := s.db.Model(&models.AssetRecord{}).
		Distinct("symbol").Count(&st.TotalSymbols).Error; err != nil {
		return st, err
	}
	if st.TotalSnapshots > 0 {
		earliest, latest, err := s.TimeRange()
		if err != nil {
			return st, err
		}
		st.EarliestTime, st.LatestTime = earliest, latest
	}
	return st, nil
}
