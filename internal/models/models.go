package models

import "time"

// Snapshot 快照主表 - 每个来源时间戳一行，存储整体市场指标
// snapshot_time 是快照的外部身份（来源文件声明的生成时间）
type Snapshot struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SnapshotTime string `json:"snapshot_time" gorm:"uniqueIndex;size:19;not null"`
	SnapshotDate string `json:"snapshot_date" gorm:"index;size:10;not null"`

	RushUp     int     `json:"rush_up"`     // 急涨总和
	RushDown   int     `json:"rush_down"`   // 急跌总和
	Diff       int     `json:"diff"`        // 差值 = 急涨 - 急跌
	CountTimes int     `json:"count_times"` // 计次
	Ratio      float64 `json:"ratio"`       // 急涨急跌比值
	Status     string  `json:"status"`      // 五种状态

	GreenCount   int     `json:"green_count"`
	GreenPercent float64 `json:"green_percent"`
	PriceLowest  int     `json:"price_lowest"`   // 比价最低
	PriceNewHigh int     `json:"price_new_high"` // 比价创新高
	Rise24hCount int     `json:"rise_24h_count"` // 24h涨幅>=10%的币种数
	Fall24hCount int     `json:"fall_24h_count"` // 24h跌幅<=-10%的币种数

	// 计次得分在采集时刻冻结（依赖当时的小时窗口，查询时不重算）
	CountScoreStars   int    `json:"count_score_stars"`
	CountScoreKind    string `json:"count_score_kind"` // 实心 / 空心
	CountScoreDisplay string `json:"count_score_display"`

	SourceFilename string    `json:"source_filename"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Assets []AssetRecord `json:"assets,omitempty" gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

// AssetRecord 币种明细 - 每个快照下每个币种一行
// 身份是 (snapshot_time, symbol)，display_order 保留来源顺序
type AssetRecord struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	SnapshotID   uint   `json:"snapshot_id" gorm:"index;not null"`
	SnapshotTime string `json:"snapshot_time" gorm:"uniqueIndex:idx_asset_time_symbol;size:19;not null"`
	Symbol       string `json:"symbol" gorm:"uniqueIndex:idx_asset_time_symbol;index;size:32;not null"`
	DisplayOrder int    `json:"display_order" gorm:"not null"`

	ChangeSpeed        float64 `json:"change_speed"`
	RushUpSignal       int     `json:"rush_up_signal"`
	RushDownSignal     int     `json:"rush_down_signal"`
	LastUpdateTime     string  `json:"last_update_time"`
	HistoricalHigh     float64 `json:"historical_high"`
	HistoricalHighTime string  `json:"historical_high_time"`
	DropFromHigh       float64 `json:"drop_from_high"`
	Change24h          float64 `json:"change_24h"`
	Plus4Count         int     `json:"plus_4_count"`  // 今日+4%次数
	Minus3Count        int     `json:"minus_3_count"` // 今日-3%次数
	MarketRank         int     `json:"market_rank"`
	CurrentPrice       float64 `json:"current_price"`
	HighRatio          string  `json:"high_ratio"` // 最高占比，保留原始百分比文本
	LowRatio           string  `json:"low_ratio"`  // 最低占比
	Anomaly            string  `json:"anomaly"`

	PriorityLevel string    `json:"priority_level" gorm:"size:16;default:'-'"`
	CreatedAt     time.Time `json:"created_at"`
}

// SignalStats 信号统计 - 独立的 signal 流，每个采集时间一行
type SignalStats struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	RecordTime string `json:"record_time" gorm:"uniqueIndex;size:19;not null"`
	RecordDate string `json:"record_date" gorm:"index;size:10;not null"`

	LongCount  int     `json:"long_count"`
	ShortCount int     `json:"short_count"`
	TotalCount int     `json:"total_count"`
	LongRatio  float64 `json:"long_ratio"`
	ShortRatio float64 `json:"short_ratio"`

	TodayNewHigh int `json:"today_new_high"`
	TodayNewLow  int `json:"today_new_low"`

	SourceURL string    `json:"source_url"`
	CreatedAt time.Time `json:"created_at"`
}
