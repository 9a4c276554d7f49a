package export

import (
	"bytes"
	"fmt"

	"crypto-radar/internal/store"

	"github.com/xuri/excelize/v2"
)

// DailyWorkbook renders one day's snapshots (and the latest snapshot's
// asset rows) into an xlsx workbook for offline review.
func DailyWorkbook(st *store.Store, date string) (*bytes.Buffer, error) {
	snaps, err := st.ListByDate(date)
	if err != nil {
		return nil, fmt.Errorf("查询快照失败: %w", err)
	}
	if len(snaps) == 0 {
		return nil, store.ErrNotFound
	}

	f := excelize.NewFile()
	defer f.Close()

	const snapSheet = "快照"
	f.SetSheetName("Sheet1", snapSheet)

	snapHeader := []interface{}{
		"快照时间", "急涨", "急跌", "差值", "计次", "比值", "状态",
		"比价最低", "比价创新高", "24h涨幅≥10%", "24h跌幅≤-10%", "计次得分", "来源文件",
	}
	if err := f.SetSheetRow(snapSheet, "A1", &snapHeader); err != nil {
		return nil, err
	}
	for i, s := range snaps {
		row := []interface{}{
			s.SnapshotTime, s.RushUp, s.RushDown, s.Diff, s.CountTimes,
			s.Ratio, s.Status, s.PriceLowest, s.PriceNewHigh,
			s.Rise24hCount, s.Fall24hCount, s.CountScoreDisplay, s.SourceFilename,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(snapSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	// 当天最后一个快照的币种明细
	last := snaps[len(snaps)-1]
	_, assets, err := st.GetByTimestamp(last.SnapshotTime)
	if err != nil && err != store.ErrNotFound {
		return nil, err
	}
	const assetSheet = "币种"
	if _, err := f.NewSheet(assetSheet); err != nil {
		return nil, err
	}
	assetHeader := []interface{}{
		"序号", "币种", "涨速", "急涨", "急跌", "更新时间", "历史最高", "创高时间",
		"距高跌幅", "24h涨跌", "排名", "现价", "最高占比", "最低占比", "优先级",
	}
	if err := f.SetSheetRow(assetSheet, "A1", &assetHeader); err != nil {
		return nil, err
	}
	for i, a := range assets {
		row := []interface{}{
			a.DisplayOrder, a.Symbol, a.ChangeSpeed, a.RushUpSignal, a.RushDownSignal,
			a.LastUpdateTime, a.HistoricalHigh, a.HistoricalHighTime, a.DropFromHigh,
			a.Change24h, a.MarketRank, a.CurrentPrice, a.HighRatio, a.LowRatio,
			a.PriorityLevel,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(assetSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
