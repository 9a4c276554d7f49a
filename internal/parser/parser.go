package parser

import (
	"errors"
	"log"
	"strconv"
	"strings"
)

// 超级列表框 section markers in the source txt files
const (
	assetSectionStart = "[超级列表框_首页开始]"
	assetSectionEnd   = "[超级列表框_首页结束]"

	summaryLabelPrefix = "透明标签_"

	// index|symbol|changeSpeed|rushUp|rushDown|updateTime|high|highTime|
	// drop|change24h|plus4|minus3|rank|price|highRatio[|lowRatio[|anomaly]]
	minAssetFields = 15
)

// ErrUnusablePayload is returned when a payload carries neither summary
// fields nor an asset section — nothing worth storing.
var ErrUnusablePayload = errors.New("parser: payload has no usable fields")

// SummaryFields 快照级指标，来自透明标签行
type SummaryFields struct {
	RushUp       int
	RushDown     int
	Diff         float64
	HasDiff      bool
	CountTimes   int
	Ratio        float64
	Status       string
	GreenCount   int
	GreenPercent float64
	PriceLowest  int
	PriceNewHigh int

	// 从币种行统计得出
	Rise24hCount int
	Fall24hCount int

	// 成功解析出的汇总字段个数
	FieldCount int
}

// AssetFields 单个币种行，字段顺序与来源的管道分隔格式一致
type AssetFields struct {
	DisplayOrder       int
	Symbol             string
	ChangeSpeed        float64
	RushUpSignal       int
	RushDownSignal     int
	LastUpdateTime     string
	HistoricalHigh     float64
	HistoricalHighTime string
	DropFromHigh       float64
	Change24h          float64
	Plus4Count         int
	Minus3Count        int
	MarketRank         int
	CurrentPrice       float64
	HighRatio          string
	LowRatio           string
	Anomaly            string
}

// Parse turns a raw snapshot payload into summary fields plus the ordered
// asset list. Summary lines are order-independent (last duplicate wins);
// a malformed asset row is dropped and logged, never fatal.
func Parse(rawText string) (SummaryFields, []AssetFields, error) {
	var (
		summary    SummaryFields
		assets     []AssetFields
		inSection  bool
		sawSection bool
	)

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, assetSectionStart):
			inSection = true
			sawSection = true
			continue
		case strings.HasPrefix(line, assetSectionEnd):
			inSection = false
			continue
		}

		if inSection {
			if !strings.Contains(line, "|") {
				continue
			}
			row, ok := parseAssetRow(line)
			if !ok {
				log.Printf("[解析] 跳过无效币种行: %.80s", line)
				continue
			}
			row.DisplayOrder = len(assets) + 1 // 位置优先于行首序号
			assets = append(assets, row)

			if row.Change24h >= 10.0 {
				summary.Rise24hCount++
			} else if row.Change24h <= -10.0 {
				summary.Fall24hCount++
			}
			continue
		}

		if strings.Contains(line, summaryLabelPrefix) {
			parseSummaryLine(line, &summary)
		} else if v, ok := trailingInt(line, "比价最低"); ok {
			summary.PriceLowest = v
			summary.FieldCount++
		} else if v, ok := trailingInt(line, "比价创新高"); ok {
			summary.PriceNewHigh = v
			summary.FieldCount++
		}
	}

	if !sawSection && summary.FieldCount == 0 {
		return SummaryFields{}, nil, ErrUnusablePayload
	}
	if summary.FieldCount == 0 && len(assets) == 0 {
		return SummaryFields{}, nil, ErrUnusablePayload
	}
	return summary, assets, nil
}

// parseSummaryLine handles 透明标签_key=value lines. The semantic value
// often sits behind a 中文 colon inside the value part (急涨：3).
func parseSummaryLine(line string, summary *SummaryFields) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return
	}
	key := line[:idx]
	value := strings.TrimSpace(line[idx+1:])

	switch {
	case strings.Contains(key, "急涨总和"):
		if n, ok := intAfterColon(value); ok {
			summary.RushUp = n
			summary.FieldCount++
		}
	case strings.Contains(key, "急跌总和"):
		if n, ok := intAfterColon(value); ok {
			summary.RushDown = n
			summary.FieldCount++
		}
	case strings.Contains(key, "五种状态"):
		if s, ok := textAfterColon(value); ok {
			summary.Status = s
			summary.FieldCount++
		}
	case strings.Contains(key, "急涨急跌比值"):
		if f, ok := floatAfterColon(value); ok {
			summary.Ratio = f
			summary.FieldCount++
		}
	case strings.Contains(key, "差值结果"):
		if f, ok := floatAfterColon(value); ok {
			summary.Diff = f
			summary.HasDiff = true
			summary.FieldCount++
		}
	case strings.Contains(key, "绿色数量"):
		if n, err := strconv.Atoi(value); err == nil {
			summary.GreenCount = n
			summary.FieldCount++
		}
	case strings.Contains(key, "百分比"):
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64); err == nil {
			summary.GreenPercent = f
			summary.FieldCount++
		}
	case strings.Contains(key, "计次") && !strings.Contains(key, "得分"):
		if n, err := strconv.Atoi(value); err == nil {
			summary.CountTimes = n
			summary.FieldCount++
		}
	}
}

func parseAssetRow(line string) (AssetFields, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < minAssetFields {
		return AssetFields{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	symbol := parts[1]
	if symbol == "" {
		return AssetFields{}, false
	}

	row := AssetFields{
		Symbol:             symbol,
		LastUpdateTime:     parts[5],
		HistoricalHighTime: parts[7],
		HighRatio:          parts[14],
	}

	var err error
	if row.ChangeSpeed, err = floatField(parts[2]); err != nil {
		return AssetFields{}, false
	}
	if row.RushUpSignal, err = intField(parts[3]); err != nil {
		return AssetFields{}, false
	}
	if row.RushDownSignal, err = intField(parts[4]); err != nil {
		return AssetFields{}, false
	}
	if row.HistoricalHigh, err = floatField(parts[6]); err != nil {
		return AssetFields{}, false
	}
	if row.DropFromHigh, err = floatField(parts[8]); err != nil {
		return AssetFields{}, false
	}
	if row.Change24h, err = floatField(parts[9]); err != nil {
		return AssetFields{}, false
	}
	if row.Plus4Count, err = intField(parts[10]); err != nil {
		return AssetFields{}, false
	}
	if row.Minus3Count, err = intField(parts[11]); err != nil {
		return AssetFields{}, false
	}
	if row.MarketRank, err = intField(parts[12]); err != nil {
		return AssetFields{}, false
	}
	if row.CurrentPrice, err = floatField(parts[13]); err != nil {
		return AssetFields{}, false
	}

	// optional trailing fields
	if len(parts) > 15 {
		row.LowRatio = parts[15]
	}
	if len(parts) > 16 {
		row.Anomaly = parts[16]
	}
	return row, true
}

// floatField converts a numeric field, with empty string defaulting to 0.
func floatField(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func intField(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// intAfterColon extracts the number behind a 中文/ASCII colon ("急涨：3").
func intAfterColon(value string) (int, bool) {
	s, ok := textAfterColon(value)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func floatAfterColon(value string) (float64, bool) {
	s, ok := textAfterColon(value)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func textAfterColon(value string) (string, bool) {
	for _, sep := range []string{"：", ":"} {
		if idx := strings.Index(value, sep); idx >= 0 {
			s := strings.TrimSpace(value[idx+len(sep):])
			return s, s != ""
		}
	}
	return "", false
}

// trailingInt matches lines like "比价最低 12" outside the label format.
func trailingInt(line, label string) (int, bool) {
	if !strings.Contains(line, label) {
		return 0, false
	}
	rest := strings.TrimSpace(line[strings.Index(line, label)+len(label):])
	rest = strings.TrimLeft(rest, "：: ")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	return n, err == nil
}
