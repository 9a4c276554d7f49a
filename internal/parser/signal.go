package parser

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

var ErrUnusableSignalPayload = errors.New("parser: signal payload has no records")

// SignalFields 信号流解析结果
type SignalFields struct {
	LongCount    int
	ShortCount   int
	TotalCount   int
	LongRatio    float64
	ShortRatio   float64
	TodayNewHigh int
	TodayNewLow  int
}

type signalPayload struct {
	Data []struct {
		SignalType string `json:"signal_type"`
	} `json:"data"`
	TodayNewHigh int `json:"today_new_high"`
	TodayNewLow  int `json:"today_new_low"`
}

// ParseSignalStats counts long/short entries in a filtered-signals JSON
// payload. An unmarshalable body or an empty record list is unusable.
func ParseSignalStats(rawText string) (SignalFields, error) {
	var payload signalPayload
	if err := json.Unmarshal([]byte(rawText), &payload); err != nil {
		return SignalFields{}, err
	}
	if len(payload.Data) == 0 {
		return SignalFields{}, ErrUnusableSignalPayload
	}

	var fields SignalFields
	for _, rec := range payload.Data {
		t := strings.ToLower(rec.SignalType)
		switch {
		case strings.Contains(t, "long") || strings.Contains(t, "做多"):
			fields.LongCount++
		case strings.Contains(t, "short") || strings.Contains(t, "做空"):
			fields.ShortCount++
		}
	}
	fields.TotalCount = fields.LongCount + fields.ShortCount
	if fields.TotalCount > 0 {
		fields.LongRatio = round2(float64(fields.LongCount) / float64(fields.TotalCount) * 100)
		fields.ShortRatio = round2(float64(fields.ShortCount) / float64(fields.TotalCount) * 100)
	}
	fields.TodayNewHigh = payload.TodayNewHigh
	fields.TodayNewLow = payload.TodayNewLow
	return fields, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
