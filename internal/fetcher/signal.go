package fetcher

import (
	"fmt"
	"time"

	"crypto-radar/internal/ingest"

	"github.com/go-resty/resty/v2"
)

// SignalFetcher polls the filtered-signals API for the signal stream. The
// API has no embedded timestamp, so the poll minute becomes the source
// timestamp (the original feed delivered one record per collection minute).
type SignalFetcher struct {
	client *resty.Client
	base   string
}

func NewSignalFetcher(apiBase string) *SignalFetcher {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0")
	return &SignalFetcher{client: client, base: apiBase}
}

func (f *SignalFetcher) FetchLatest() (ingest.FetchResult, error) {
	url := f.base + "/api/filtered-signals/stats"
	resp, err := f.client.R().
		SetQueryParams(map[string]string{
			"limit":               "200",
			"rsi_short_threshold": "0",
			"rsi_long_threshold":  "100",
		}).
		Get(url)
	if err != nil {
		return ingest.FetchResult{}, fmt.Errorf("信号API请求失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return ingest.FetchResult{}, fmt.Errorf("信号API返回 %d", resp.StatusCode())
	}

	now := time.Now().Truncate(time.Minute)
	return ingest.FetchResult{
		Stream:          ingest.StreamSignal,
		RawText:         resp.String(),
		SourceTimestamp: now.Format(ingest.TimeLayout),
		SourceID:        url,
	}, nil
}
