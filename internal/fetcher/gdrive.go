package fetcher

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"crypto-radar/internal/ingest"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// 源文件名形如 2025-12-06_1430.txt，文件名就是来源时间戳
const filenameLayout = "2006-01-02_1504"

// Google Drive 文件夹页里文件ID和文件名成对出现
var driveFileRe = regexp.MustCompile(`"([a-zA-Z0-9_-]{33})","([^"]+\.txt)"`)

// GDriveFetcher pulls the newest snapshot txt out of a public Google Drive
// folder. All failures here are transient from the controller's point of
// view: the poll cycle no-ops and the watermark stays put.
type GDriveFetcher struct {
	client   *resty.Client
	folderID string
	log      *logrus.Logger
}

func NewGDriveFetcher(folderID string, log *logrus.Logger) *GDriveFetcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &GDriveFetcher{client: client, folderID: folderID, log: log}
}

// FetchLatest lists the folder, picks the lexicographically newest txt
// file, downloads it and re-decodes from GBK. The filename's embedded
// timestamp becomes the snapshot's source timestamp.
func (f *GDriveFetcher) FetchLatest() (ingest.FetchResult, error) {
	fileID, filename, err := f.latestFile()
	if err != nil {
		return ingest.FetchResult{}, err
	}

	resp, err := f.client.R().
		SetQueryParam("id", fileID).
		SetQueryParam("export", "download").
		Get("https://drive.google.com/uc")
	if err != nil {
		return ingest.FetchResult{}, fmt.Errorf("下载文件失败 %s: %w", filename, err)
	}
	if resp.StatusCode() != 200 {
		return ingest.FetchResult{}, fmt.Errorf("下载文件 %s 返回 %d", filename, resp.StatusCode())
	}

	// 源文件是GBK编码，尽力转成UTF-8
	raw, err := simplifiedchinese.GBK.NewDecoder().Bytes(resp.Body())
	if err != nil {
		f.log.WithField("filename", filename).Warnf("GBK解码失败，按原始字节处理: %v", err)
		raw = resp.Body()
	}

	sourceTS, err := TimestampFromFilename(filename)
	if err != nil {
		return ingest.FetchResult{}, err
	}

	return ingest.FetchResult{
		Stream:          ingest.StreamHome,
		RawText:         string(raw),
		SourceTimestamp: sourceTS,
		SourceID:        filename,
	}, nil
}

func (f *GDriveFetcher) latestFile() (fileID, filename string, err error) {
	resp, err := f.client.R().
		Get("https://drive.google.com/drive/folders/" + f.folderID)
	if err != nil {
		return "", "", fmt.Errorf("列出文件夹失败: %w", err)
	}

	matches := driveFileRe.FindAllStringSubmatch(resp.String(), -1)
	if len(matches) == 0 {
		return "", "", fmt.Errorf("文件夹 %s 中没有找到txt文件", f.folderID)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i][2] > matches[j][2] })
	return matches[0][1], matches[0][2], nil
}

// TimestampFromFilename derives the source timestamp from a snapshot
// filename like "2025-12-06_1430.txt".
func TimestampFromFilename(filename string) (string, error) {
	base := filename
	if len(base) > 4 && base[len(base)-4:] == ".txt" {
		base = base[:len(base)-4]
	}
	t, err := time.Parse(filenameLayout, base)
	if err != nil {
		return "", fmt.Errorf("文件名 %s 不含有效时间戳: %w", filename, err)
	}
	return t.Format(ingest.TimeLayout), nil
}
