package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"2025-12-06_1430.txt", "2025-12-06 14:30:00"},
		{"2025-01-01_0000.txt", "2025-01-01 00:00:00"},
		{"2025-12-31_2359", "2025-12-31 23:59:00"},
	}
	for _, tc := range cases {
		got, err := TimestampFromFilename(tc.filename)
		require.NoError(t, err, tc.filename)
		assert.Equal(t, tc.want, got, tc.filename)
	}
}

func TestTimestampFromFilename_Invalid(t *testing.T) {
	for _, bad := range []string{
		"snapshot.txt",
		"2025-12-06.txt",
		"2025-13-40_9999.txt",
		"",
	} {
		_, err := TimestampFromFilename(bad)
		assert.Error(t, err, bad)
	}
}

func TestDriveFileRe(t *testing.T) {
	// 文件夹页面内嵌 JS 数据里的 (id, 文件名) 对
	page := `["xxx","1AbCdEfGhIjKlMnOpQrStUvWxYz012345","2025-12-06_1430.txt","后续"]` +
		`["yyy","1AbCdEfGhIjKlMnOpQrStUvWxYz012346","2025-12-06_1440.txt","后续"]`
	matches := driveFileRe.FindAllStringSubmatch(page, -1)
	require.Len(t, matches, 2)
	assert.Equal(t, "2025-12-06_1430.txt", matches[0][2])
	assert.Equal(t, "1AbCdEfGhIjKlMnOpQrStUvWxYz012346", matches[1][1])
}
