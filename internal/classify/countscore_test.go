package classify

import "testing"

func TestClassifyCountScore_FirstWindow(t *testing.T) {
	tests := []struct {
		count   int
		stars   int
		kind    string
		display string
	}{
		{0, 3, StarSolid, "★★★"},
		{1, 3, StarSolid, "★★★"},
		{2, 2, StarSolid, "★★"},
		{3, 1, StarSolid, "★"},
		{4, 1, StarHollow, "☆"},
		{5, 2, StarHollow, "☆☆"},
		{6, 3, StarHollow, "☆☆☆"},
		{10, 3, StarHollow, "☆☆☆"},
	}
	for _, tt := range tests {
		got := ClassifyCountScore(tt.count, 3)
		if got.Stars != tt.stars || got.Kind != tt.kind || got.Display != tt.display {
			t.Errorf("ClassifyCountScore(%d, 3) = %+v, want (%d, %s, %s)",
				tt.count, got, tt.stars, tt.kind, tt.display)
		}
	}
}

// 档位边界正好命中时必须落在文档化的那一档，不能偏到相邻档
func TestClassifyCountScore_RungBoundary(t *testing.T) {
	got := ClassifyCountScore(2, 5)
	if got.Stars != 2 || got.Kind != StarSolid {
		t.Errorf("count=2 at hour 5 = %+v, want 2 solid stars", got)
	}
	// 同一计次在下一个窗口里是满星：窗口阈值随时间放宽
	got = ClassifyCountScore(2, 6)
	if got.Stars != 3 || got.Kind != StarSolid {
		t.Errorf("count=2 at hour 6 = %+v, want 3 solid stars", got)
	}
}

func TestClassifyCountScore_AllWindows(t *testing.T) {
	tests := []struct {
		count, hour int
		stars       int
		kind        string
	}{
		// [6,12)
		{2, 6, 3, StarSolid},
		{4, 11, 1, StarSolid},
		{6, 8, 1, StarHollow},
		{7, 8, 2, StarHollow},
		{8, 8, 3, StarHollow},
		// [12,18)
		{3, 12, 3, StarSolid},
		{5, 17, 1, StarSolid},
		{9, 15, 2, StarHollow},
		{20, 15, 3, StarHollow},
		// [18,24)
		{4, 18, 3, StarSolid},
		{6, 23, 1, StarSolid},
		{10, 20, 1, StarHollow},
		{12, 23, 3, StarHollow},
	}
	for _, tt := range tests {
		got := ClassifyCountScore(tt.count, tt.hour)
		if got.Stars != tt.stars || got.Kind != tt.kind {
			t.Errorf("ClassifyCountScore(%d, %d) = %+v, want (%d, %s)",
				tt.count, tt.hour, got, tt.stars, tt.kind)
		}
	}
}

func TestClassifyCountScore_Deterministic(t *testing.T) {
	a := ClassifyCountScore(5, 13)
	b := ClassifyCountScore(5, 13)
	if a != b {
		t.Errorf("same inputs gave %+v and %+v", a, b)
	}
}

func TestClassifyCountScore_HourClamped(t *testing.T) {
	if got := ClassifyCountScore(1, -1); got != ClassifyCountScore(1, 0) {
		t.Errorf("negative hour = %+v, want clamp to first window", got)
	}
	if got := ClassifyCountScore(1, 24); got != ClassifyCountScore(1, 23) {
		t.Errorf("hour 24 = %+v, want clamp to last window", got)
	}
}
