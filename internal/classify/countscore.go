package classify

// 星级类型：实心星表示好（计次少），空心星表示差（计次多）
const (
	StarSolid  = "实心"
	StarHollow = "空心"
)

// CountScore 计次得分，采集时刻根据计次和当前小时冻结
type CountScore struct {
	Stars   int
	Kind    string
	Display string
}

// rung 阶梯的一档：countTimes <= Limit 即命中
type rung struct {
	limit int
	score CountScore
}

// 一天分四个6小时窗口，窗口越晚允许的计次越多。
// 每个窗口按档位从低到高求值，超过全部档位落入最差档（三颗空心星）。
var countRungs = [4][]rung{
	{ // [0,6)
		{1, CountScore{3, StarSolid, "★★★"}},
		{2, CountScore{2, StarSolid, "★★"}},
		{3, CountScore{1, StarSolid, "★"}},
		{4, CountScore{1, StarHollow, "☆"}},
		{5, CountScore{2, StarHollow, "☆☆"}},
	},
	{ // [6,12)
		{2, CountScore{3, StarSolid, "★★★"}},
		{3, CountScore{2, StarSolid, "★★"}},
		{4, CountScore{1, StarSolid, "★"}},
		{6, CountScore{1, StarHollow, "☆"}},
		{7, CountScore{2, StarHollow, "☆☆"}},
	},
	{ // [12,18)
		{3, CountScore{3, StarSolid, "★★★"}},
		{4, CountScore{2, StarSolid, "★★"}},
		{5, CountScore{1, StarSolid, "★"}},
		{8, CountScore{1, StarHollow, "☆"}},
		{9, CountScore{2, StarHollow, "☆☆"}},
	},
	{ // [18,24)
		{4, CountScore{3, StarSolid, "★★★"}},
		{5, CountScore{2, StarSolid, "★★"}},
		{6, CountScore{1, StarSolid, "★"}},
		{10, CountScore{1, StarHollow, "☆"}},
		{11, CountScore{2, StarHollow, "☆☆"}},
	},
}

var worstScore = CountScore{3, StarHollow, "☆☆☆"}

// ClassifyCountScore rates countTimes against the 6-hour window that
// hourOfDay falls into. Pure and deterministic; an out-of-range hour is
// clamped so a bad input degrades to the nearest window instead of
// panicking.
func ClassifyCountScore(countTimes, hourOfDay int) CountScore {
	if hourOfDay < 0 {
		hourOfDay = 0
	}
	if hourOfDay > 23 {
		hourOfDay = 23
	}
	for _, r := range countRungs[hourOfDay/6] {
		if countTimes <= r.limit {
			return r.score
		}
	}
	return worstScore
}
