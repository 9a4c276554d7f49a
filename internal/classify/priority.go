package classify

import (
	"strconv"
	"strings"
)

// 优先级等级，按最高占比/最低占比两个百分比判定
const (
	PriorityLevel1 = "等级1"
	PriorityLevel2 = "等级2"
	PriorityLevel3 = "等级3"
	PriorityLevel4 = "等级4"
	PriorityLevel5 = "等级5"
	PriorityLevel6 = "等级6"

	// PriorityUnclassified 无法判定时的占位值
	PriorityUnclassified = "-"
)

// priorityRule 单条判定规则，规则按声明顺序求值，先命中先赢。
// 区间存在重叠，顺序是契约的一部分。
type priorityRule struct {
	match func(high, low float64) bool
	level string
}

var priorityRules = []priorityRule{
	{func(h, l float64) bool { return h > 90 && l > 120 }, PriorityLevel1},
	{func(h, l float64) bool { return h > 80 && l > 120 }, PriorityLevel2},
	{func(h, l float64) bool { return h > 90 && l > 110 }, PriorityLevel3},
	{func(h, l float64) bool { return h > 70 && l > 120 }, PriorityLevel4},
	{func(h, l float64) bool { return h > 80 && l > 110 }, PriorityLevel5},
	{func(h, l float64) bool { return h < 80 && l < 110 }, PriorityLevel6},
}

// ClassifyPriority maps 最高占比/最低占比 percentage strings (trailing %
// allowed) to one of the six priority levels. Non-numeric input degrades
// to PriorityUnclassified instead of failing the row.
func ClassifyPriority(highRatio, lowRatio string) string {
	high, ok := parsePercent(highRatio)
	if !ok {
		return PriorityUnclassified
	}
	low, ok := parsePercent(lowRatio)
	if !ok {
		return PriorityUnclassified
	}
	return classifyPriority(high, low)
}

func classifyPriority(high, low float64) string {
	for _, rule := range priorityRules {
		if rule.match(high, low) {
			return rule.level
		}
	}
	return PriorityUnclassified
}

func parsePercent(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, true // 空字段按0处理，与解析层的默认值策略一致
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
