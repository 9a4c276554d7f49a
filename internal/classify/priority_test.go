package classify

import "testing"

func TestClassifyPriority_RuleOrder(t *testing.T) {
	tests := []struct {
		high, low string
		want      string
	}{
		{"95", "125", PriorityLevel1},
		// 等级1的 lowRatio>120 也成立，但 highRatio=85 不过 >90，顺序决定落到等级2
		{"85", "125", PriorityLevel2},
		{"95", "115", PriorityLevel3},
		{"75", "125", PriorityLevel4},
		{"85", "115", PriorityLevel5},
		{"60", "90", PriorityLevel6},
		{"50", "50", PriorityLevel6},
		// 两个条件都不满足任何规则
		{"85", "90", PriorityUnclassified},
		// 带百分号的原始文本
		{"95%", "125%", PriorityLevel1},
		{"69%", "105%", PriorityLevel6},
	}
	for _, tt := range tests {
		if got := ClassifyPriority(tt.high, tt.low); got != tt.want {
			t.Errorf("ClassifyPriority(%q, %q) = %q, want %q", tt.high, tt.low, got, tt.want)
		}
	}
}

func TestClassifyPriority_NonNumericInput(t *testing.T) {
	for _, tt := range [][2]string{
		{"abc", "120"},
		{"90", "xx%"},
		{"9 5", "120"},
	} {
		if got := ClassifyPriority(tt[0], tt[1]); got != PriorityUnclassified {
			t.Errorf("ClassifyPriority(%q, %q) = %q, want %q", tt[0], tt[1], got, PriorityUnclassified)
		}
	}
}

func TestClassifyPriority_EmptyDefaultsZero(t *testing.T) {
	// 空字段按0处理，与解析层默认值一致 → 等级6
	if got := ClassifyPriority("", ""); got != PriorityLevel6 {
		t.Errorf("ClassifyPriority(\"\", \"\") = %q, want %q", got, PriorityLevel6)
	}
}

func TestClassifyPriority_Total(t *testing.T) {
	// 任意数值输入必须恰好落到7个结果之一（不会panic、不会返回空串）
	valid := map[string]bool{
		PriorityLevel1: true, PriorityLevel2: true, PriorityLevel3: true,
		PriorityLevel4: true, PriorityLevel5: true, PriorityLevel6: true,
		PriorityUnclassified: true,
	}
	for h := 0.0; h <= 130; h += 5 {
		for l := 0.0; l <= 130; l += 5 {
			got := classifyPriority(h, l)
			if !valid[got] {
				t.Fatalf("classifyPriority(%v, %v) = %q, not a valid level", h, l, got)
			}
		}
	}
}
