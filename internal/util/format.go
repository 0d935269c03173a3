package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatThousands 金额格式化：四舍五入到整数并加千分位分隔符
func FormatThousands(v float64) string {
	neg := v < 0
	n := int64(math.Round(math.Abs(v)))

	s := strconv.FormatInt(n, 10)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent 百分比格式化，输入为小数口径（0.05 → "5.00%"）
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// FormatFloat 数值转字符串，保留必要精度（CSV导出用）
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
