package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	rocDateRe    = regexp.MustCompile(`^(\d{2,3})[/.\-](\d{1,2})[/.\-](\d{1,2})$`)
	cjkDateRe    = regexp.MustCompile(`^(\d{2,4})年\s*(\d{1,2})月\s*(\d{1,2})日`)
	monthDayRe   = regexp.MustCompile(`^(\d{1,2})\s*(?:/|月)\s*(\d{1,2})\s*日?$`)
	yearMonthRe  = regexp.MustCompile(`(\d{2,4})\s*年\s*(?:(\d{1,2})\s*月)?`)
	isoYearRe    = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:[/.\-](\d{1,2}))?(?:\D|$)`)
)

// dateLayouts 单元格格式化后常见的日期写法
var dateLayouts = []string{
	"2006/01/02",
	"2006/1/2",
	"2006-01-02",
	"2006-1-2",
	"2006.01.02",
	"2006.1.2",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06",
	"1-2-06",
	"1/2/06 15:04",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-06",
}

// ParseDateText 尝试将单元格文本解析为日历日期
// 支持: "2025/10/01" / "2025-10-01" / "2025年10月1日" / 民国 "114/10/01" / Excel 序列号
func ParseDateText(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return truncateDay(t), true
		}
	}

	if m := cjkDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year < 1000 {
			year += 1911
		}
		return makeDate(year, m[2], m[3])
	}

	if m := rocDateRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		return makeDate(year+1911, m[2], m[3])
	}

	return time.Time{}, false
}

// ParseMonthDay 解析不带年份的日期写法，如 "10/1"、"10月1日"
func ParseMonthDay(text string) (time.Month, int, bool) {
	m := monthDayRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, false
	}
	return time.Month(month), day, true
}

// ResolveMonthDay 以参考日期补全年份；与参考月份相差超过半年时视为跨年
func ResolveMonthDay(month time.Month, day int, ref time.Time) (time.Time, bool) {
	year := ref.Year()
	switch diff := int(month) - int(ref.Month()); {
	case diff < -6:
		year++
	case diff > 6:
		year--
	}
	return makeDate(year, strconv.Itoa(int(month)), strconv.Itoa(day))
}

// DateReference 从工作表名称推断年份（及月份），如 "114年10月"、"2025-10 班表"
// 未写月份时取该年 1 月
func DateReference(text string) (time.Time, bool) {
	if m := yearMonthRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		if year < 1000 {
			year += 1911
		}
		return referenceDate(year, m[2])
	}
	if m := isoYearRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		return referenceDate(year, m[2])
	}
	return time.Time{}, false
}

func referenceDate(year int, month string) (time.Time, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		m = 1
	}
	return time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC), true
}

// ParseDateSerial 将 Excel 日期序列号解析为日期
// 仅接受 2000-01-01 ~ 2099-12-31 范围，避免把普通数字当作日期
func ParseDateSerial(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 36526 || serial > 73050 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return truncateDay(t), true
}

func makeDate(year int, month, day string) (time.Time, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeColumnName 规范化列名，去除空格和特殊字符
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	name = strings.ReplaceAll(name, "　", "")
	return whitespaceRe.ReplaceAllString(name, "")
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MatchPattern 使用正则匹配
func MatchPattern(text, pattern string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// IsTruthy 判断标记列的取值是否为“是”
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "是", "y", "yes", "1", "true", "v", "✓", "✔", "○", "o", "有":
		return true
	}
	return false
}
