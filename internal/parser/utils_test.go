package parser

import (
	"testing"
	"time"
)

func TestParseDateText(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2025/10/01",
		"2025/10/1",
		"2025-10-01",
		"2025.10.01",
		"2025-10-01 00:00:00",
		" 2025/10/01 ",
		"10-01-25",
		"2025年10月1日",
		"2025年10月01日(三)",
		"114年10月1日",
		"114/10/01",
	} {
		got, ok := ParseDateText(in)
		if !ok {
			t.Fatalf("%q: expected a date", in)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestParseDateText_RejectsNonDates(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "早", "王小明", "三", "45931", "2025/13/01", "114/02/30", "None"} {
		if got, ok := ParseDateText(in); ok {
			t.Fatalf("%q: unexpected date %v", in, got)
		}
	}
}

func TestParseDateSerial(t *testing.T) {
	t.Parallel()

	got, ok := ParseDateSerial("45931")
	if !ok || !got.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("45931 -> %v %v", got, ok)
	}
	// 带时间小数部分时截断到日
	if got, ok := ParseDateSerial("45931.75"); !ok || got.Hour() != 0 || got.Day() != 1 {
		t.Fatalf("45931.75 -> %v %v", got, ok)
	}
	for _, in := range []string{"12", "1000", "abc", "99999"} {
		if _, ok := ParseDateSerial(in); ok {
			t.Fatalf("%q should not be a serial date", in)
		}
	}
}

func TestParseMonthDay(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"10/1", "10/01", "10月1日", "10 月 1 日", "10月1"} {
		m, d, ok := ParseMonthDay(in)
		if !ok || m != time.October || d != 1 {
			t.Fatalf("%q -> %v %d %v", in, m, d, ok)
		}
	}
	for _, in := range []string{"", "早", "13/1", "10/32", "2025/10/1", "1.5"} {
		if _, _, ok := ParseMonthDay(in); ok {
			t.Fatalf("%q should not be a month-day", in)
		}
	}
}

func TestResolveMonthDay_CrossesYear(t *testing.T) {
	t.Parallel()

	ref := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		month time.Month
		day   int
		want  time.Time
	}{
		{time.December, 31, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
		{time.January, 2, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := ResolveMonthDay(tc.month, tc.day, ref)
		if !ok || !got.Equal(tc.want) {
			t.Fatalf("%v/%d -> %v %v, want %v", tc.month, tc.day, got, ok, tc.want)
		}
	}

	jan := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	if got, _ := ResolveMonthDay(time.December, 30, jan); got.Year() != 2025 {
		t.Fatalf("12/30 against January -> %v, want 2025", got)
	}
	if _, ok := ResolveMonthDay(time.February, 30, ref); ok {
		t.Fatalf("2/30 should be rejected")
	}
}

func TestDateReference(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Time{
		"114年10月班表":  time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		"2025年11月":   time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		"2025-09 排班": time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		"立丞診所2026年":  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := DateReference(in)
		if !ok || !got.Equal(want) {
			t.Fatalf("%q -> %v %v, want %v", in, got, ok, want)
		}
	}
	for _, in := range []string{"十月", "Sheet1", ""} {
		if _, ok := DateReference(in); ok {
			t.Fatalf("%q should have no year", in)
		}
	}
}

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	if got := NormalizeColumnName(" 員工\n編號　"); got != "員工編號" {
		t.Fatalf("got %q", got)
	}
}

func TestContainsAny_SkipsEmptyKeywords(t *testing.T) {
	t.Parallel()

	if ContainsAny("護理師", []string{""}) {
		t.Fatalf("empty keyword must not match")
	}
	if !ContainsAny("兼職護理師", []string{"醫師", "兼職"}) {
		t.Fatalf("expected match on 兼職")
	}
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"是", "Y", "yes", "1", "TRUE", "V", "✓", "○"} {
		if !IsTruthy(v) {
			t.Fatalf("%q should be truthy", v)
		}
	}
	for _, v := range []string{"", "否", "N", "0", "false"} {
		if IsTruthy(v) {
			t.Fatalf("%q should not be truthy", v)
		}
	}
}
