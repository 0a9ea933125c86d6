package schedule

import (
	"testing"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

func testRoster() *model.Roster {
	return model.NewRoster([]model.EmployeeRecord{
		{Name: "王小明", ID: "E001", Department: "護理部", Title: "護理師", Category: model.CategoryStaff},
		{Name: "陳醫師", ID: "D001", Department: "醫療部", Title: "醫師", Category: model.CategoryDoctor},
		{Name: "林早早", ID: "E002", Department: "護理部", Title: "早班護理師", Category: model.CategoryStaff, EarlySpecial: true},
	})
}

func newTestAggregator(opts model.RuleOptions) *Aggregator {
	return NewAggregator(testRoster(), NewClassCodeResolver(opts), opts)
}

func shift(clinic string, d int, label, person string) model.ShiftRecord {
	return model.ShiftRecord{Clinic: clinic, Date: day(2025, 10, d), ShiftLabel: label, PersonLabel: person}
}

func TestAggregator_CanonicalCombination(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(model.DefaultRuleOptions())
	out := agg.Aggregate([]model.ShiftRecord{
		shift("上吉診所", 1, "晚", "王小明"),
		shift("上吉診所", 1, "早", "王小明"),
		shift("上吉診所", 1, "晚", "王小明"),
	})

	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if got := out[0].ShiftCombination; got != "早晚" {
		t.Fatalf("ShiftCombination=%q, want 早晚", got)
	}
	if got, want := out[0].ClassCode, "【員工】板土中京早晚班"; got != want {
		t.Fatalf("ClassCode=%q, want %q", got, want)
	}
	if out[0].EmployeeID != "E001" || out[0].Department != "護理部" || out[0].Title != "護理師" {
		t.Fatalf("employee fields not joined: %+v", out[0])
	}
}

func TestCombinationOf_OrderIndependent(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"晚", "早"},
		{"早", "晚"},
		{"晚", "晚", "早", "早"},
	}
	for _, labels := range cases {
		if got := CombinationOf(labels...); got != "早晚" {
			t.Fatalf("CombinationOf(%v)=%q, want 早晚", labels, got)
		}
	}
	if got := CombinationOf("晚", "午", "早"); got != "早午晚" {
		t.Fatalf("CombinationOf=%q, want 早午晚", got)
	}
}

func TestAggregator_GroupsByPersonDateClinic(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(model.DefaultRuleOptions())
	out := agg.Aggregate([]model.ShiftRecord{
		shift("上吉診所", 1, "早", "王小明"),
		shift("立丞診所", 1, "晚", "王小明"),
		shift("上吉診所", 2, "午", "王小明"),
		shift("上吉診所", 1, "午", "王 小明"),
	})

	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(out), out)
	}
	if out[0].ShiftCombination != "早午" || out[0].Clinic != "上吉診所" {
		t.Fatalf("first group=%+v, want 上吉診所 早午", out[0])
	}
	if out[1].Clinic != "立丞診所" || out[1].ClassCode != "【員工】立丞晚班" {
		t.Fatalf("second group=%+v", out[1])
	}
	if !out[2].Date.Equal(day(2025, 10, 2)) {
		t.Fatalf("third group date=%v", out[2].Date)
	}
}

func TestAggregator_DenylistFiltering(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(model.DefaultRuleOptions())
	out := agg.Aggregate([]model.ShiftRecord{
		shift("上吉診所", 1, "早", "義診"),
		shift("上吉診所", 1, "早", "盤點"),
		shift("上吉診所", 1, "午", "電打"),
		shift("上吉診所", 1, "晚", "單診"),
		shift("上吉診所", 1, "晚", "nan"),
		shift("上吉診所", 1, "晚", "陳醫師"),
	})

	if len(out) != 1 {
		t.Fatalf("expected only 陳醫師, got %+v", out)
	}
	if out[0].PersonName != "陳醫師" {
		t.Fatalf("PersonName=%q", out[0].PersonName)
	}
}

func TestAggregator_MaxNameRunes(t *testing.T) {
	t.Parallel()

	opts := model.DefaultRuleOptions()
	agg := newTestAggregator(opts)
	if !agg.Excluded("本日公休請注意") {
		t.Fatalf("long label should be excluded")
	}

	opts.MaxNameRunes = 0
	agg = newTestAggregator(opts)
	if agg.Excluded("本日公休請注意") {
		t.Fatalf("long label should pass when limit disabled")
	}
}

func TestAggregator_UnmatchedPolicy(t *testing.T) {
	t.Parallel()

	records := []model.ShiftRecord{
		shift("上吉診所", 1, "早", "路人甲"),
		shift("上吉診所", 1, "早", "王小明"),
	}

	keep := model.DefaultRuleOptions()
	keep.Unmatched = model.UnmatchedKeep
	out := newTestAggregator(keep).Aggregate(records)
	if len(out) != 2 {
		t.Fatalf("keep policy: expected 2 records, got %d", len(out))
	}
	if out[0].Matched || out[0].EmployeeID != "" || out[0].ClassCode != "" {
		t.Fatalf("unmatched record should have blank employee fields: %+v", out[0])
	}
	if out[0].ShiftCombination != "早" {
		t.Fatalf("unmatched record keeps combination, got %q", out[0].ShiftCombination)
	}

	drop := model.DefaultRuleOptions()
	drop.Unmatched = model.UnmatchedDrop
	out = newTestAggregator(drop).Aggregate(records)
	if len(out) != 1 || out[0].PersonName != "王小明" {
		t.Fatalf("drop policy: expected only 王小明, got %+v", out)
	}
	if names := newTestAggregator(drop).UnmatchedNames(records); len(names) != 1 || names[0] != "路人甲" {
		t.Fatalf("UnmatchedNames=%v, want [路人甲]", names)
	}
}

func TestAggregator_EmptyInputs(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(model.NewRoster(nil), NewClassCodeResolver(model.DefaultRuleOptions()), model.DefaultRuleOptions())
	if out := agg.Aggregate(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %+v", out)
	}
}

func TestAggregator_NoteFromFirstAuxValue(t *testing.T) {
	t.Parallel()

	first := shift("上吉診所", 1, "早", "王小明")
	second := shift("上吉診所", 1, "晚", "王小明")
	first.Aux = []string{"", "x"}
	second.Aux = []string{"組長", "y"}

	out := newTestAggregator(model.DefaultRuleOptions()).Aggregate([]model.ShiftRecord{first, second})
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Note != "組長" {
		t.Fatalf("Note=%q, want 組長", out[0].Note)
	}
}
