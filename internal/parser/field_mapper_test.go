package parser

import (
	"testing"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

func index(ref *int) int {
	if ref == nil {
		return -1
	}
	return *ref
}

func TestResolveRosterColumns_Synonyms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		headers                          []string
		name, id, dept, title, cat, flag int
	}{
		{[]string{"員工編號", "姓名", "所屬部門", "職稱"}, 1, 0, 2, 3, -1, -1},
		{[]string{"職務", "工號", "單位", "名字", "類別", "純早班"}, 3, 1, 2, 0, 4, 5},
		{[]string{"Employee ID", "Name", "Department", "Title", "Category"}, 1, 0, 2, 3, 4, -1},
		{[]string{"姓名", "身分證字號", "職位"}, 0, -1, -1, 2, -1, -1},
	}
	for _, tc := range cases {
		cols := ResolveRosterColumns(tc.headers)
		if cols.Positional {
			t.Fatalf("%v: unexpected positional fallback", tc.headers)
		}
		got := []int{index(cols.Name), index(cols.ID), index(cols.Department), index(cols.Title), index(cols.Category), index(cols.EarlyFlag)}
		want := []int{tc.name, tc.id, tc.dept, tc.title, tc.cat, tc.flag}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%v: got %v, want %v", tc.headers, got, want)
			}
		}
	}
}

func TestResolveRosterColumns_PositionalFallback(t *testing.T) {
	t.Parallel()

	cols := ResolveRosterColumns([]string{"A", "B", "C", "D"})
	if !cols.Positional {
		t.Fatalf("expected positional fallback")
	}
	if index(cols.ID) != 0 || index(cols.Name) != 1 || index(cols.Department) != 2 || index(cols.Title) != 3 {
		t.Fatalf("cols=%+v", cols)
	}
}

func TestCategoryFromTitle(t *testing.T) {
	t.Parallel()

	cases := map[string]model.EmployeeCategory{
		"醫師":     model.CategoryDoctor,
		"護理師":    model.CategoryStaff,
		"櫃臺":     model.CategoryStaff,
		"早班護理師":  model.CategoryStaff,
		"副店長":    model.CategoryStaff,
		"店長":     model.CategorySupervisor,
		"採購儲備組長": model.CategorySupervisor,
		"兼職醫師":   model.CategoryOther,
		"":       model.CategoryOther,
	}
	for title, want := range cases {
		if got := CategoryFromTitle(title); got != want {
			t.Fatalf("%q: got %s, want %s", title, got, want)
		}
	}
}

func TestCategoryFromText(t *testing.T) {
	t.Parallel()

	if c, ok := CategoryFromText("★醫師★"); !ok || c != model.CategoryDoctor {
		t.Fatalf("★醫師★ -> %s %v", c, ok)
	}
	if c, ok := CategoryFromText("Supervisor"); !ok || c != model.CategorySupervisor {
		t.Fatalf("Supervisor -> %s %v", c, ok)
	}
	if _, ok := CategoryFromText("實習"); ok {
		t.Fatalf("unknown category text must not be recognized")
	}
}

func TestBuildEmployee(t *testing.T) {
	t.Parallel()

	cols := ResolveRosterColumns([]string{"員工編號", "姓名", "所屬部門", "職稱", "類別"})

	rec, ok := BuildEmployee(cols, []string{" E001 ", "王　小明", "護理部", "早班護理師", ""})
	if !ok {
		t.Fatalf("expected a record")
	}
	if rec.Name != "王小明" || rec.ID != "E001" {
		t.Fatalf("rec=%+v", rec)
	}
	if rec.Category != model.CategoryStaff || !rec.EarlySpecial {
		t.Fatalf("早班護理師 should be staff with early privilege: %+v", rec)
	}

	// 类别列优先于职称推断
	rec, _ = BuildEmployee(cols, []string{"S001", "李主任", "管理部", "護理師", "主管"})
	if rec.Category != model.CategorySupervisor {
		t.Fatalf("category column should win: %+v", rec)
	}

	if _, ok := BuildEmployee(cols, []string{"E009", "  ", "", "", ""}); ok {
		t.Fatalf("blank name must be skipped")
	}
	// 短行不越界
	if rec, ok := BuildEmployee(cols, []string{"E010", "陳一"}); !ok || rec.Title != "" {
		t.Fatalf("short row -> %+v %v", rec, ok)
	}
}

func TestBuildEmployee_EarlyFlagColumn(t *testing.T) {
	t.Parallel()

	cols := ResolveRosterColumns([]string{"姓名", "職稱", "純早班"})
	rec, _ := BuildEmployee(cols, []string{"林早早", "護理師", "是"})
	if !rec.EarlySpecial {
		t.Fatalf("flag column should grant early privilege")
	}
	// 有标记列时不再按职称推断
	rec, _ = BuildEmployee(cols, []string{"林晚晚", "早班護理師", ""})
	if rec.EarlySpecial {
		t.Fatalf("empty flag should deny early privilege")
	}
}
