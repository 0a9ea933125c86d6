package parser

import (
	"strings"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// fieldRule 语义字段与列名关键词
type fieldRule struct {
	field   RosterField
	pattern string
	exclude []string
}

// rosterRules 按优先级匹配；同一列只归属一个字段
var rosterRules = []fieldRule{
	{field: FieldID, pattern: `員工編號|员工编号|員編|工號|工号|編號|编号|(?i)^id$|(?i)employee.?id`},
	{field: FieldEarlyFlag, pattern: `純早|纯早|早班特權|早班特权|特殊早班|(?i)early`},
	{field: FieldName, pattern: `姓名|名字|(?i)^name$|(?i)employee.?name`},
	{field: FieldDepartment, pattern: `部門|部门|單位|单位|(?i)dept|(?i)department`},
	{field: FieldTitle, pattern: `職稱|职称|職務|职务|職位|职位|(?i)title`, exclude: []string{"類別", "类别"}},
	{field: FieldCategory, pattern: `類別|类别|身分|身份|分類|分类|(?i)category`, exclude: []string{"證", "证"}},
}

// FieldMapper 员工明细字段映射器
type FieldMapper struct{}

// NewFieldMapper 创建字段映射器
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{}
}

// MapRoster 将表头映射为语义字段
func (m *FieldMapper) MapRoster(columnNames []string) map[int]FieldMapping {
	mappings := make(map[int]FieldMapping)
	taken := make(map[RosterField]bool)

	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeColumnName(col)
	}

	for _, rule := range rosterRules {
		for idx, col := range normalized {
			if col == "" || taken[rule.field] {
				continue
			}
			if _, used := mappings[idx]; used {
				continue
			}
			if ContainsAny(col, rule.exclude) || !MatchPattern(col, rule.pattern) {
				continue
			}
			mappings[idx] = FieldMapping{
				ColumnIndex: idx,
				ColumnName:  col,
				Field:       rule.field,
			}
			taken[rule.field] = true
		}
	}

	return mappings
}

// ResolveRosterColumns 解析员工明细表头
// 找不到姓名列时退回固定列位：0=编号 1=姓名 2=部门 3=职称
func ResolveRosterColumns(headers []string) RosterColumns {
	mappings := NewFieldMapper().MapRoster(headers)

	var cols RosterColumns
	for idx, mp := range mappings {
		i := idx
		switch mp.Field {
		case FieldName:
			cols.Name = &i
		case FieldID:
			cols.ID = &i
		case FieldDepartment:
			cols.Department = &i
		case FieldTitle:
			cols.Title = &i
		case FieldCategory:
			cols.Category = &i
		case FieldEarlyFlag:
			cols.EarlyFlag = &i
		}
	}

	if cols.Name == nil {
		id, name, dept, title := 0, 1, 2, 3
		cols = RosterColumns{
			ID:         &id,
			Name:       &name,
			Department: &dept,
			Title:      &title,
			Category:   cols.Category,
			EarlyFlag:  cols.EarlyFlag,
			Positional: true,
		}
	}

	return cols
}

// earlyTitles 享有纯早班特权的职称
var earlyTitles = []string{"早班護理師", "早班內視鏡助理", "醫務專員", "兼職早班內視鏡助理"}

// staffTitles 归为【員工】的职称
var staffTitles = []string{"櫃臺", "櫃檯", "護理師", "兼職護理師", "兼職跟診助理", "副店長", "護士", "藥師"}

// CategoryFromText 将类别列的文字转为员工类别，无法识别返回 false
func CategoryFromText(value string) (model.EmployeeCategory, bool) {
	v := strings.ToLower(NormalizeColumnName(value))
	switch {
	case ContainsAny(v, []string{"醫師", "医师", "doctor"}):
		return model.CategoryDoctor, true
	case ContainsAny(v, []string{"主管", "supervisor", "manager"}):
		return model.CategorySupervisor, true
	case ContainsAny(v, []string{"員工", "员工", "staff"}):
		return model.CategoryStaff, true
	}
	return model.CategoryOther, false
}

// CategoryFromTitle 由职称推断员工类别
func CategoryFromTitle(title string) model.EmployeeCategory {
	title = NormalizeColumnName(title)
	switch {
	case title == "":
		return model.CategoryOther
	case title == "醫師":
		return model.CategoryDoctor
	case IsEarlyTitle(title):
		return model.CategoryStaff
	case containsExact(staffTitles, title), strings.Contains(title, "副店長"):
		return model.CategoryStaff
	case strings.Contains(title, "店長"), strings.Contains(title, "採購儲備組長"):
		return model.CategorySupervisor
	}
	return model.CategoryOther
}

// IsEarlyTitle 职称是否享有纯早班特权
func IsEarlyTitle(title string) bool {
	return containsExact(earlyTitles, NormalizeColumnName(title))
}

func containsExact(items []string, v string) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}

// BuildEmployee 按列映射读取一行员工明细，姓名为空返回 false
func BuildEmployee(cols RosterColumns, row []string) (model.EmployeeRecord, bool) {
	get := func(ref *int) string {
		return strings.TrimSpace(cols.Value(row, ref))
	}

	rec := model.EmployeeRecord{
		Name:       model.NormalizeName(get(cols.Name)),
		ID:         get(cols.ID),
		Department: get(cols.Department),
		Title:      get(cols.Title),
	}
	if rec.Name == "" {
		return rec, false
	}

	rec.Category = CategoryFromTitle(rec.Title)
	if cat, ok := CategoryFromText(get(cols.Category)); ok {
		rec.Category = cat
	}

	if cols.EarlyFlag != nil {
		rec.EarlySpecial = IsTruthy(get(cols.EarlyFlag))
	} else {
		rec.EarlySpecial = IsEarlyTitle(rec.Title)
	}

	return rec, true
}
