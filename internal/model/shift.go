package model

import "time"

// 班别标签
const (
	ShiftMorning = "早"
	ShiftMidday  = "午"
	ShiftEvening = "晚"
)

// ShiftOrder 班别组合的固定顺序
var ShiftOrder = []string{ShiftMorning, ShiftMidday, ShiftEvening}

// IsShiftLabel 是否为班别标签
func IsShiftLabel(s string) bool {
	return s == ShiftMorning || s == ShiftMidday || s == ShiftEvening
}

// 日期输出格式
const (
	RecordDateLayout  = "2006/01/02"
	SummaryDateLayout = "2006-01-02"
)

// ShiftRecord 班表区块中的一条 (班别, 人员) 记录
type ShiftRecord struct {
	Clinic      string    `json:"clinic"`
	Date        time.Time `json:"date"`
	ShiftLabel  string    `json:"shiftLabel"`
	PersonLabel string    `json:"personLabel"`
	Aux         []string  `json:"aux"` // 与 RuleOptions.AuxColumns 一一对应
}

// DateString 日期（YYYY/MM/DD）
func (r ShiftRecord) DateString() string {
	return r.Date.Format(RecordDateLayout)
}

// AnalysisRecord 班别分析表中的一行，按 (姓名, 日期, 诊所) 唯一
type AnalysisRecord struct {
	Clinic           string    `json:"clinic"`
	EmployeeID       string    `json:"employeeId"`
	Department       string    `json:"department"`
	PersonName       string    `json:"personName"`
	Title            string    `json:"title"`
	Date             time.Time `json:"date"`
	ShiftCombination string    `json:"shiftCombination"`
	Note             string    `json:"note"` // 首条记录的第一个辅助列
	ClassCode        string    `json:"classCode"`
	Matched          bool      `json:"matched"` // 是否在员工名册中找到
}

// DateString 日期（YYYY/MM/DD）
func (r AnalysisRecord) DateString() string {
	return r.Date.Format(RecordDateLayout)
}

// SummaryRow 班别总表中的一行
type SummaryRow struct {
	EmployeeID string   `json:"employeeId"`
	PersonName string   `json:"personName"`
	Cells      []string `json:"cells"` // 与 SummaryTable.Dates 一一对应
}

// SummaryTable 班别总表
type SummaryTable struct {
	Dates []time.Time  `json:"dates"`
	Rows  []SummaryRow `json:"rows"`
}

// DateHeaders 日期列标题（YYYY-MM-DD）
func (t SummaryTable) DateHeaders() []string {
	out := make([]string, len(t.Dates))
	for i, d := range t.Dates {
		out[i] = d.Format(SummaryDateLayout)
	}
	return out
}
