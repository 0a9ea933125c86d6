package parser

// RosterField 员工明细中的语义字段
type RosterField string

const (
	FieldName       RosterField = "name"
	FieldID         RosterField = "id"
	FieldDepartment RosterField = "department"
	FieldTitle      RosterField = "title"
	FieldCategory   RosterField = "category"
	FieldEarlyFlag  RosterField = "early_flag"
)

// FieldMapping 字段映射结果
type FieldMapping struct {
	ColumnIndex int         `json:"columnIndex"` // Excel 列索引
	ColumnName  string      `json:"columnName"`  // Excel 列名
	Field       RosterField `json:"field"`       // 语义字段
}

// RosterColumns 员工明细列解析结果，未识别的字段为 nil
type RosterColumns struct {
	Name       *int `json:"name"`
	ID         *int `json:"id"`
	Department *int `json:"department"`
	Title      *int `json:"title"`
	Category   *int `json:"category"`
	EarlyFlag  *int `json:"earlyFlag"`
	Positional bool `json:"positional"` // 未识别到姓名列，按固定列位读取
}

// Value 按列引用读取取值，列缺失或越界返回空字符串
func (c RosterColumns) Value(row []string, ref *int) string {
	if ref == nil || *ref < 0 || *ref >= len(row) {
		return ""
	}
	return row[*ref]
}
