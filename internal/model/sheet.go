package model

// SheetType 工作表类型（用于输入容错识别）
type SheetType string

const (
	SheetTypeUnknown   SheetType = "unknown"
	SheetTypeShiftGrid SheetType = "shift_grid" // 诊所班表（日期锚点 + 早午晚区块）
	SheetTypeRoster    SheetType = "roster"     // 员工明细
)

// SheetRecognition 单个 sheet 的识别结果
type SheetRecognition struct {
	SheetName     string    `json:"sheetName"`
	Type          SheetType `json:"type"`
	Score         float64   `json:"score"`
	MissingFields []string  `json:"missingFields"`
}

// SheetInfo 工作表信息
type SheetInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"rowCount"`
}
