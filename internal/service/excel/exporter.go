package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lilo791027/banbiao-auto2/internal/service/schedule"
)

// 输出工作表名称
const (
	SheetShifts   = "班別資料"
	SheetAnalysis = "班別分析"
	SheetSummary  = "班別總表"
)

var (
	shiftHeaders    = []string{"診所", "日期", "班別", "姓名"}
	analysisHeaders = []string{"診所", "員工編號", "所屬部門", "姓名", "職稱", "日期", "班別", "E欄資料", "班別代碼"}
	summaryHeaders  = []string{"員工編號", "員工姓名"}
)

// Exporter 转换结果导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 将一次转换结果写入新工作簿
func (e *Exporter) Export(result *schedule.Result) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("failed to export: empty result")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetShifts); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetAnalysis, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	tables := Tables(result)
	for _, t := range tables {
		if err := writeTable(f, t, headerStyle); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := setColumnWidths(f, tables); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// setColumnWidths 设置列宽，班別總表的日期列加宽
func setColumnWidths(f *excelize.File, tables []Table) error {
	widths := []struct {
		sheet      string
		start, end int
		width      float64
	}{
		{SheetShifts, 1, len(tables[0].Headers), 14},
		{SheetAnalysis, 1, len(analysisHeaders) - 1, 14},
		{SheetAnalysis, len(analysisHeaders), len(analysisHeaders), 28},
		{SheetSummary, 1, len(summaryHeaders), 14},
		{SheetSummary, len(summaryHeaders) + 1, len(tables[2].Headers), 24},
	}
	for _, w := range widths {
		if w.end < w.start {
			continue
		}
		start, err := excelize.ColumnNumberToName(w.start)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", w.start, err)
		}
		end, err := excelize.ColumnNumberToName(w.end)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", w.end, err)
		}
		if err := f.SetColWidth(w.sheet, start, end, w.width); err != nil {
			return fmt.Errorf("failed to set column width of %s: %w", w.sheet, err)
		}
	}
	return nil
}

func writeTable(f *excelize.File, t Table, style int) error {
	headerRow := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(t.Sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", t.Sheet, err)
	}
	if err := f.SetRowStyle(t.Sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", t.Sheet, err)
	}

	for i, row := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(t.Sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", t.Sheet, i+2, err)
		}
	}
	return nil
}

// Table 一张输出表
type Table struct {
	Sheet   string     `json:"sheet"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Tables 按输出顺序生成 班別資料 / 班別分析 / 班別總表
func Tables(result *schedule.Result) []Table {
	headers := append(append([]string{}, shiftHeaders...), AuxHeaders(result.AuxColumns)...)
	shifts := make([][]string, 0, len(result.Shifts))
	for _, r := range result.Shifts {
		row := make([]string, len(headers))
		copy(row, []string{r.Clinic, r.DateString(), r.ShiftLabel, r.PersonLabel})
		copy(row[len(shiftHeaders):], r.Aux)
		shifts = append(shifts, row)
	}

	analysis := make([][]string, 0, len(result.Analysis))
	for _, r := range result.Analysis {
		analysis = append(analysis, []string{
			r.Clinic, r.EmployeeID, r.Department, r.PersonName, r.Title,
			r.DateString(), r.ShiftCombination, r.Note, r.ClassCode,
		})
	}

	summary := make([][]string, 0, len(result.Summary.Rows))
	for _, row := range result.Summary.Rows {
		values := append([]string{row.EmployeeID, row.PersonName}, row.Cells...)
		summary = append(summary, values)
	}

	return []Table{
		{Sheet: SheetShifts, Headers: headers, Rows: shifts},
		{Sheet: SheetAnalysis, Headers: analysisHeaders, Rows: analysis},
		{Sheet: SheetSummary, Headers: append(append([]string{}, summaryHeaders...), result.Summary.DateHeaders()...), Rows: summary},
	}
}

// AuxHeaders 辅助列标题，按来源列字母命名，如 A欄資料、U欄資料
func AuxHeaders(cols []int) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			name = fmt.Sprintf("%d", c+1)
		}
		out[i] = name + "欄資料"
	}
	return out
}
