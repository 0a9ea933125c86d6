package model

import "time"

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellDate
)

// Cell 网格单元格（只读视图）
type Cell struct {
	Kind CellKind  `json:"kind"`
	Text string    `json:"text"` // 已去除首尾空白
	Date time.Time `json:"date"` // 仅 Kind == CellDate 时有效
}

// TextCell 构造文本单元格，空白文本视为空单元格
func TextCell(text string) Cell {
	if text == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: text}
}

// DateCell 构造日期单元格
func DateCell(t time.Time, text string) Cell {
	return Cell{Kind: CellDate, Text: text, Date: t}
}

// IsBlank 是否为空单元格
func (c Cell) IsBlank() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && c.Text == "")
}

// IsDate 是否为日期单元格
func (c Cell) IsDate() bool {
	return c.Kind == CellDate
}

// MergedRegion 合并单元格区域，行列均为 0 起始且包含边界
type MergedRegion struct {
	MinRow int  `json:"minRow"`
	MinCol int  `json:"minCol"`
	MaxRow int  `json:"maxRow"`
	MaxCol int  `json:"maxCol"`
	Value  Cell `json:"value"` // 左上角锚点单元格的值
}

// Contains 判断 (row, col) 是否位于区域内
func (r MergedRegion) Contains(row, col int) bool {
	return row >= r.MinRow && row <= r.MaxRow && col >= r.MinCol && col <= r.MaxCol
}

// Grid 班表原始网格
type Grid struct {
	SheetName string         `json:"sheetName"`
	Rows      [][]Cell       `json:"rows"`
	Merges    []MergedRegion `json:"merges"`
}

// NewGrid 按给定行列数创建空网格
func NewGrid(rows, cols int) Grid {
	g := Grid{Rows: make([][]Cell, rows)}
	for i := range g.Rows {
		g.Rows[i] = make([]Cell, cols)
	}
	return g
}

// RowCount 行数
func (g Grid) RowCount() int {
	return len(g.Rows)
}

// ColCount 列数（矩形网格取首行长度）
func (g Grid) ColCount() int {
	if len(g.Rows) == 0 {
		return 0
	}
	return len(g.Rows[0])
}

// At 读取单元格，越界返回空单元格
func (g Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return Cell{}
	}
	return g.Rows[row][col]
}
