package schedule

import (
	"strings"
	"unicode/utf8"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// anchorOffset 日期锚点下方固定的表头行数（r+1、r+2 不参与扫描）
const anchorOffset = 3

// blankPersonLabels 视为空值的人员标签
var blankPersonLabels = map[string]struct{}{
	"":     {},
	"None": {},
	"none": {},
	"nan":  {},
	"NaN":  {},
	"=":    {},
}

// scanState 区块扫描状态
type scanState int

const (
	stateSeekingAnchor scanState = iota
	stateInBlock
	stateInShiftRun
)

// Extractor 班别区块抽取器
type Extractor struct {
	clinicFallback  string
	clinicNameRunes int
	auxColumns      []int
}

// NewExtractor 创建抽取器
func NewExtractor(opts model.RuleOptions) *Extractor {
	e := &Extractor{
		clinicFallback:  opts.ClinicFallback,
		clinicNameRunes: opts.ClinicNameRunes,
		auxColumns:      opts.AuxColumns,
	}
	if e.clinicNameRunes <= 0 {
		e.clinicNameRunes = 4
	}
	return e
}

// ClinicName 读取 (0,0) 单元格前若干字作为诊所名
func (e *Extractor) ClinicName(g model.Grid) string {
	cell := g.At(0, 0)
	text := strings.TrimSpace(cell.Text)
	if cell.IsBlank() || text == "" || isBlankPerson(text) {
		return e.clinicFallback
	}
	if utf8.RuneCountInString(text) > e.clinicNameRunes {
		text = string([]rune(text)[:e.clinicNameRunes])
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return e.clinicFallback
	}
	return text
}

// Extract 扫描已解除合并的网格，输出班别记录
// 第 0 列保留给辅助资料，不作为日期锚点列扫描
func (e *Extractor) Extract(g model.Grid) []model.ShiftRecord {
	clinic := e.ClinicName(g)
	var records []model.ShiftRecord

	for r := 0; r < g.RowCount(); r++ {
		for c := 1; c < len(g.Rows[r]); c++ {
			anchor := g.Rows[r][c]
			if !anchor.IsDate() {
				continue
			}
			records = e.scanBlock(g, r, c, clinic, anchor, records)
		}
	}

	return records
}

// scanBlock 从锚点 (r, c) 向下扫描一个区块
//
//	IN_BLOCK:     日期/空白 -> 结束；早午晚 -> IN_SHIFT_RUN；其他文字 -> 下一行
//	IN_SHIFT_RUN: 日期/早午晚 -> 回到 IN_BLOCK 重新判定该行；其他 -> 记录人员
func (e *Extractor) scanBlock(g model.Grid, r, c int, clinic string, anchor model.Cell, records []model.ShiftRecord) []model.ShiftRecord {
	state := stateInBlock
	label := ""

	for i := r + anchorOffset; i < g.RowCount() && state != stateSeekingAnchor; {
		cell := g.At(i, c)
		text := strings.TrimSpace(cell.Text)

		switch state {
		case stateInBlock:
			switch {
			case cell.IsDate(), cell.IsBlank():
				state = stateSeekingAnchor
			case model.IsShiftLabel(text):
				label = text
				state = stateInShiftRun
				i++
			default:
				i++
			}
		case stateInShiftRun:
			switch {
			case cell.IsDate(), model.IsShiftLabel(text):
				state = stateInBlock
			default:
				if !isBlankPerson(text) {
					records = append(records, model.ShiftRecord{
						Clinic:      clinic,
						Date:        anchor.Date,
						ShiftLabel:  label,
						PersonLabel: text,
						Aux:         e.auxValues(g, i),
					})
				}
				i++
			}
		}
	}

	return records
}

// auxValues 人员所在行的辅助列文字，超出网格的列为空
func (e *Extractor) auxValues(g model.Grid, row int) []string {
	out := make([]string, len(e.auxColumns))
	for k, col := range e.auxColumns {
		out[k] = strings.TrimSpace(g.At(row, col).Text)
	}
	return out
}

func isBlankPerson(text string) bool {
	_, ok := blankPersonLabels[strings.TrimSpace(text)]
	return ok
}
