package parser

import (
	"strings"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// sampleRows 识别时最多扫描的行数
const sampleRows = 200

// SheetRecognizer Sheet 类型识别器
type SheetRecognizer struct{}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// Recognize 识别 Sheet 类型
func (r *SheetRecognizer) Recognize(sheetName string, rows [][]string) model.SheetRecognition {
	if result := r.recognizeShiftGrid(sheetName, rows); result.Score >= 0.5 {
		return result
	}

	if len(rows) > 0 {
		if result := r.recognizeRoster(sheetName, rows[0]); result.Score >= 0.5 {
			return result
		}
	}

	return model.SheetRecognition{
		SheetName:     sheetName,
		Type:          model.SheetTypeUnknown,
		Score:         0,
		MissingFields: []string{},
	}
}

// recognizeShiftGrid 识别诊所班表：存在日期锚点且其下方有早/午/晚标签
func (r *SheetRecognizer) recognizeShiftGrid(sheetName string, rows [][]string) model.SheetRecognition {
	dates := 0
	labels := 0

	for i, row := range rows {
		if i >= sampleRows {
			break
		}
		for c, v := range row {
			if c == 0 {
				continue
			}
			v = strings.TrimSpace(v)
			if model.IsShiftLabel(v) {
				labels++
				continue
			}
			if _, ok := ParseDateText(v); ok {
				dates++
			}
		}
	}

	missing := []string{}
	score := 0.0
	if dates > 0 {
		score += 0.5
	} else {
		missing = append(missing, "date_anchor")
	}
	if labels > 0 {
		score += 0.4
	} else {
		missing = append(missing, "shift_label")
	}
	if ContainsAny(sheetName, []string{"班表", "排班", "診", "诊"}) {
		score += 0.1
	}
	if dates == 0 || labels == 0 {
		score = score * 0.5
	}

	t := model.SheetTypeUnknown
	if score >= 0.5 {
		t = model.SheetTypeShiftGrid
	}
	return model.SheetRecognition{
		SheetName:     sheetName,
		Type:          t,
		Score:         score,
		MissingFields: missing,
	}
}

// recognizeRoster 识别员工明细：表头含姓名及编号/职称
func (r *SheetRecognizer) recognizeRoster(sheetName string, headers []string) model.SheetRecognition {
	mappings := NewFieldMapper().MapRoster(headers)

	found := make(map[RosterField]bool, len(mappings))
	for _, mp := range mappings {
		found[mp.Field] = true
	}

	keyFields := []RosterField{FieldName, FieldID, FieldTitle, FieldDepartment}
	missing := []string{}
	matchCount := 0
	for _, f := range keyFields {
		if found[f] {
			matchCount++
		} else {
			missing = append(missing, string(f))
		}
	}

	score := float64(matchCount) / float64(len(keyFields))
	if !found[FieldName] {
		score = score * 0.5
	}
	if ContainsAny(sheetName, []string{"員工", "员工", "名冊", "名册", "明細", "明细"}) {
		score += 0.2
	}

	t := model.SheetTypeUnknown
	if score >= 0.5 {
		t = model.SheetTypeRoster
	}
	return model.SheetRecognition{
		SheetName:     sheetName,
		Type:          t,
		Score:         score,
		MissingFields: missing,
	}
}
