package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/extrame/xls"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/lilo791027/banbiao-auto2/internal/model"
	"github.com/lilo791027/banbiao-auto2/internal/parser"
)

// xlsMaxRows .xls 读取的行数上限
const xlsMaxRows = 100000

// ErrNoSheet 工作簿中没有可用的工作表
var ErrNoSheet = errors.New("no worksheet found")

// Parser 班表工作簿解析器
type Parser struct {
	file       *excelize.File
	fileID     string
	recognizer *parser.SheetRecognizer
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{
		fileID:     uuid.New().String(),
		recognizer: parser.NewSheetRecognizer(),
	}
}

// LoadFile 加载 Excel 文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return fmt.Errorf("failed to open excel: %w", err)
	}
	p.file = file
	return nil
}

// GetFileID 获取文件ID
func (p *Parser) GetFileID() string {
	return p.fileID
}

// Close 关闭文件
func (p *Parser) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// GetSheets 获取工作表列表
func (p *Parser) GetSheets() ([]model.SheetInfo, error) {
	if p.file == nil {
		return nil, errors.New("no file loaded")
	}

	sheets := p.file.GetSheetList()
	result := make([]model.SheetInfo, 0, len(sheets))
	for _, name := range sheets {
		rows, err := p.file.GetRows(name)
		if err != nil {
			continue
		}
		result = append(result, model.SheetInfo{
			Name:     name,
			RowCount: len(rows),
		})
	}
	return result, nil
}

// RecognizeSheets 识别每个工作表的类型（保持工作簿中的顺序）
func (p *Parser) RecognizeSheets() ([]model.SheetRecognition, error) {
	out, _, err := p.recognize()
	return out, err
}

// recognize 逐个读取工作表为网格后识别，日期按单元格类型判定而非显示文字
func (p *Parser) recognize() ([]model.SheetRecognition, map[string]model.Grid, error) {
	if p.file == nil {
		return nil, nil, errors.New("no file loaded")
	}

	out := make([]model.SheetRecognition, 0)
	grids := make(map[string]model.Grid)
	for _, name := range p.file.GetSheetList() {
		g, err := p.LoadGrid(name)
		if err != nil {
			continue
		}
		grids[name] = g
		out = append(out, p.recognizer.Recognize(name, recognitionRows(g)))
	}
	return out, grids, nil
}

// recognitionRows 日期单元格统一输出为 YYYY/MM/DD
func recognitionRows(g model.Grid) [][]string {
	rows := make([][]string, len(g.Rows))
	for i, row := range g.Rows {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell.IsDate() {
				rows[i][j] = cell.Date.Format(model.RecordDateLayout)
				continue
			}
			rows[i][j] = cell.Text
		}
	}
	return rows
}

// LoadGrid 读取单个工作表为网格，同时记录合并单元格区域
func (p *Parser) LoadGrid(sheet string) (model.Grid, error) {
	if p.file == nil {
		return model.Grid{}, errors.New("no file loaded")
	}

	rows, err := p.file.GetRows(sheet)
	if err != nil {
		return model.Grid{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	raw, err := p.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.Grid{}, fmt.Errorf("failed to read raw values of %s: %w", sheet, err)
	}

	merges, err := p.file.GetMergeCells(sheet)
	if err != nil {
		return model.Grid{}, fmt.Errorf("failed to read merged cells of %s: %w", sheet, err)
	}

	regions := make([]model.MergedRegion, 0, len(merges))
	for _, mc := range merges {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		regions = append(regions, model.MergedRegion{
			MinRow: min(sr, er) - 1,
			MinCol: min(sc, ec) - 1,
			MaxRow: max(sr, er) - 1,
			MaxCol: max(sc, ec) - 1,
		})
	}

	return buildGrid(sheet, rows, regions, p.styledDates(sheet, raw)), nil
}

// styledDates 显示文字不是日期时，按单元格数字格式判定：日期格式的数值按序列号转换
func (p *Parser) styledDates(sheet string, raw [][]string) cellClassifier {
	dateStyles := make(map[int]bool)

	return func(row, col int, text string) model.Cell {
		cell := classifyCell(text, false)
		if cell.IsBlank() || cell.IsDate() || row >= len(raw) || col >= len(raw[row]) {
			return cell
		}

		value := strings.TrimSpace(raw[row][col])
		if d, ok := parser.ParseDateText(value); ok {
			return model.DateCell(d, cell.Text)
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return cell
		}

		axis, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return cell
		}
		styleID, err := p.file.GetCellStyle(sheet, axis)
		if err != nil {
			return cell
		}
		isDate, seen := dateStyles[styleID]
		if !seen {
			isDate = p.isDateStyle(styleID)
			dateStyles[styleID] = isDate
		}
		if !isDate {
			return cell
		}
		if d, ok := parser.ParseDateSerial(value); ok {
			return model.DateCell(d, cell.Text)
		}
		return cell
	}
}

// builtinDateFormats 内置数字格式中的日期格式（含繁中地区格式）
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 36: true,
	50: true, 51: true, 54: true, 57: true, 58: true,
}

func (p *Parser) isDateStyle(styleID int) bool {
	style, err := p.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return builtinDateFormats[style.NumFmt]
}

// isDateFormatCode 自定义格式去掉引号文字、方括号与转义字符后，
// 含年或日的记号，或只有月份而无时分秒，视为日期格式
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, skip := false, false, false
	for _, r := range code {
		switch {
		case skip:
			skip = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == '\\', r == '_', r == '*':
			skip = true
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	tokens := b.String()
	if i := strings.IndexByte(tokens, ';'); i >= 0 {
		tokens = tokens[:i]
	}
	if strings.ContainsAny(tokens, "yd") {
		return true
	}
	return strings.Contains(tokens, "m") && !strings.ContainsAny(tokens, "hs")
}

// ShiftGrids 读取所有识别为班表的工作表；都无法识别时退回第一个工作表
func (p *Parser) ShiftGrids() ([]model.Grid, error) {
	recognized, loaded, err := p.recognize()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for _, r := range recognized {
		if r.Type == model.SheetTypeShiftGrid {
			names = append(names, r.SheetName)
		}
	}
	if len(names) == 0 {
		first := p.file.GetSheetName(0)
		if first == "" {
			return nil, ErrNoSheet
		}
		names = append(names, first)
	}

	grids := make([]model.Grid, 0, len(names))
	for _, name := range names {
		g, ok := loaded[name]
		if !ok {
			if g, err = p.LoadGrid(name); err != nil {
				return nil, err
			}
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// cellClassifier 按行列位置（0 起）判定单元格
type cellClassifier func(row, col int, text string) model.Cell

// GridFromRows 将字符串矩阵转换为矩形网格
// 区域超出已读范围时补齐行列；每个区域的 Value 取锚点单元格
func GridFromRows(sheet string, rows [][]string, merges []model.MergedRegion, serialDates bool) model.Grid {
	return buildGrid(sheet, rows, merges, func(_, _ int, text string) model.Cell {
		return classifyCell(text, serialDates)
	})
}

func buildGrid(sheet string, rows [][]string, merges []model.MergedRegion, classify cellClassifier) model.Grid {
	nRows := len(rows)
	nCols := 0
	for _, r := range rows {
		nCols = max(nCols, len(r))
	}
	for _, m := range merges {
		nRows = max(nRows, m.MaxRow+1)
		nCols = max(nCols, m.MaxCol+1)
	}

	g := model.NewGrid(nRows, nCols)
	g.SheetName = sheet
	for i, r := range rows {
		for j, v := range r {
			g.Rows[i][j] = classify(i, j, v)
		}
	}
	resolveMonthDays(&g)

	g.Merges = make([]model.MergedRegion, 0, len(merges))
	for _, m := range merges {
		if m.MinRow < 0 || m.MinCol < 0 {
			continue
		}
		m.Value = g.At(m.MinRow, m.MinCol)
		g.Merges = append(g.Merges, m)
	}
	return g
}

// resolveMonthDays 将不带年份的文字日期（"10/1"、"10月1日"）补全为日期单元格
// 年份取网格中第一个完整日期，没有时依次从工作表名称、标题单元格推断；都没有则保留为文字
func resolveMonthDays(g *model.Grid) {
	ref, ok := firstDate(*g)
	if !ok {
		ref, ok = parser.DateReference(g.SheetName)
	}
	if !ok {
		ref, ok = parser.DateReference(g.At(0, 0).Text)
	}
	if !ok {
		return
	}

	for i, row := range g.Rows {
		for j := 1; j < len(row); j++ {
			if row[j].Kind != model.CellText {
				continue
			}
			month, day, ok := parser.ParseMonthDay(row[j].Text)
			if !ok {
				continue
			}
			if d, ok := parser.ResolveMonthDay(month, day, ref); ok {
				g.Rows[i][j] = model.DateCell(d, row[j].Text)
			}
		}
	}
}

func firstDate(g model.Grid) (time.Time, bool) {
	for _, row := range g.Rows {
		for _, cell := range row {
			if cell.IsDate() {
				return cell.Date, true
			}
		}
	}
	return time.Time{}, false
}

// classifyCell 判定单元格为日期、文字或空白
func classifyCell(raw string, serialDates bool) model.Cell {
	text := strings.TrimSpace(raw)
	if text == "" {
		return model.Cell{}
	}
	if d, ok := parser.ParseDateText(text); ok {
		return model.DateCell(d, text)
	}
	if serialDates {
		if d, ok := parser.ParseDateSerial(text); ok {
			return model.DateCell(d, text)
		}
	}
	return model.TextCell(text)
}

// LoadShiftGrids 按扩展名读取班表：.xls 只读第一个工作表且无合并信息
func LoadShiftGrids(reader io.Reader, filename string) ([]model.Grid, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift file: %w", err)
	}

	if isLegacyXLS(filename) {
		name, rows, err := readXLS(data)
		if err != nil {
			return nil, err
		}
		return []model.Grid{GridFromRows(name, rows, nil, true)}, nil
	}

	p := NewParser()
	if err := p.LoadFile(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	defer func() { _ = p.Close() }()

	return p.ShiftGrids()
}

func isLegacyXLS(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".xls")
}

// readXLS 读取 .xls 第一个工作表
func readXLS(data []byte) (string, [][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return "", nil, ErrNoSheet
	}
	name := ""
	if sheet := workbook.GetSheet(0); sheet != nil {
		name = sheet.Name
	}
	return name, workbook.ReadAllCells(xlsMaxRows), nil
}
