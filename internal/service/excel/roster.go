package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"github.com/lilo791027/banbiao-auto2/internal/model"
	"github.com/lilo791027/banbiao-auto2/internal/parser"
)

// 名册 CSV 编码
const (
	EncodingAuto = "auto"
	EncodingUTF8 = "utf-8"
	EncodingBig5 = "big5"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadRoster 读取员工明细：.xlsx/.xlsm 取识别为名册的工作表，.xls 取第一个工作表，.csv 按编码解码
func LoadRoster(reader io.Reader, filename, encoding string) (*model.Roster, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(data, encoding)
	case ".xls":
		_, rows, err = readXLS(data)
	default:
		rows, err = readRosterWorkbook(data)
	}
	if err != nil {
		return nil, err
	}

	return RosterFromRows(rows)
}

// RosterFromRows 第一行为表头，其余为员工明细；没有任何行时得到空名册
func RosterFromRows(rows [][]string) (*model.Roster, error) {
	if len(rows) == 0 {
		return model.NewRoster(nil), nil
	}

	cols := parser.ResolveRosterColumns(rows[0])
	records := make([]model.EmployeeRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rec, ok := parser.BuildEmployee(cols, row); ok {
			records = append(records, rec)
		}
	}
	return model.NewRoster(records), nil
}

func readRosterWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	recognizer := parser.NewSheetRecognizer()
	target := sheets[0]
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if recognizer.Recognize(name, rows).Type == model.SheetTypeRoster {
			target = name
			break
		}
	}

	rows, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", target, err)
	}
	return rows, nil
}

// readCSV 解码 CSV；auto 模式下非合法 UTF-8 的内容按 Big5 处理
func readCSV(data []byte, encoding string) ([][]string, error) {
	enc := strings.ToLower(strings.TrimSpace(encoding))
	if enc == "" || enc == EncodingAuto {
		enc = EncodingUTF8
		if !utf8.Valid(bytes.TrimPrefix(data, utf8BOM)) {
			enc = EncodingBig5
		}
	}

	var src io.Reader
	switch enc {
	case EncodingUTF8, "utf8":
		src = bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))
	case EncodingBig5, "cp950":
		src = transform.NewReader(bytes.NewReader(data), traditionalchinese.Big5.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported roster encoding: %s", encoding)
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster csv: %w", err)
	}
	return rows, nil
}
