package schedule

import (
	"testing"
	"time"

	"github.com/lilo791027/banbiao-auto2/internal/model"
	"github.com/lilo791027/banbiao-auto2/internal/parser"
)

// gridOf 由字符串矩阵构造网格，可解析为日期的单元格视为日期锚点
func gridOf(t *testing.T, rows [][]string) model.Grid {
	t.Helper()

	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	g := model.NewGrid(len(rows), cols)
	for i, r := range rows {
		for j, v := range r {
			if d, ok := parser.ParseDateText(v); ok {
				g.Rows[i][j] = model.DateCell(d, v)
				continue
			}
			g.Rows[i][j] = model.TextCell(v)
		}
	}
	return g
}

// column 把单列内容放到第 1 列（第 0 列为辅助资料）
func column(clinic string, values ...string) [][]string {
	rows := make([][]string, 0, len(values)+1)
	rows = append(rows, []string{clinic, ""})
	for _, v := range values {
		rows = append(rows, []string{"", v})
	}
	return rows
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
