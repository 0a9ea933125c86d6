package schedule

import "github.com/lilo791027/banbiao-auto2/internal/model"

// Normalize 解除合并单元格：区域内每个单元格填入锚点值
// 返回新网格，不修改输入；区域超出网格的部分被裁剪
func Normalize(g model.Grid) model.Grid {
	out := model.Grid{
		SheetName: g.SheetName,
		Rows:      make([][]model.Cell, len(g.Rows)),
	}
	for i, row := range g.Rows {
		out.Rows[i] = append([]model.Cell(nil), row...)
	}

	for _, region := range g.Merges {
		for r := max(region.MinRow, 0); r <= region.MaxRow && r < len(out.Rows); r++ {
			for c := max(region.MinCol, 0); c <= region.MaxCol && c < len(out.Rows[r]); c++ {
				out.Rows[r][c] = region.Value
			}
		}
	}

	return out
}
