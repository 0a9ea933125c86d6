package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

type summaryKey struct {
	id   string
	name string
}

type summaryGroup struct {
	key   summaryKey
	title string
	codes map[time.Time]string
}

// SummaryBuilder 班别总表生成器
type SummaryBuilder struct {
	span          model.DateSpan
	autofill      bool
	exclusion     model.AutofillExclusion
	placeholders  []string
	titleKeywords []string
}

// NewSummaryBuilder 创建总表生成器
func NewSummaryBuilder(opts model.RuleOptions) *SummaryBuilder {
	return &SummaryBuilder{
		span:          opts.DateSpan,
		autofill:      opts.Autofill && len(opts.AutofillPlaceholders) > 0,
		exclusion:     opts.AutofillExclusion,
		placeholders:  opts.AutofillPlaceholders,
		titleKeywords: opts.ExcludedTitleKeywords,
	}
}

// Build 将班别分析记录透视为 (员工, 日期) 矩阵
func (b *SummaryBuilder) Build(records []model.AnalysisRecord) model.SummaryTable {
	groups := make(map[summaryKey]*summaryGroup)
	order := make([]*summaryGroup, 0)
	seen := make(map[time.Time]struct{})

	for _, rec := range records {
		key := summaryKey{id: rec.EmployeeID, name: rec.PersonName}
		g, ok := groups[key]
		if !ok {
			g = &summaryGroup{key: key, codes: make(map[time.Time]string)}
			groups[key] = g
			order = append(order, g)
		}
		if g.title == "" {
			g.title = rec.Title
		}
		g.codes[rec.Date] = rec.ClassCode
		seen[rec.Date] = struct{}{}
	}

	table := model.SummaryTable{
		Dates: b.dateColumns(seen),
		Rows:  make([]model.SummaryRow, 0, len(order)),
	}

	for _, g := range order {
		row := model.SummaryRow{
			EmployeeID: g.key.id,
			PersonName: g.key.name,
			Cells:      make([]string, len(table.Dates)),
		}
		fill := b.autofill && !b.excluded(g)
		cycle := 0
		for i, d := range table.Dates {
			// 有排班记录的日期保留原代码（即使为空），只补位无记录的日期
			if code, ok := g.codes[d]; ok {
				row.Cells[i] = code
				continue
			}
			if fill {
				row.Cells[i] = b.placeholders[cycle%len(b.placeholders)]
				cycle++
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// excluded 员工是否不参与自动补位
func (b *SummaryBuilder) excluded(g *summaryGroup) bool {
	byTitle := func() bool {
		for _, kw := range b.titleKeywords {
			if kw != "" && strings.Contains(g.title, kw) {
				return true
			}
		}
		return false
	}
	byID := func() bool {
		return strings.TrimSpace(g.key.id) == ""
	}

	switch b.exclusion {
	case model.ExcludeByEmployeeID:
		return byID()
	case model.ExcludeTitleOrID:
		return byTitle() || byID()
	default:
		return byTitle()
	}
}

// dateColumns 总表日期列：默认仅出现过的日期；month 模式补齐最早日期所在整月
func (b *SummaryBuilder) dateColumns(seen map[time.Time]struct{}) []time.Time {
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if b.span != model.DateSpanMonth || len(dates) == 0 {
		return dates
	}

	first := dates[0]
	start := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
