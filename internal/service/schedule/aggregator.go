package schedule

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// groupKey 合并键：(规范化姓名, 日期, 诊所)
type groupKey struct {
	name   string
	date   time.Time
	clinic string
}

type shiftGroup struct {
	key    groupKey
	person string
	note   string
	labels map[string]struct{}
}

// Aggregator 班别汇总器
type Aggregator struct {
	roster       *model.Roster
	resolver     *ClassCodeResolver
	unmatched    model.UnmatchedPolicy
	denylist     map[string]struct{}
	maxNameRunes int
}

// NewAggregator 创建汇总器；roster 在整个运行期间只读
func NewAggregator(roster *model.Roster, resolver *ClassCodeResolver, opts model.RuleOptions) *Aggregator {
	deny := make(map[string]struct{}, len(opts.Denylist))
	for _, d := range opts.Denylist {
		deny[model.NormalizeName(d)] = struct{}{}
	}
	return &Aggregator{
		roster:       roster,
		resolver:     resolver,
		unmatched:    opts.Unmatched,
		denylist:     deny,
		maxNameRunes: opts.MaxNameRunes,
	}
}

// Aggregate 将班别记录按人/日/诊所合并为班别分析记录（保持首次出现的顺序）
func (a *Aggregator) Aggregate(records []model.ShiftRecord) []model.AnalysisRecord {
	groups := make(map[groupKey]*shiftGroup)
	order := make([]*shiftGroup, 0)

	for _, rec := range records {
		name := model.NormalizeName(rec.PersonLabel)
		if a.Excluded(name) {
			continue
		}
		key := groupKey{name: name, date: rec.Date, clinic: rec.Clinic}
		g, ok := groups[key]
		if !ok {
			g = &shiftGroup{
				key:    key,
				person: name,
				labels: make(map[string]struct{}, 3),
			}
			groups[key] = g
			order = append(order, g)
		}
		if g.note == "" && len(rec.Aux) > 0 {
			g.note = rec.Aux[0]
		}
		g.labels[rec.ShiftLabel] = struct{}{}
	}

	out := make([]model.AnalysisRecord, 0, len(order))
	for _, g := range order {
		emp, matched := a.roster.Lookup(g.person)
		if !matched && a.unmatched == model.UnmatchedDrop {
			continue
		}

		combination := CanonicalCombination(g.labels)
		rec := model.AnalysisRecord{
			Clinic:           g.key.clinic,
			PersonName:       g.person,
			Date:             g.key.date,
			ShiftCombination: combination,
			Note:             g.note,
			Matched:          matched,
		}
		if matched {
			rec.EmployeeID = emp.ID
			rec.Department = emp.Department
			rec.Title = emp.Title
			rec.ClassCode = a.resolver.Resolve(emp.Category, emp.EarlySpecial, g.key.clinic, combination)
		}
		out = append(out, rec)
	}

	return out
}

// UnmatchedNames 名册中找不到的姓名（去重，保持首次出现的顺序），与未匹配策略无关
func (a *Aggregator) UnmatchedNames(records []model.ShiftRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, rec := range records {
		name := model.NormalizeName(rec.PersonLabel)
		if a.Excluded(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := a.roster.Lookup(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

// Excluded 人员标签是否为非员工占位（义诊、盘点等）或超出姓名长度
func (a *Aggregator) Excluded(name string) bool {
	name = model.NormalizeName(name)
	if isBlankPerson(name) {
		return true
	}
	if _, ok := a.denylist[name]; ok {
		return true
	}
	return a.maxNameRunes > 0 && utf8.RuneCountInString(name) > a.maxNameRunes
}

// CanonicalCombination 按 早→午→晚 的固定顺序输出班别组合
func CanonicalCombination(labels map[string]struct{}) string {
	var b strings.Builder
	for _, s := range model.ShiftOrder {
		if _, ok := labels[s]; ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// CombinationOf 由任意顺序（可重复）的班别标签得到规范组合
func CombinationOf(labels ...string) string {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return CanonicalCombination(set)
}
