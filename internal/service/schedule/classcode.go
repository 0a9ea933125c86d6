package schedule

import (
	"strings"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// ClassCodeResolver 班别代码解析器（纯函数，无副作用）
type ClassCodeResolver struct {
	regionMarker string
	regionSingle string
	regionGroup  string
	earlyMatch   model.EarlyMatchPolicy
	labels       map[string]string
}

// NewClassCodeResolver 创建解析器
func NewClassCodeResolver(opts model.RuleOptions) *ClassCodeResolver {
	labels := opts.ShiftLabels
	if labels == nil {
		labels = model.DefaultShiftLabels()
	}
	return &ClassCodeResolver{
		regionMarker: opts.RegionMarker,
		regionSingle: opts.RegionSingle,
		regionGroup:  opts.RegionGroup,
		earlyMatch:   opts.EarlyMatch,
		labels:       labels,
	}
}

// Region 诊所所属区域
func (r *ClassCodeResolver) Region(clinic string) string {
	if r.regionMarker != "" && strings.Contains(clinic, r.regionMarker) {
		return r.regionSingle
	}
	return r.regionGroup
}

// Resolve 由 (类别, 纯早班特权, 诊所, 班别组合) 得到班别代码，首个命中的规则生效
func (r *ClassCodeResolver) Resolve(category model.EmployeeCategory, earlySpecial bool, clinic, combination string) string {
	if combination == "" {
		return ""
	}
	region := r.Region(clinic)
	staff := model.CategoryStaff.Prefix()

	if earlySpecial && r.involvesMorning(combination) {
		switch combination {
		case "早":
			return staff + "純早班"
		case "早午":
			return staff + region + "純早、午班"
		case "早晚":
			return staff + region + "純早、晚班"
		case "早午晚":
			return staff + region + "純早午晚班"
		}
	}

	prefix := category.Prefix()
	switch combination {
	case "早":
		return prefix + "早班"
	case "早午晚":
		return prefix + region + "全天班"
	}

	label, ok := r.labels[combination]
	if !ok {
		label = combination
	}
	if !strings.HasSuffix(label, "班") {
		label += "班"
	}
	return prefix + region + label
}

func (r *ClassCodeResolver) involvesMorning(combination string) bool {
	if r.earlyMatch == model.EarlyMatchExact {
		return combination == model.ShiftMorning
	}
	return strings.Contains(combination, model.ShiftMorning)
}
