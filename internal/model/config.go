package model

// UnmatchedPolicy 名册中找不到员工时的处理方式
type UnmatchedPolicy string

const (
	UnmatchedKeep UnmatchedPolicy = "keep" // 保留，员工字段留空
	UnmatchedDrop UnmatchedPolicy = "drop" // 丢弃
)

// EarlyMatchPolicy 判断班别组合“含早”的方式
type EarlyMatchPolicy string

const (
	EarlyMatchContains EarlyMatchPolicy = "contains" // 组合中含“早”即可
	EarlyMatchExact    EarlyMatchPolicy = "exact"    // 组合必须恰为“早”
)

// AutofillExclusion 自动补位的排除规则
type AutofillExclusion string

const (
	ExcludeByTitle      AutofillExclusion = "title"       // 职称含医师/兼职
	ExcludeByEmployeeID AutofillExclusion = "employee_id" // 无员工编号
	ExcludeTitleOrID    AutofillExclusion = "title_or_id" // 两者任一
)

// DateSpan 总表日期列范围
type DateSpan string

const (
	DateSpanObserved DateSpan = "observed" // 仅出现过的日期
	DateSpanMonth    DateSpan = "month"    // 最早日期所在整月
)

// RuleOptions 班表转换规则
type RuleOptions struct {
	ClinicFallback  string `json:"clinicFallback"` // 诊所名无法读取时的占位
	ClinicNameRunes int    `json:"clinicNameRunes"`

	RegionMarker string `json:"regionMarker"` // 诊所名含该标记则为单店区域
	RegionSingle string `json:"regionSingle"`
	RegionGroup  string `json:"regionGroup"`

	EarlyMatch  EarlyMatchPolicy  `json:"earlyMatch"`
	Unmatched   UnmatchedPolicy   `json:"unmatched"`
	ShiftLabels map[string]string `json:"shiftLabels"`

	Denylist     []string `json:"denylist"`
	MaxNameRunes int      `json:"maxNameRunes"` // 0 表示不限制

	DateSpan              DateSpan          `json:"dateSpan"`
	Autofill              bool              `json:"autofill"`
	AutofillExclusion     AutofillExclusion `json:"autofillExclusion"`
	AutofillPlaceholders  []string          `json:"autofillPlaceholders"`
	ExcludedTitleKeywords []string          `json:"excludedTitleKeywords"`

	AuxColumns []int `json:"auxColumns"` // 随班别记录带出的辅助列（0 起）
}

// DefaultShiftLabels 默认班别组合名称
func DefaultShiftLabels() map[string]string {
	return map[string]string{
		"早":   "早班",
		"午":   "午班",
		"晚":   "晚班",
		"早午":  "早午班",
		"早晚":  "早晚班",
		"午晚":  "午晚班",
		"早午晚": "全天班",
	}
}

// DefaultRuleOptions 默认规则
func DefaultRuleOptions() RuleOptions {
	return RuleOptions{
		ClinicFallback:        "未知診所",
		ClinicNameRunes:       4,
		RegionMarker:          "立丞",
		RegionSingle:          "立丞",
		RegionGroup:           "板土中京",
		EarlyMatch:            EarlyMatchContains,
		Unmatched:             UnmatchedKeep,
		ShiftLabels:           DefaultShiftLabels(),
		Denylist:              []string{"義診", "單診", "盤點", "電打", "None", "nan", ""},
		MaxNameRunes:          4,
		DateSpan:              DateSpanObserved,
		Autofill:              false,
		AutofillExclusion:     ExcludeByTitle,
		AutofillPlaceholders:  []string{"{sta}", "{res}"},
		ExcludedTitleKeywords: []string{"醫師", "兼職"},
		AuxColumns:            []int{0, 20},
	}
}

// ParseUnmatchedPolicy 解析未匹配策略
func ParseUnmatchedPolicy(v string) (UnmatchedPolicy, bool) {
	switch p := UnmatchedPolicy(v); p {
	case UnmatchedKeep, UnmatchedDrop:
		return p, true
	}
	return "", false
}

// ParseEarlyMatchPolicy 解析含早判定策略
func ParseEarlyMatchPolicy(v string) (EarlyMatchPolicy, bool) {
	switch p := EarlyMatchPolicy(v); p {
	case EarlyMatchContains, EarlyMatchExact:
		return p, true
	}
	return "", false
}

// ParseAutofillExclusion 解析补位排除规则
func ParseAutofillExclusion(v string) (AutofillExclusion, bool) {
	switch p := AutofillExclusion(v); p {
	case ExcludeByTitle, ExcludeByEmployeeID, ExcludeTitleOrID:
		return p, true
	}
	return "", false
}

// ParseDateSpan 解析总表日期范围
func ParseDateSpan(v string) (DateSpan, bool) {
	switch p := DateSpan(v); p {
	case DateSpanObserved, DateSpanMonth:
		return p, true
	}
	return "", false
}
