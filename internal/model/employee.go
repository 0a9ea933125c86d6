package model

import (
	"strings"
	"unicode"
)

// EmployeeCategory 员工类别
type EmployeeCategory string

const (
	CategoryDoctor     EmployeeCategory = "doctor"
	CategorySupervisor EmployeeCategory = "supervisor"
	CategoryStaff      EmployeeCategory = "staff"
	CategoryOther      EmployeeCategory = "other"
)

// Prefix 班别代码中的类别前缀
func (c EmployeeCategory) Prefix() string {
	switch c {
	case CategoryDoctor:
		return "★醫師★"
	case CategorySupervisor:
		return "◇主管◇"
	case CategoryStaff:
		return "【員工】"
	default:
		return ""
	}
}

// EmployeeRecord 员工明细
type EmployeeRecord struct {
	Name         string           `json:"name"`
	ID           string           `json:"id"`
	Department   string           `json:"department"`
	Title        string           `json:"title"`
	Category     EmployeeCategory `json:"category"`
	EarlySpecial bool             `json:"earlySpecial"` // 纯早班特权
}

// Roster 员工名册，按规范化姓名索引，构造后只读
type Roster struct {
	byName map[string]EmployeeRecord
	size   int
}

// NewRoster 由员工列表构建名册；同名时后出现的记录覆盖先出现的
func NewRoster(records []EmployeeRecord) *Roster {
	r := &Roster{byName: make(map[string]EmployeeRecord, len(records))}
	for _, rec := range records {
		key := NormalizeName(rec.Name)
		if key == "" {
			continue
		}
		r.byName[key] = rec
	}
	r.size = len(r.byName)
	return r
}

// Lookup 按姓名查找员工（两侧使用同一规范化规则）
func (r *Roster) Lookup(name string) (EmployeeRecord, bool) {
	if r == nil {
		return EmployeeRecord{}, false
	}
	rec, ok := r.byName[NormalizeName(name)]
	return rec, ok
}

// Len 名册人数
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return r.size
}

// NormalizeName 去除姓名中所有空白字符（含全角空格）
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
