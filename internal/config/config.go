package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// 环境变量
const (
	EnvPort            = "BANBIAO_PORT"
	EnvUnmatchedPolicy = "BANBIAO_UNMATCHED_POLICY"
)

// FileName 默认配置文件名
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Rules   RulesConfig   `toml:"rules"`
	Summary SummaryConfig `toml:"summary"`
	Roster  RosterConfig  `toml:"roster"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int   `toml:"port"`
	DevMode     bool  `toml:"dev_mode"`
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// RulesConfig 班别抽取与代码规则
type RulesConfig struct {
	ClinicFallback  string            `toml:"clinic_fallback"`
	ClinicNameRunes int               `toml:"clinic_name_runes"`
	RegionMarker    string            `toml:"region_marker"`
	RegionSingle    string            `toml:"region_single"`
	RegionGroup     string            `toml:"region_group"`
	EarlyMatch      string            `toml:"early_match"`
	Unmatched       string            `toml:"unmatched"`
	Denylist        []string          `toml:"denylist"`
	MaxNameRunes    int               `toml:"max_name_runes"`
	ShiftLabels     map[string]string `toml:"shift_labels"`
	AuxColumns      []int             `toml:"aux_columns"` // 随记录输出的辅助列（0 起，0 为 A 列）
}

// SummaryConfig 总表配置
type SummaryConfig struct {
	DateSpan              string   `toml:"date_span"`
	Autofill              bool     `toml:"autofill"`
	AutofillExclusion     string   `toml:"autofill_exclusion"`
	AutofillPlaceholders  []string `toml:"autofill_placeholders"`
	ExcludedTitleKeywords []string `toml:"excluded_title_keywords"`
}

// RosterConfig 员工明细读取配置
type RosterConfig struct {
	Encoding string `toml:"encoding"` // auto / utf-8 / big5
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	rules := model.DefaultRuleOptions()
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			MaxUploadMB: 32,
		},
		Rules: RulesConfig{
			ClinicFallback:  rules.ClinicFallback,
			ClinicNameRunes: rules.ClinicNameRunes,
			RegionMarker:    rules.RegionMarker,
			RegionSingle:    rules.RegionSingle,
			RegionGroup:     rules.RegionGroup,
			EarlyMatch:      string(rules.EarlyMatch),
			Unmatched:       string(rules.Unmatched),
			Denylist:        rules.Denylist,
			MaxNameRunes:    rules.MaxNameRunes,
			ShiftLabels:     rules.ShiftLabels,
			AuxColumns:      rules.AuxColumns,
		},
		Summary: SummaryConfig{
			DateSpan:              string(rules.DateSpan),
			Autofill:              rules.Autofill,
			AutofillExclusion:     string(rules.AutofillExclusion),
			AutofillPlaceholders:  rules.AutofillPlaceholders,
			ExcludedTitleKeywords: rules.ExcludedTitleKeywords,
		},
		Roster: RosterConfig{
			Encoding: "auto",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 可执行文件同目录下的 config.toml
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(DefaultPath())
}

// LoadConfigFrom 从指定路径加载配置，文件不存在时使用默认配置
func LoadConfigFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 环境变量覆盖
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, info, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv(EnvUnmatchedPolicy); v != "" {
		config.Rules.Unmatched = v
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate 校验策略取值
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if _, ok := model.ParseEarlyMatchPolicy(c.Rules.EarlyMatch); !ok {
		return fmt.Errorf("invalid rules.early_match: %q", c.Rules.EarlyMatch)
	}
	if _, ok := model.ParseUnmatchedPolicy(c.Rules.Unmatched); !ok {
		return fmt.Errorf("invalid rules.unmatched: %q", c.Rules.Unmatched)
	}
	if c.Rules.MaxNameRunes < 0 {
		return fmt.Errorf("invalid rules.max_name_runes: %d", c.Rules.MaxNameRunes)
	}
	for _, col := range c.Rules.AuxColumns {
		if col < 0 {
			return fmt.Errorf("invalid rules.aux_columns: %d", col)
		}
	}
	if _, ok := model.ParseDateSpan(c.Summary.DateSpan); !ok {
		return fmt.Errorf("invalid summary.date_span: %q", c.Summary.DateSpan)
	}
	if _, ok := model.ParseAutofillExclusion(c.Summary.AutofillExclusion); !ok {
		return fmt.Errorf("invalid summary.autofill_exclusion: %q", c.Summary.AutofillExclusion)
	}
	return nil
}

// RuleOptions 转换为流水线使用的规则
func (c *AppConfig) RuleOptions() model.RuleOptions {
	opts := model.DefaultRuleOptions()

	opts.ClinicFallback = c.Rules.ClinicFallback
	if c.Rules.ClinicNameRunes > 0 {
		opts.ClinicNameRunes = c.Rules.ClinicNameRunes
	}
	opts.RegionMarker = c.Rules.RegionMarker
	opts.RegionSingle = c.Rules.RegionSingle
	opts.RegionGroup = c.Rules.RegionGroup
	opts.EarlyMatch, _ = model.ParseEarlyMatchPolicy(c.Rules.EarlyMatch)
	opts.Unmatched, _ = model.ParseUnmatchedPolicy(c.Rules.Unmatched)
	opts.Denylist = append([]string{}, c.Rules.Denylist...)
	opts.MaxNameRunes = c.Rules.MaxNameRunes

	labels := model.DefaultShiftLabels()
	for k, v := range c.Rules.ShiftLabels {
		labels[k] = v
	}
	opts.ShiftLabels = labels
	if c.Rules.AuxColumns != nil {
		opts.AuxColumns = append([]int{}, c.Rules.AuxColumns...)
	}

	opts.DateSpan, _ = model.ParseDateSpan(c.Summary.DateSpan)
	opts.Autofill = c.Summary.Autofill
	opts.AutofillExclusion, _ = model.ParseAutofillExclusion(c.Summary.AutofillExclusion)
	if len(c.Summary.AutofillPlaceholders) > 0 {
		opts.AutofillPlaceholders = append([]string{}, c.Summary.AutofillPlaceholders...)
	}
	opts.ExcludedTitleKeywords = append([]string{}, c.Summary.ExcludedTitleKeywords...)

	return opts
}
