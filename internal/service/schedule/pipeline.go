package schedule

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lilo791027/banbiao-auto2/internal/model"
)

// Input 一次转换的输入；每次运行须使用独立的网格与名册副本
type Input struct {
	Grids  []model.Grid
	Roster *model.Roster
}

// Result 一次转换的输出
type Result struct {
	RunID      string                 `json:"runId"`
	AuxColumns []int                  `json:"auxColumns"` // 班别记录辅助列对应的网格列
	Shifts     []model.ShiftRecord    `json:"shifts"`
	Analysis   []model.AnalysisRecord `json:"analysis"`
	Summary    model.SummaryTable     `json:"summary"`
	Unmatched  []string               `json:"unmatched"` // 名册中找不到的姓名（去重）
	Duration   time.Duration          `json:"duration"`
}

// Pipeline 班表转换流水线：解合并 → 区块抽取 → 汇总 → 代码 → 总表
type Pipeline struct {
	opts      model.RuleOptions
	logger    *zap.Logger
	extractor *Extractor
	resolver  *ClassCodeResolver
	summary   *SummaryBuilder
}

// NewPipeline 创建流水线
func NewPipeline(opts model.RuleOptions, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		opts:      opts,
		logger:    logger,
		extractor: NewExtractor(opts),
		resolver:  NewClassCodeResolver(opts),
		summary:   NewSummaryBuilder(opts),
	}
}

// Options 当前生效的规则
func (p *Pipeline) Options() model.RuleOptions {
	return p.opts
}

// Run 执行转换；空网格或空名册得到空表，不返回错误
func (p *Pipeline) Run(in Input, progress ProgressFunc) *Result {
	start := time.Now()
	result := &Result{
		RunID:      uuid.New().String(),
		AuxColumns: append([]int{}, p.opts.AuxColumns...),
		Shifts:     []model.ShiftRecord{},
		Analysis:   []model.AnalysisRecord{},
		Unmatched:  []string{},
	}
	log := p.logger.With(zap.String("run_id", result.RunID))

	reportProgress(progress, 0, "开始转换", "")

	for i, grid := range in.Grids {
		normalized := Normalize(grid)
		records := p.extractor.Extract(normalized)
		log.Debug("sheet extracted",
			zap.String("sheet", grid.SheetName),
			zap.Int("merges", len(grid.Merges)),
			zap.Int("records", len(records)))
		result.Shifts = append(result.Shifts, records...)
		reportProgress(progress, 10+60*(i+1)/len(in.Grids), "抽取班别区块", grid.SheetName)
	}

	agg := NewAggregator(in.Roster, p.resolver, p.opts)
	result.Analysis = agg.Aggregate(result.Shifts)
	result.Unmatched = agg.UnmatchedNames(result.Shifts)
	if len(result.Unmatched) > 0 {
		log.Warn("names not found in roster",
			zap.Int("count", len(result.Unmatched)),
			zap.Strings("names", result.Unmatched),
			zap.String("policy", string(p.opts.Unmatched)))
	}
	reportProgress(progress, 80, "生成班别分析", "")

	result.Summary = p.summary.Build(result.Analysis)
	reportProgress(progress, 100, "生成班别总表", "")

	result.Duration = time.Since(start)
	log.Info("conversion finished",
		zap.Int("sheets", len(in.Grids)),
		zap.Int("roster", in.Roster.Len()),
		zap.Int("shift_records", len(result.Shifts)),
		zap.Int("analysis_records", len(result.Analysis)),
		zap.Int("summary_rows", len(result.Summary.Rows)),
		zap.Duration("duration", result.Duration))

	return result
}
