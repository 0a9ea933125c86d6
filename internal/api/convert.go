package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilo791027/banbiao-auto2/internal/model"
	"github.com/lilo791027/banbiao-auto2/internal/service/excel"
	"github.com/lilo791027/banbiao-auto2/internal/service/schedule"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// errBadRequest 请求参数错误
var errBadRequest = errors.New("bad request")

// AnalyzeResponse 转换结果
type AnalyzeResponse struct {
	RunID      string        `json:"runId"`
	Counts     AnalyzeCounts `json:"counts"`
	Tables     []excel.Table `json:"tables"`
	Unmatched  []string      `json:"unmatched"`
	DurationMs int64         `json:"durationMs"`
}

// AnalyzeCounts 各表行数
type AnalyzeCounts struct {
	Sheets      int `json:"sheets"`
	Roster      int `json:"roster"`
	Shifts      int `json:"shifts"`
	Analysis    int `json:"analysis"`
	SummaryRows int `json:"summaryRows"`
	Unmatched   int `json:"unmatched"`
}

// RecognizeSheets 识别上传工作簿中每个工作表的类型
// POST /api/sheets
func (h *Handler) RecognizeSheets(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer src.Close()

	p := excel.NewParser()
	if err := p.LoadFile(src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法解析工作簿: " + err.Error()})
		return
	}
	defer p.Close()

	sheets, err := p.RecognizeSheets()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fileId": p.GetFileID(), "sheets": sheets})
}

// Analyze 转换班表并以 JSON 返回三张表
// POST /api/analyze
func (h *Handler) Analyze(c *gin.Context) {
	result, sheets, rosterSize, err := h.run(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		RunID: result.RunID,
		Counts: AnalyzeCounts{
			Sheets:      sheets,
			Roster:      rosterSize,
			Shifts:      len(result.Shifts),
			Analysis:    len(result.Analysis),
			SummaryRows: len(result.Summary.Rows),
			Unmatched:   len(result.Unmatched),
		},
		Tables:     excel.Tables(result),
		Unmatched:  result.Unmatched,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// Convert 转换班表并返回结果工作簿
// POST /api/convert
func (h *Handler) Convert(c *gin.Context) {
	result, _, _, err := h.run(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	file, err := excel.NewExporter().Export(result)
	if err != nil {
		h.logger.Error("export failed", zap.String("run_id", result.RunID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		h.logger.Error("write workbook failed", zap.String("run_id", result.RunID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入文件失败"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(exportMonth(result)))
	c.Header("X-Run-Id", result.RunID)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// run 读取上传文件与覆盖参数，执行一次转换
func (h *Handler) run(c *gin.Context) (*schedule.Result, int, int, error) {
	if limit := h.cfg.Server.MaxUploadMB; limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit<<20)
	}

	opts, err := h.ruleOptions(c)
	if err != nil {
		return nil, 0, 0, err
	}

	shiftFile, err := c.FormFile("shift")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: 未找到班表文件 shift", errBadRequest)
	}
	rosterFile, err := c.FormFile("roster")
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: 未找到员工明细文件 roster", errBadRequest)
	}

	grids, err := openAndLoad(shiftFile, func(r io.Reader) ([]model.Grid, error) {
		return excel.LoadShiftGrids(r, shiftFile.Filename)
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: 班表读取失败: %v", errBadRequest, err)
	}

	encoding := c.DefaultPostForm("encoding", h.cfg.Roster.Encoding)
	roster, err := openAndLoad(rosterFile, func(r io.Reader) (*model.Roster, error) {
		return excel.LoadRoster(r, rosterFile.Filename, encoding)
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: 员工明细读取失败: %v", errBadRequest, err)
	}

	pipeline := schedule.NewPipeline(opts, h.logger)
	result := pipeline.Run(schedule.Input{Grids: grids, Roster: roster}, func(e schedule.ProgressEvent) {
		h.logger.Debug("progress", zap.Int("percent", e.Percent), zap.String("stage", e.Stage), zap.String("sheet", e.Sheet))
	})
	return result, len(grids), roster.Len(), nil
}

// ruleOptions 在配置规则上应用表单覆盖项 unmatched / autofill / dateSpan
func (h *Handler) ruleOptions(c *gin.Context) (model.RuleOptions, error) {
	opts := h.cfg.RuleOptions()

	if v := c.PostForm("unmatched"); v != "" {
		p, ok := model.ParseUnmatchedPolicy(v)
		if !ok {
			return opts, fmt.Errorf("%w: 无效的 unmatched: %s", errBadRequest, v)
		}
		opts.Unmatched = p
	}
	if v := c.PostForm("autofill"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: 无效的 autofill: %s", errBadRequest, v)
		}
		opts.Autofill = b
	}
	if v := c.PostForm("dateSpan"); v != "" {
		span, ok := model.ParseDateSpan(v)
		if !ok {
			return opts, fmt.Errorf("%w: 无效的 dateSpan: %s", errBadRequest, v)
		}
		opts.DateSpan = span
	}
	return opts, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, errBadRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("conversion failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func openAndLoad[T any](file *multipart.FileHeader, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	src, err := file.Open()
	if err != nil {
		return zero, err
	}
	defer src.Close()
	return load(src)
}

// exportMonth 结果中最早日期所在月份，无记录时取当前月份
func exportMonth(result *schedule.Result) (int, int) {
	if len(result.Summary.Dates) > 0 {
		d := result.Summary.Dates[0]
		return d.Year(), int(d.Month())
	}
	now := time.Now()
	return now.Year(), int(now.Month())
}

func buildExportContentDisposition(year, month int) string {
	ascii := fmt.Sprintf("shift-matrix-%d-%02d.xlsx", year, month)
	utf8Name := fmt.Sprintf("%d年%02d月班別總表.xlsx", year, month)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", ascii, url.PathEscape(utf8Name))
}
