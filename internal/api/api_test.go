package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lilo791027/banbiao-auto2/internal/config"
	"github.com/lilo791027/banbiao-auto2/internal/service/excel"
)

const testRosterCSV = "員工編號,姓名,部門,職稱\nE001,王小明,護理部,護理師\n"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(config.DefaultConfig(), zap.NewNop(), "test").RegisterRoutes(router.Group("/api"))
	return router
}

func shiftWorkbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"立丞中和診所", "2025/10/01"},
		{"", "三"},
		{"", ""},
		{"", "早"},
		{"組長", "王小明"},
		{"", "路人甲"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := row
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest 构造上传请求；files 为 字段名 -> (文件名, 内容)
func multipartRequest(t *testing.T, path string, files map[string][2]string, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for field, f := range files {
		part, err := w.CreateFormFile(field, f[0])
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write([]byte(f[1])); err != nil {
			t.Fatalf("write part failed: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func conversionFiles(t *testing.T) map[string][2]string {
	return map[string][2]string{
		"shift":  {"schedule.xlsx", string(shiftWorkbookBytes(t))},
		"roster": {"roster.csv", testRosterCSV},
	}
}

func TestBuildExportContentDisposition(t *testing.T) {
	t.Parallel()

	got := buildExportContentDisposition(2025, 10)
	want := "attachment; filename=\"shift-matrix-2025-10.xlsx\"; filename*=UTF-8''2025%E5%B9%B410%E6%9C%88%E7%8F%AD%E5%88%A5%E7%B8%BD%E8%A1%A8.xlsx"
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestGetStatusAndConfig(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status code=%d", rec.Code)
	}
	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status failed: %v", err)
	}
	if !status.Ready || status.Version != "test" {
		t.Fatalf("status=%+v", status)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	var cfg ConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	if cfg.Rules.Unmatched != "keep" || cfg.RosterEncoding != "auto" {
		t.Fatalf("config=%+v", cfg)
	}
}

func TestAnalyze(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/analyze", conversionFiles(t), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze code=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analyze failed: %v", err)
	}
	if resp.RunID == "" {
		t.Fatalf("runId should be set")
	}
	wantCounts := AnalyzeCounts{Sheets: 1, Roster: 1, Shifts: 2, Analysis: 2, SummaryRows: 2, Unmatched: 1}
	if diff := cmp.Diff(wantCounts, resp.Counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Tables) != 3 || resp.Tables[1].Sheet != excel.SheetAnalysis {
		t.Fatalf("tables=%+v", resp.Tables)
	}
	wantAnalysis := [][]string{
		{"立丞中和", "E001", "護理部", "王小明", "護理師", "2025/10/01", "早", "組長", "【員工】早班"},
		{"立丞中和", "", "", "路人甲", "", "2025/10/01", "早", "", ""},
	}
	if diff := cmp.Diff(wantAnalysis, resp.Tables[1].Rows); diff != "" {
		t.Fatalf("analysis mismatch (-want +got):\n%s", diff)
	}
	if got := resp.Tables[0].Rows[0]; len(got) != 6 || got[4] != "組長" {
		t.Fatalf("班別資料 first row=%v, want 組長 in A欄資料", got)
	}
}

func TestAnalyze_EmptyRosterKeepsEveryone(t *testing.T) {
	router := newTestRouter(t)

	files := map[string][2]string{
		"shift":  {"schedule.xlsx", string(shiftWorkbookBytes(t))},
		"roster": {"roster.csv", ""},
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/analyze", files, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze code=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analyze failed: %v", err)
	}
	if resp.Counts.Roster != 0 || resp.Counts.Analysis != 2 || resp.Counts.Unmatched != 2 {
		t.Fatalf("counts=%+v, want 2 unmatched analysis rows", resp.Counts)
	}
}

func TestAnalyze_FormOverrides(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/analyze", conversionFiles(t), map[string]string{
		"unmatched": "drop",
		"dateSpan":  "month",
		"autofill":  "false",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze code=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode analyze failed: %v", err)
	}
	if resp.Counts.Analysis != 1 || resp.Counts.Unmatched != 1 {
		t.Fatalf("counts=%+v, want 1 analysis row and 1 unmatched name", resp.Counts)
	}
	// 十月共 31 天
	if got := len(resp.Tables[2].Headers); got != 2+31 {
		t.Fatalf("summary headers=%d, want 33", got)
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		files  map[string][2]string
		fields map[string]string
	}{
		{"missing roster", map[string][2]string{"shift": {"s.xlsx", string(shiftWorkbookBytes(t))}}, nil},
		{"broken shift", map[string][2]string{"shift": {"s.xlsx", "nope"}, "roster": {"r.csv", testRosterCSV}}, nil},
		{"invalid policy", conversionFiles(t), map[string]string{"unmatched": "ignore"}},
		{"invalid autofill", conversionFiles(t), map[string]string{"autofill": "maybe"}},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, multipartRequest(t, "/api/analyze", tc.files, tc.fields))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: code=%d, want 400", tc.name, rec.Code)
		}
	}
}

func TestConvert_ReturnsWorkbook(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/convert", conversionFiles(t), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("convert code=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("content-type=%q", got)
	}
	if got, want := rec.Header().Get("Content-Disposition"), buildExportContentDisposition(2025, 10); got != want {
		t.Fatalf("content-disposition=%q, want %q", got, want)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(excel.SheetSummary)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 || rows[1][1] != "王小明" || rows[1][2] != "【員工】早班" {
		t.Fatalf("summary rows=%v", rows)
	}
}

func TestRecognizeSheets(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	files := map[string][2]string{"file": {"schedule.xlsx", string(shiftWorkbookBytes(t))}}
	router.ServeHTTP(rec, multipartRequest(t, "/api/sheets", files, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("sheets code=%d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		FileID string `json:"fileId"`
		Sheets []struct {
			SheetName string `json:"sheetName"`
			Type      string `json:"type"`
		} `json:"sheets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode sheets failed: %v", err)
	}
	if resp.FileID == "" || len(resp.Sheets) != 1 || resp.Sheets[0].Type != "shift_grid" {
		t.Fatalf("sheets=%+v", resp)
	}
}
