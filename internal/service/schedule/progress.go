package schedule

// ProgressEvent 转换进度事件（CLI 与接口写入调试日志）
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
	Sheet   string `json:"sheet,omitempty"`
}

// ProgressFunc 进度回调，可为 nil
type ProgressFunc func(ProgressEvent)

func reportProgress(progress ProgressFunc, percent int, stage, sheet string) {
	if progress == nil {
		return
	}
	percent = min(max(percent, 0), 100)
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
		Sheet:   sheet,
	})
}
