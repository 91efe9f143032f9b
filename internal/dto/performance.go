package dto

// ── 绩效模块 DTO ──

// WindowQuery 统计窗口查询参数；date 为空取当天，granularity 为空取 month
type WindowQuery struct {
	Date        string `form:"date"        binding:"omitempty,datetime=2006-01-02"`
	Granularity string `form:"granularity" binding:"omitempty,oneof=day month year"`
}

// NavigateQuery 窗口导航参数，step ∈ {-1, 0, 1}
type NavigateQuery struct {
	WindowQuery
	Step int `form:"step" binding:"omitempty,oneof=-1 0 1"`
}

// ── 响应 ──

// WindowResponse 统计窗口
type WindowResponse struct {
	ReferenceDate string `json:"reference_date"`
	Granularity   string `json:"granularity"`
	Label         string `json:"label"`
	Start         string `json:"start"`
	End           string `json:"end"`
}

// PaletteResponse 等级配色
type PaletteResponse struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Border     string `json:"border"`
}

// TierResponse 绩效等级
type TierResponse struct {
	Name    string          `json:"name"`
	Rank    int             `json:"rank"`
	Label   string          `json:"label"`
	Icon    string          `json:"icon"`
	Palette PaletteResponse `json:"palette"`
}

// BreakdownResponse 得分构成
type BreakdownResponse struct {
	AttendancePoints float64 `json:"attendance_points"`
	BonusPoints      float64 `json:"bonus_points"`
	QCPoints         int     `json:"qc_points"`
	TaskPoints       int     `json:"task_points"`
}

// SignalCounts 各类信号条数
type SignalCounts struct {
	AttendanceRecords int `json:"attendance_records"`
	MeritRecords      int `json:"merit_records"`
	FixedUnits        int `json:"fixed_units"`
	DeadlineTasks     int `json:"deadline_tasks"`
}

// ScorecardResponse 单个员工的绩效卡
type ScorecardResponse struct {
	Staff     StaffResponse        `json:"staff"`
	Window    WindowResponse       `json:"window"`
	Score     float64              `json:"score"`
	Tier      TierResponse         `json:"tier"`
	Breakdown BreakdownResponse    `json:"breakdown"`
	Signals   SignalCounts         `json:"signals"`
	Merits    []DutyRecordResponse `json:"merits"`
}

// LeaderboardResponse 排行榜（按得分降序）
type LeaderboardResponse struct {
	Window     WindowResponse      `json:"window"`
	Scorecards []ScorecardResponse `json:"scorecards"`
}
