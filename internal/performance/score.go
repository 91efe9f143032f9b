package performance

import "github.com/shopspring/decimal"

// Breakdown 四类信号的得分构成
type Breakdown struct {
	AttendancePoints float64 `json:"attendance_points"`
	BonusPoints      float64 `json:"bonus_points"` // 可为负
	QCPoints         int     `json:"qc_points"`
	TaskPoints       int     `json:"task_points"`
	Score            float64 `json:"score"` // 保留一位小数，不设下限
}

// Aggregate 汇总信号得分
//
//	score = round1(Σ出勤天数 + 质检报告数 + 完成任务数 + Σ奖惩分)
//
// 每份合格报告、每个完成任务各计 1 分，无其他权重。
func Aggregate(sig Signals) Breakdown {
	attendance := decimal.Zero
	for _, r := range sig.Attendance {
		attendance = attendance.Add(decimal.NewFromFloat(r.Days))
	}

	bonus := decimal.Zero
	for _, r := range sig.Merits {
		bonus = bonus.Add(decimal.NewFromInt(int64(r.Delta)))
	}

	qc := len(sig.FixedUnits)
	tasks := len(sig.DeadlineTasks)

	total := attendance.
		Add(decimal.NewFromInt(int64(qc))).
		Add(decimal.NewFromInt(int64(tasks))).
		Add(bonus)

	return Breakdown{
		AttendancePoints: attendance.InexactFloat64(),
		BonusPoints:      bonus.InexactFloat64(),
		QCPoints:         qc,
		TaskPoints:       tasks,
		Score:            total.Round(1).InexactFloat64(),
	}
}
