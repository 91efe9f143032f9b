package performance

import (
	"fmt"
	"testing"
	"time"

	"infofix/backend/internal/model"
)

// ── 测试辅助 ──

func attendance(id, techID string, d time.Time, days float64) AttendanceRecord {
	return AttendanceRecord{Envelope: Envelope{ID: id, TechID: techID, Date: d}, Days: days}
}

func merit(id, techID string, d time.Time, delta int, reason string) MeritRecord {
	return MeritRecord{Envelope: Envelope{ID: id, TechID: techID, Date: d}, Delta: delta, Reason: reason}
}

func report(id, techName string, techID *string, d time.Time, progress float64) model.DeviceReport {
	return model.DeviceReport{
		ID:           id,
		ReportDate:   d,
		DeviceInfo:   model.DeviceInfo{TechnicianName: techName},
		TechnicianID: techID,
		Progress:     progress,
	}
}

func task(id, assignee, status string, d time.Time) model.Task {
	return model.Task{ID: id, Title: "任务 " + id, TaskDate: d, AssignedToID: assignee, Status: status}
}

// marchSources 2025 年 3 月的完整样例数据
func marchSources(techID, techName string) Sources {
	var src Sources
	for i := 1; i <= 20; i++ {
		src.Records = append(src.Records, attendance(fmt.Sprintf("a%d", i), techID, date(2025, time.March, i), 1))
	}
	src.Records = append(src.Records, merit("m1", techID, date(2025, time.March, 14), 4, "excellent escalation handling"))
	src.Reports = []model.DeviceReport{
		report("r1", techName, nil, date(2025, time.March, 3), 50),
		report("r2", techName, nil, date(2025, time.March, 9), 80),
		report("r3", techName, nil, date(2025, time.March, 21), 100),
	}
	src.Tasks = []model.Task{
		task("k1", techID, model.TaskCompleted, date(2025, time.March, 5)),
		task("k2", techID, model.TaskCompleted, date(2025, time.March, 28)),
	}
	return src
}

// ── Collect ──

func TestCollect_FiltersByTechWindowAndQuality(t *testing.T) {
	tech := model.Staff{ID: "t1", Name: "Ravi Kumar"}
	other := "t2"
	src := Sources{
		Records: []Record{
			attendance("a1", "t1", date(2025, time.March, 1), 1),
			attendance("a2", "t1", date(2025, time.April, 1), 1),
			attendance("a3", "t2", date(2025, time.March, 1), 1),
			merit("m1", "t1", date(2025, time.March, 2), -2, "迟到"),
		},
		Reports: []model.DeviceReport{
			report("r1", "  RAVI kumar ", nil, date(2025, time.March, 3), 50),
			report("r2", "Ravi Kumar", nil, date(2025, time.March, 3), 49.9),
			report("r3", "Ravi Kumar", &other, date(2025, time.March, 3), 90),
			report("r4", "someone", &tech.ID, date(2025, time.March, 3), 90),
			report("r5", "Ravi Kumar", nil, date(2024, time.March, 3), 90),
			report("r6", "Ravi Kumer", nil, date(2025, time.March, 4), 90),
		},
		Tasks: []model.Task{
			task("k1", "t1", model.TaskCompleted, date(2025, time.March, 5)),
			task("k2", "t1", model.TaskInProgress, date(2025, time.March, 5)),
			task("k3", "t2", model.TaskCompleted, date(2025, time.March, 5)),
		},
	}

	sig := Collect(tech, NewWindow(date(2025, time.March, 20), GranularityMonth), src)
	if len(sig.Attendance) != 1 || sig.Attendance[0].ID != "a1" {
		t.Errorf("期望仅 a1 计入出勤，实际 %+v", sig.Attendance)
	}
	if len(sig.Merits) != 1 {
		t.Errorf("期望 1 条奖惩，实际 %d", len(sig.Merits))
	}
	if len(sig.FixedUnits) != 2 {
		t.Fatalf("期望 2 份合格报告（r1 按姓名、r4 按 id），实际 %d", len(sig.FixedUnits))
	}
	if sig.FixedUnits[0].ID != "r1" || sig.FixedUnits[1].ID != "r4" {
		t.Errorf("合格报告错误: %s %s", sig.FixedUnits[0].ID, sig.FixedUnits[1].ID)
	}
	if len(sig.DeadlineTasks) != 1 || sig.DeadlineTasks[0].ID != "k1" {
		t.Errorf("期望仅 k1 计入任务，实际 %+v", sig.DeadlineTasks)
	}
}

func TestCollect_NameJoinRequiresExactNormalizedName(t *testing.T) {
	tech := model.Staff{ID: "t1", Name: "John Smith"}
	src := Sources{Reports: []model.DeviceReport{
		report("r1", "John Smyth", nil, date(2025, time.March, 3), 100),
		report("r2", "JohnSmith", nil, date(2025, time.March, 3), 100),
		report("r3", "John Smith Jr", nil, date(2025, time.March, 3), 100),
		report("r4", " john SMITH\t", nil, date(2025, time.March, 3), 100),
	}}

	sig := Collect(tech, NewWindow(date(2025, time.March, 3), GranularityDay), src)
	if len(sig.FixedUnits) != 1 || sig.FixedUnits[0].ID != "r4" {
		t.Errorf("仅规范化后完全一致的姓名应匹配，实际 %+v", sig.FixedUnits)
	}
	if b := Aggregate(sig); b.QCPoints != 1 {
		t.Errorf("期望质检 1 分，实际 %v", b.QCPoints)
	}
}

func TestCollect_EmptyNameNeverMatches(t *testing.T) {
	src := Sources{Reports: []model.DeviceReport{report("r1", "", nil, date(2025, time.March, 3), 100)}}
	sig := Collect(model.Staff{ID: "t1", Name: "  "}, NewWindow(date(2025, time.March, 3), GranularityDay), src)
	if len(sig.FixedUnits) != 0 {
		t.Errorf("空姓名不应匹配任何报告，实际 %d", len(sig.FixedUnits))
	}
}

func TestCollect_NoDataYieldsZeroScore(t *testing.T) {
	sig := Collect(model.Staff{ID: "t9", Name: "Nobody"}, NewWindow(date(2025, time.March, 3), GranularityYear), marchSources("t1", "Ravi"))
	if sig.Attendance == nil || sig.FixedUnits == nil {
		t.Error("信号集合应为空切片而非 nil")
	}
	b := Aggregate(sig)
	if b.Score != 0 {
		t.Errorf("期望 0 分，实际 %v", b.Score)
	}
	if tier := Classify(b.Score); tier.Name != "Entry" {
		t.Errorf("期望 Entry，实际 %s", tier.Name)
	}
}

func TestCollect_IsPure(t *testing.T) {
	src := marchSources("t1", "Ravi")
	tech := model.Staff{ID: "t1", Name: "Ravi"}
	w := NewWindow(date(2025, time.March, 14), GranularityMonth)
	first := Aggregate(Collect(tech, w, src))
	second := Aggregate(Collect(tech, w, src))
	if first != second {
		t.Errorf("相同输入应得到相同结果: %+v vs %+v", first, second)
	}
	if len(src.Records) != 21 {
		t.Errorf("Collect 不应修改源集合，实际 %d", len(src.Records))
	}
}

// ── Aggregate ──

func TestAggregate_RoundsToOneDecimal(t *testing.T) {
	sig := Signals{Attendance: []AttendanceRecord{
		attendance("a1", "t1", date(2025, time.March, 1), 0.5),
		attendance("a2", "t1", date(2025, time.March, 2), 0.5),
		attendance("a3", "t1", date(2025, time.March, 3), 0.5),
	}}
	if b := Aggregate(sig); b.AttendancePoints != 1.5 || b.Score != 1.5 {
		t.Errorf("期望 1.5，实际 %+v", b)
	}
}

func TestAggregate_NegativeBonusNotClamped(t *testing.T) {
	sig := Signals{
		Attendance: []AttendanceRecord{attendance("a1", "t1", date(2025, time.March, 1), 1)},
		Merits:     []MeritRecord{merit("m1", "t1", date(2025, time.March, 1), -6, "违规")},
	}
	b := Aggregate(sig)
	if b.Score != -5 || b.BonusPoints != -6 {
		t.Errorf("期望 -5 分，实际 %+v", b)
	}
	if Classify(b.Score).Name != "Entry" {
		t.Errorf("负分期望 Entry，实际 %s", Classify(b.Score).Name)
	}
}

func TestAggregate_YearEqualsSumOfMonths(t *testing.T) {
	tech := model.Staff{ID: "t1", Name: "Ravi"}
	src := marchSources("t1", "Ravi")
	src.Records = append(src.Records,
		attendance("x1", "t1", date(2025, time.July, 4), 0.5),
		merit("x2", "t1", date(2025, time.November, 30), -1, "投诉"),
	)
	src.Tasks = append(src.Tasks, task("x3", "t1", model.TaskCompleted, date(2025, time.December, 31)))

	year := Aggregate(Collect(tech, NewWindow(date(2025, time.June, 1), GranularityYear), src)).Score
	var months float64
	for m := time.January; m <= time.December; m++ {
		months += Aggregate(Collect(tech, NewWindow(date(2025, m, 1), GranularityMonth), src)).Score
	}
	if year != months {
		t.Errorf("年度分 %v 应等于各月之和 %v", year, months)
	}
}

// ── Classify ──

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{70, "Diamond"},
		{69.9, "Achiever"},
		{60, "Achiever"},
		{59.9, "Expert"},
		{50, "Expert"},
		{40, "Core"},
		{39.9, "Moderate"},
		{30, "Moderate"},
		{20, "Developing"},
		{19.9, "Entry"},
		{0, "Entry"},
		{-5, "Entry"},
		{250, "Diamond"},
	}
	for _, tt := range tests {
		if got := Classify(tt.score); got.Name != tt.want {
			t.Errorf("Classify(%v) = %s，期望 %s", tt.score, got.Name, tt.want)
		}
	}
}

func TestClassify_Monotonic(t *testing.T) {
	prev := Classify(-50)
	for s := -50.0; s <= 100; s += 0.1 {
		cur := Classify(s)
		if cur.Rank < prev.Rank {
			t.Fatalf("score=%.1f 等级 %s 低于前一分数的 %s", s, cur.Name, prev.Name)
		}
		prev = cur
	}
}

func TestTiers_OrderedDescending(t *testing.T) {
	all := Tiers()
	if len(all) != 7 || all[0].Name != "Diamond" || all[6].Name != "Entry" {
		t.Fatalf("等级列表错误: %+v", all)
	}
	if _, ok := all[6].Threshold(); ok {
		t.Error("Entry 不应有下限")
	}
	if min, ok := all[0].Threshold(); !ok || min != 70 {
		t.Errorf("Diamond 下限应为 70，实际 %v", min)
	}
}

// ── 端到端 ──

func TestScorecard_MarchScenario(t *testing.T) {
	tech := model.Staff{ID: "t1", Name: "Ravi"}
	src := marchSources("t1", "Ravi")

	for _, ref := range []time.Time{date(2025, time.March, 1), date(2025, time.March, 31)} {
		b := Aggregate(Collect(tech, NewWindow(ref, GranularityMonth), src))
		if b.AttendancePoints != 20 || b.QCPoints != 3 || b.TaskPoints != 2 || b.BonusPoints != 4 {
			t.Fatalf("得分构成错误: %+v", b)
		}
		if b.Score != 29.0 {
			t.Errorf("期望 29.0，实际 %v", b.Score)
		}
		// 以阈值表为准：29 >= 20 落在 Developing 档，而非 Entry
		if tier := Classify(b.Score); tier.Name != "Developing" {
			t.Errorf("期望 Developing，实际 %s", tier.Name)
		}
	}

	src.Records = append(src.Records, merit("m2", "t1", date(2025, time.March, 15), 2, "加班"))
	b := Aggregate(Collect(tech, NewWindow(date(2025, time.March, 10), GranularityMonth), src))
	if b.Score != 31.0 || Classify(b.Score).Name != "Moderate" {
		t.Errorf("期望 31.0 / Moderate，实际 %v / %s", b.Score, Classify(b.Score).Name)
	}
}
