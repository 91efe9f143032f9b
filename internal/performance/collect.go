package performance

import "infofix/backend/internal/model"

// Sources 评分所需的全部源集合（登记册快照）
type Sources struct {
	Records []Record
	Reports []model.DeviceReport
	Tasks   []model.Task
}

// Signals 某员工在某窗口内的四类信号
type Signals struct {
	Attendance    []AttendanceRecord   `json:"attendance"`
	Merits        []MeritRecord        `json:"merits"`
	FixedUnits    []model.DeviceReport `json:"fixed_units"`
	DeadlineTasks []model.Task         `json:"deadline_tasks"`
}

// Collect 为员工 tech 在窗口 w 内筛选四类信号，每次都从源集合全量重算
func Collect(tech model.Staff, w Window, src Sources) Signals {
	sig := Signals{
		Attendance:    []AttendanceRecord{},
		Merits:        []MeritRecord{},
		FixedUnits:    []model.DeviceReport{},
		DeadlineTasks: []model.Task{},
	}

	for _, rec := range src.Records {
		h := rec.Header()
		if h.TechID != tech.ID || !w.Contains(h.Date) {
			continue
		}
		switch r := rec.(type) {
		case AttendanceRecord:
			sig.Attendance = append(sig.Attendance, r)
		case MeritRecord:
			sig.Merits = append(sig.Merits, r)
		}
	}

	techName := normalizeName(tech.Name)
	for _, rep := range src.Reports {
		if !reportBelongsTo(rep, tech.ID, techName) {
			continue
		}
		if !w.Contains(rep.ReportDate) || !rep.QualityPassed() {
			continue
		}
		sig.FixedUnits = append(sig.FixedUnits, rep)
	}

	for _, task := range src.Tasks {
		if task.AssignedToID != tech.ID || task.Status != model.TaskCompleted {
			continue
		}
		if !w.Contains(task.TaskDate) {
			continue
		}
		sig.DeadlineTasks = append(sig.DeadlineTasks, task)
	}

	return sig
}

// reportBelongsTo 报告归属判断
// 报告带 technician_id 时按 id 关联；历史报告没有 id，按归一化后的技师姓名关联，
// 同名技师会被合并计分。
func reportBelongsTo(rep model.DeviceReport, techID, normalizedName string) bool {
	if rep.TechnicianID != nil && *rep.TechnicianID != "" {
		return *rep.TechnicianID == techID
	}
	if normalizedName == "" {
		return false
	}
	return normalizeName(rep.DeviceInfo.TechnicianName) == normalizedName
}
