package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/model"
)

// ── ExportPerformance 测试 ──

func TestExportService_ExportPerformance_Success(t *testing.T) {
	env := setupTestEnv()
	env.staff.add("t1", "Ravi", model.RoleTechnician)
	env.staff.add("t2", "Mina", model.RoleTechnician)
	seedMarch(env, "t1", "Ravi")
	env.svc.Performance.Load(context.Background())

	buf, filename, err := env.svc.Export.ExportPerformance(context.Background(),
		&dto.WindowQuery{Date: "2025-03-14", Granularity: "month"}, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("ExportPerformance 应成功: %v", err)
	}
	if filename != "绩效_2025-03.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("无法解析导出的 Excel: %v", err)
	}
	defer f.Close()

	name, _ := f.GetCellValue("绩效", "B3")
	score, _ := f.GetCellValue("绩效", "G3")
	tier, _ := f.GetCellValue("绩效", "H3")
	if name != "Ravi" || score != "29" || tier != "Developing" {
		t.Errorf("首行数据错误: %s %s %s", name, score, tier)
	}
	last, _ := f.GetCellValue("绩效", "B4")
	if last != "Mina" {
		t.Errorf("第二行应为 Mina，实际 %s", last)
	}
}

func TestExportService_ExportPerformance_Nothing(t *testing.T) {
	env := setupTestEnv()

	_, _, err := env.svc.Export.ExportPerformance(context.Background(), &dto.WindowQuery{}, "admin", model.RoleAdmin)
	if !errors.Is(err, ErrExportNothing) {
		t.Errorf("期望 ErrExportNothing，实际: %v", err)
	}
}

// ── ExportTaskCalendar 测试 ──

func TestExportService_ExportTaskCalendar_Success(t *testing.T) {
	env := setupTestEnv()
	env.staff.add("t1", "Ravi", model.RoleTechnician)
	seedMarch(env, "t1", "Ravi")

	buf, filename, err := env.svc.Export.ExportTaskCalendar(context.Background(), "t1", "t1", model.RoleTechnician)
	if err != nil {
		t.Fatalf("ExportTaskCalendar 应成功: %v", err)
	}
	if filename != "tasks_t1.ics" {
		t.Errorf("文件名错误: %s", filename)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("无法解析导出的 ICS: %v", err)
	}
	events := cal.Events()
	if len(events) != 3 {
		t.Fatalf("期望 3 个事件，实际 %d", len(events))
	}
	if events[0].Id() != "k1@infofix" {
		t.Errorf("UID 错误: %s", events[0].Id())
	}
	if p := events[0].GetProperty(ics.ComponentPropertySummary); p == nil || p.Value != "上门维修" {
		t.Errorf("SUMMARY 错误: %+v", p)
	}
	if p := events[2].GetProperty(ics.ComponentPropertyStatus); p == nil || p.Value != string(ics.ObjectStatusConfirmed) {
		t.Errorf("未完成任务应为 CONFIRMED: %+v", p)
	}
}

func TestExportService_ExportTaskCalendar_Errors(t *testing.T) {
	env := setupTestEnv()
	env.staff.add("t1", "Ravi", model.RoleTechnician)
	env.staff.add("t2", "Mina", model.RoleTechnician)

	_, _, err := env.svc.Export.ExportTaskCalendar(context.Background(), "t2", "t1", model.RoleTechnician)
	if !errors.Is(err, ErrNoPermission) {
		t.Errorf("期望 ErrNoPermission，实际: %v", err)
	}

	_, _, err = env.svc.Export.ExportTaskCalendar(context.Background(), "t1", "admin", model.RoleAdmin)
	if !errors.Is(err, ErrExportNothing) {
		t.Errorf("无任务期望 ErrExportNothing，实际: %v", err)
	}

	_, _, err = env.svc.Export.ExportTaskCalendar(context.Background(), "ghost", "admin", model.RoleAdmin)
	if !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("期望 ErrStaffNotFound，实际: %v", err)
	}
}
