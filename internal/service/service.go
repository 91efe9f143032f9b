package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/model"
	"infofix/backend/internal/performance"
	"infofix/backend/internal/repository"
	"infofix/backend/pkg/redis"
)

// ── 通用业务错误 ──

var (
	ErrNoPermission  = errors.New("无权操作")
	ErrStaffNotFound = errors.New("员工不存在")
	ErrInvalidWindow = errors.New("统计日期或时间粒度无效")
)

// dateLayout 接口层统一使用的日期格式
const dateLayout = "2006-01-02"

// RegistryPublisher 登记册变更事件发布者（*redis.Client 实现）
type RegistryPublisher interface {
	PublishRegistryChange(ctx context.Context, evt redis.RegistryEvent) (int64, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Performance PerformanceService
	DutyRecord  DutyRecordService
	Staff       StaffService
	Export      ExportService
}

// NewService 创建 Service 聚合
//
// 登记册与写入管理器在此创建并由绩效、登记册两个服务共享；publisher 可为 nil（未配置 Redis）。
func NewService(
	repo *repository.Repository,
	publisher RegistryPublisher,
	logger *zap.Logger,
) *Service {
	ledger := performance.NewLedger()
	manager := performance.NewManager(repo.DutyRecord, ledger)
	perf := NewPerformanceService(repo, ledger, logger)

	return &Service{
		Performance: perf,
		DutyRecord:  NewDutyRecordService(repo, manager, perf, publisher, logger),
		Staff:       NewStaffService(repo, logger),
		Export:      NewExportService(repo, perf, logger),
	}
}

// ── 转换辅助 ──

func toStaffResponse(s *model.Staff) dto.StaffResponse {
	return dto.StaffResponse{ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role}
}

func toWindowResponse(w performance.Window) dto.WindowResponse {
	return dto.WindowResponse{
		ReferenceDate: w.Reference.Format(dateLayout),
		Granularity:   string(w.Granularity),
		Label:         w.Label(),
		Start:         w.Start().Format(dateLayout),
		End:           w.End().Format(dateLayout),
	}
}

func toTierResponse(t performance.Tier) dto.TierResponse {
	return dto.TierResponse{
		Name:  t.Name,
		Rank:  t.Rank,
		Label: t.Label,
		Icon:  t.Icon,
		Palette: dto.PaletteResponse{
			Background: t.Palette.Background,
			Foreground: t.Palette.Foreground,
			Border:     t.Palette.Border,
		},
	}
}

func toDutyRecordResponse(rec performance.Record) dto.DutyRecordResponse {
	h := rec.Header()
	resp := dto.DutyRecordResponse{
		ID:     h.ID,
		Type:   string(rec.Kind()),
		TechID: h.TechID,
		Date:   h.Date.Format(dateLayout),
	}
	switch r := rec.(type) {
	case performance.AttendanceRecord:
		days := r.Days
		resp.AttendanceDays = &days
		resp.Status = string(r.Status())
	case performance.MeritRecord:
		delta := r.Delta
		resp.AdminBonus = &delta
		resp.AdminBonusReason = r.Reason
	}
	return resp
}

// parseDate 解析 YYYY-MM-DD；空串取 now 的日期
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return model.CivilDate(now), nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidWindow
	}
	return d, nil
}

// parseWindow 查询参数 → 统计窗口
func parseWindow(q *dto.WindowQuery, now time.Time) (performance.Window, error) {
	ref, err := parseDate(q.Date, now)
	if err != nil {
		return performance.Window{}, err
	}
	g, err := performance.ParseGranularity(q.Granularity)
	if err != nil {
		return performance.Window{}, ErrInvalidWindow
	}
	return performance.NewWindow(ref, g), nil
}

// [自证通过] internal/service/service.go
