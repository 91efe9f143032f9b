package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/performance"
	"infofix/backend/internal/repository"
	"infofix/backend/pkg/metrics"
	"infofix/backend/pkg/redis"
)

// ── 值班登记册业务错误 ──

var (
	ErrDutyRecordNotFound  = errors.New("登记册记录不存在")
	ErrMeritReasonRequired = errors.New("奖惩理由不能为空")
	ErrInvalidDutyRecord   = errors.New("出勤日期或状态无效")
	ErrPersistenceFailed   = errors.New("保存失败，请稍后重试")
)

// DutyRecordService 值班登记册（出勤 / 奖惩）业务接口
//
// 写操作先落库，成功后才更新本地登记册并广播变更事件；失败时本地状态不变。
type DutyRecordService interface {
	List(ctx context.Context, req *dto.DutyRecordListRequest) ([]dto.DutyRecordResponse, int64, error)
	CreateAttendance(ctx context.Context, req *dto.CreateAttendanceRequest, callerID string) (*dto.DutyRecordResponse, error)
	UpdateAttendance(ctx context.Context, id string, req *dto.UpdateAttendanceRequest, callerID string) (*dto.DutyRecordResponse, error)
	DeleteAttendance(ctx context.Context, id string, callerID string) error
	CreateMerit(ctx context.Context, req *dto.CreateMeritRequest, callerID string) (*dto.DutyRecordResponse, error)
	UpdateMerit(ctx context.Context, id string, req *dto.UpdateMeritRequest, callerID string) (*dto.DutyRecordResponse, error)
	DeleteMerit(ctx context.Context, id string, callerID string) error
	Reload(ctx context.Context, callerID string) *dto.ReloadResponse
}

type dutyRecordService struct {
	repo      *repository.Repository
	manager   *performance.Manager
	perf      PerformanceService
	publisher RegistryPublisher
	logger    *zap.Logger
}

// NewDutyRecordService 创建 DutyRecordService 实例
func NewDutyRecordService(
	repo *repository.Repository,
	manager *performance.Manager,
	perf PerformanceService,
	publisher RegistryPublisher,
	logger *zap.Logger,
) DutyRecordService {
	return &dutyRecordService{
		repo:      repo,
		manager:   manager,
		perf:      perf,
		publisher: publisher,
		logger:    logger,
	}
}

// ────────────────────── List ──────────────────────

func (s *dutyRecordService) List(ctx context.Context, req *dto.DutyRecordListRequest) ([]dto.DutyRecordResponse, int64, error) {
	filter := repository.DutyRecordFilter{
		TechID: req.TechID,
		Type:   req.Type,
		Year:   req.Year,
		Month:  req.Month,
	}
	rows, total, err := s.repo.DutyRecord.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询登记册失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.DutyRecordResponse, 0, len(rows))
	for _, row := range rows {
		rec, err := performance.FromRow(row)
		if err != nil {
			s.logger.Warn("跳过无效登记册记录", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		list = append(list, toDutyRecordResponse(rec))
	}
	return list, total, nil
}

// ────────────────────── 出勤 ──────────────────────

func (s *dutyRecordService) CreateAttendance(ctx context.Context, req *dto.CreateAttendanceRequest, callerID string) (*dto.DutyRecordResponse, error) {
	if err := s.ensureStaff(ctx, req.TechID); err != nil {
		return nil, err
	}
	date, status, err := parseAttendance(req.Date, req.Status)
	if err != nil {
		return nil, err
	}

	session := s.manager.NewSession()
	session.OpenAttendance(nil)
	rec, err := session.SubmitAttendance(ctx, req.TechID, date, status)
	if err != nil {
		return nil, s.mutationFailed("create", performance.KindAttendance, err, "")
	}

	s.mutationDone(ctx, "create", rec, callerID)
	resp := toDutyRecordResponse(rec)
	return &resp, nil
}

func (s *dutyRecordService) UpdateAttendance(ctx context.Context, id string, req *dto.UpdateAttendanceRequest, callerID string) (*dto.DutyRecordResponse, error) {
	existing, ok := s.manager.Ledger().FindAttendance(id)
	if !ok {
		metrics.RegistryMutations.WithLabelValues("update", string(performance.KindAttendance), "not_found").Inc()
		return nil, ErrDutyRecordNotFound
	}
	date, status, err := parseAttendance(req.Date, req.Status)
	if err != nil {
		return nil, err
	}

	session := s.manager.NewSession()
	session.OpenAttendance(&existing)
	rec, err := session.SubmitAttendance(ctx, existing.TechID, date, status)
	if err != nil {
		return nil, s.mutationFailed("update", performance.KindAttendance, err, "")
	}

	s.mutationDone(ctx, "update", rec, callerID)
	resp := toDutyRecordResponse(rec)
	return &resp, nil
}

func (s *dutyRecordService) DeleteAttendance(ctx context.Context, id string, callerID string) error {
	existing, _ := s.manager.Ledger().FindAttendance(id)
	if err := s.manager.DeleteAttendance(ctx, id); err != nil {
		return s.mutationFailed("delete", performance.KindAttendance, err, "")
	}
	s.mutationDone(ctx, "delete", existing, callerID)
	return nil
}

// ────────────────────── 奖惩 ──────────────────────

func (s *dutyRecordService) CreateMerit(ctx context.Context, req *dto.CreateMeritRequest, callerID string) (*dto.DutyRecordResponse, error) {
	if err := s.ensureStaff(ctx, req.TechID); err != nil {
		return nil, err
	}
	ref, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDutyRecord
	}

	session := s.manager.NewSession()
	session.OpenMerit(nil)
	rec, err := session.SubmitMerit(ctx, req.TechID, ref, *req.AdminBonus, req.Reason)
	if err != nil {
		return nil, s.mutationFailed("create", performance.KindMerit, err, req.Reason)
	}

	s.mutationDone(ctx, "create", rec, callerID)
	resp := toDutyRecordResponse(rec)
	return &resp, nil
}

func (s *dutyRecordService) UpdateMerit(ctx context.Context, id string, req *dto.UpdateMeritRequest, callerID string) (*dto.DutyRecordResponse, error) {
	existing, ok := s.manager.Ledger().FindMerit(id)
	if !ok {
		metrics.RegistryMutations.WithLabelValues("update", string(performance.KindMerit), "not_found").Inc()
		return nil, ErrDutyRecordNotFound
	}

	session := s.manager.NewSession()
	session.OpenMerit(&existing)
	rec, err := session.SubmitMerit(ctx, existing.TechID, existing.Date, *req.AdminBonus, req.Reason)
	if err != nil {
		return nil, s.mutationFailed("update", performance.KindMerit, err, req.Reason)
	}

	s.mutationDone(ctx, "update", rec, callerID)
	resp := toDutyRecordResponse(rec)
	return &resp, nil
}

func (s *dutyRecordService) DeleteMerit(ctx context.Context, id string, callerID string) error {
	existing, _ := s.manager.Ledger().FindMerit(id)
	if err := s.manager.DeleteMerit(ctx, id); err != nil {
		return s.mutationFailed("delete", performance.KindMerit, err, "")
	}
	s.mutationDone(ctx, "delete", existing, callerID)
	return nil
}

// ────────────────────── Reload ──────────────────────

func (s *dutyRecordService) Reload(ctx context.Context, callerID string) *dto.ReloadResponse {
	resp := s.perf.Load(ctx)
	s.publish(ctx, redis.RegistryEvent{Op: "reload", OperatorID: callerID, At: time.Now().UTC()})
	return resp
}

// ── 内部辅助方法 ──

func (s *dutyRecordService) ensureStaff(ctx context.Context, techID string) error {
	if _, err := s.repo.Staff.GetByID(ctx, techID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.String("tech_id", techID), zap.Error(err))
		return err
	}
	return nil
}

// mutationFailed 记录指标并将引擎错误映射为业务错误
func (s *dutyRecordService) mutationFailed(op string, kind performance.Kind, err error, reason string) error {
	switch {
	case errors.Is(err, performance.ErrValidationFailed):
		metrics.RegistryMutations.WithLabelValues(op, string(kind), "validation").Inc()
		if kind == performance.KindMerit && strings.TrimSpace(reason) == "" {
			return ErrMeritReasonRequired
		}
		return ErrInvalidDutyRecord
	case errors.Is(err, performance.ErrNotFound):
		metrics.RegistryMutations.WithLabelValues(op, string(kind), "not_found").Inc()
		return ErrDutyRecordNotFound
	default:
		metrics.RegistryMutations.WithLabelValues(op, string(kind), "persistence").Inc()
		s.logger.Error("登记册写入失败",
			zap.String("op", op),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return ErrPersistenceFailed
	}
}

func (s *dutyRecordService) mutationDone(ctx context.Context, op string, rec performance.Record, callerID string) {
	h := rec.Header()
	metrics.RegistryMutations.WithLabelValues(op, string(rec.Kind()), "ok").Inc()
	records, _, _ := s.manager.Ledger().Counts()
	metrics.RegistrySize.WithLabelValues("duty_records").Set(float64(records))

	s.logger.Info("登记册已更新",
		zap.String("op", op),
		zap.String("kind", string(rec.Kind())),
		zap.String("record_id", h.ID),
		zap.String("tech_id", h.TechID),
		zap.String("operator_id", callerID),
	)

	s.publish(ctx, redis.RegistryEvent{
		Op:         op,
		Type:       string(rec.Kind()),
		RecordID:   h.ID,
		TechID:     h.TechID,
		OperatorID: callerID,
		At:         time.Now().UTC(),
	})
}

// publish 事件广播失败只记录警告，不影响已成功的写入
func (s *dutyRecordService) publish(ctx context.Context, evt redis.RegistryEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.PublishRegistryChange(ctx, evt); err != nil {
		s.logger.Warn("登记册变更事件发布失败", zap.String("op", evt.Op), zap.Error(err))
	}
}

func parseAttendance(date, status string) (time.Time, performance.AttendanceStatus, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, "", ErrInvalidDutyRecord
	}
	st, err := performance.ParseAttendanceStatus(status)
	if err != nil {
		return time.Time{}, "", ErrInvalidDutyRecord
	}
	return d, st, nil
}
