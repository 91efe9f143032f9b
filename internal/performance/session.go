package performance

import (
	"context"
	"fmt"
	"time"
)

// Form 表单回填内容
type Form struct {
	TechID string           `json:"tech_id"`
	Date   time.Time        `json:"date"`
	Status AttendanceStatus `json:"status,omitempty"`
	Delta  int              `json:"admin_bonus,omitempty"`
	Reason string           `json:"admin_bonus_reason,omitempty"`
}

// EditSession 出勤 / 奖惩表单会话
//
// 持有「正在编辑的记录 + 类型」：记录为空时提交走新增，否则走按 id 更新。
// 提交成功或 Close 后两者一并清空；远端失败时会话保持打开。
type EditSession struct {
	manager *Manager
	kind    Kind
	editing Record
}

// NewSession 创建表单会话
func (m *Manager) NewSession() *EditSession {
	return &EditSession{manager: m}
}

// OpenAttendance 打开出勤表单；rec 非空时进入编辑模式并回填
func (s *EditSession) OpenAttendance(rec *AttendanceRecord) Form {
	s.kind = KindAttendance
	s.editing = nil
	if rec == nil {
		return Form{Status: StatusFull}
	}
	s.editing = *rec
	return Form{TechID: rec.TechID, Date: rec.Date, Status: rec.Status()}
}

// OpenMerit 打开奖惩表单；rec 非空时进入编辑模式并回填
func (s *EditSession) OpenMerit(rec *MeritRecord) Form {
	s.kind = KindMerit
	s.editing = nil
	if rec == nil {
		return Form{}
	}
	s.editing = *rec
	return Form{TechID: rec.TechID, Date: rec.Date, Delta: rec.Delta, Reason: rec.Reason}
}

// Editing 当前编辑中的记录与表单类型
func (s *EditSession) Editing() (Record, Kind) { return s.editing, s.kind }

// IsOpen 表单是否打开
func (s *EditSession) IsOpen() bool { return s.kind != "" }

// Close 关闭表单，清空编辑状态
func (s *EditSession) Close() {
	s.kind = ""
	s.editing = nil
}

// SubmitAttendance 提交出勤表单；编辑模式下 techID 被忽略，沿用原记录的员工
func (s *EditSession) SubmitAttendance(ctx context.Context, techID string, date time.Time, status AttendanceStatus) (AttendanceRecord, error) {
	if s.kind != KindAttendance {
		return AttendanceRecord{}, fmt.Errorf("%w: 出勤表单未打开", ErrValidationFailed)
	}

	var (
		rec AttendanceRecord
		err error
	)
	if existing, ok := s.editing.(AttendanceRecord); ok {
		rec, err = s.manager.UpdateAttendance(ctx, existing, date, status)
	} else {
		rec, err = s.manager.CreateAttendance(ctx, techID, date, status)
	}
	if err != nil {
		return AttendanceRecord{}, err
	}

	s.Close()
	return rec, nil
}

// SubmitMerit 提交奖惩表单；新增时日期取 referenceDate，编辑时沿用原记录日期
func (s *EditSession) SubmitMerit(ctx context.Context, techID string, referenceDate time.Time, delta int, reason string) (MeritRecord, error) {
	if s.kind != KindMerit {
		return MeritRecord{}, fmt.Errorf("%w: 奖惩表单未打开", ErrValidationFailed)
	}

	var (
		rec MeritRecord
		err error
	)
	if existing, ok := s.editing.(MeritRecord); ok {
		rec, err = s.manager.UpdateMerit(ctx, existing, delta, reason)
	} else {
		rec, err = s.manager.CreateMerit(ctx, techID, referenceDate, delta, reason)
	}
	if err != nil {
		return MeritRecord{}, err
	}

	s.Close()
	return rec, nil
}
