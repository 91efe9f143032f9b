package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"infofix/backend/internal/model"
	pkgerrors "infofix/backend/pkg/errors"
)

// ── 登记册写操作错误 ──

var (
	ErrValidationFailed  = errors.New("校验失败")
	ErrPersistenceFailed = errors.New("远端存储写入失败")
	ErrNotFound          = errors.New("登记册记录不存在")
)

// Store 登记册远端存储
type Store interface {
	Insert(ctx context.Context, row *model.DutyRecord) error
	Update(ctx context.Context, row *model.DutyRecord) error
	Delete(ctx context.Context, id string, recordType string) error
}

// Manager 出勤 / 奖惩记录的写入管理
//
// 所有写操作先落远端存储，确认无错误后再修改本地 Ledger；远端失败时本地保持不变，不重试。
// 存在性检查、远端写入与本地修改在 Ledger 的写入闸门内完成。
type Manager struct {
	store  Store
	ledger *Ledger
	now    func() time.Time
	newID  func(time.Time) string
}

// Option Manager 可选项
type Option func(*Manager)

// WithClock 替换时钟（测试使用）
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator 替换记录 id 生成器
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager 创建 Manager
func NewManager(store Store, ledger *Ledger, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		ledger: ledger,
		now:    time.Now,
		newID:  NewRecordID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewRecordID 毫秒时间戳 + 8 位随机后缀；唯一性由存储主键保证
func NewRecordID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// Ledger 返回 Manager 维护的登记册
func (m *Manager) Ledger() *Ledger { return m.ledger }

// ────────────────────── 出勤 ──────────────────────

// CreateAttendance 新增出勤记录
func (m *Manager) CreateAttendance(ctx context.Context, techID string, date time.Time, status AttendanceStatus) (AttendanceRecord, error) {
	if err := validateAttendance(techID, date, status); err != nil {
		return AttendanceRecord{}, err
	}

	rec := AttendanceRecord{
		Envelope: Envelope{ID: m.newID(m.now()), TechID: techID, Date: model.CivilDate(date)},
		Days:     status.Days(),
	}
	if err := m.insert(ctx, rec); err != nil {
		return AttendanceRecord{}, err
	}
	return rec, nil
}

// UpdateAttendance 修改出勤记录，沿用原 id
func (m *Manager) UpdateAttendance(ctx context.Context, existing AttendanceRecord, date time.Time, status AttendanceStatus) (AttendanceRecord, error) {
	if err := validateAttendance(existing.TechID, date, status); err != nil {
		return AttendanceRecord{}, err
	}
	rec := AttendanceRecord{
		Envelope: Envelope{ID: existing.ID, TechID: existing.TechID, Date: model.CivilDate(date)},
		Days:     status.Days(),
	}
	if err := m.update(ctx, rec); err != nil {
		return AttendanceRecord{}, err
	}
	return rec, nil
}

// DeleteAttendance 删除出勤记录（按 id + type 双键删除）
func (m *Manager) DeleteAttendance(ctx context.Context, id string) error {
	return m.delete(ctx, RecordKey{ID: id, Kind: KindAttendance})
}

// ────────────────────── 奖惩 ──────────────────────

// CreateMerit 新增奖惩记录，日期取调用方当前导航到的参考日期
func (m *Manager) CreateMerit(ctx context.Context, techID string, referenceDate time.Time, delta int, reason string) (MeritRecord, error) {
	reason, err := validateMerit(techID, referenceDate, reason)
	if err != nil {
		return MeritRecord{}, err
	}

	rec := MeritRecord{
		Envelope: Envelope{ID: m.newID(m.now()), TechID: techID, Date: model.CivilDate(referenceDate)},
		Delta:    delta,
		Reason:   reason,
	}
	if err := m.insert(ctx, rec); err != nil {
		return MeritRecord{}, err
	}
	return rec, nil
}

// UpdateMerit 修改奖惩分值与理由，沿用原 id 与日期
func (m *Manager) UpdateMerit(ctx context.Context, existing MeritRecord, delta int, reason string) (MeritRecord, error) {
	reason, err := validateMerit(existing.TechID, existing.Date, reason)
	if err != nil {
		return MeritRecord{}, err
	}
	rec := MeritRecord{Envelope: existing.Envelope, Delta: delta, Reason: reason}
	if err := m.update(ctx, rec); err != nil {
		return MeritRecord{}, err
	}
	return rec, nil
}

// DeleteMerit 删除奖惩记录（按 id + type 双键删除）
func (m *Manager) DeleteMerit(ctx context.Context, id string) error {
	return m.delete(ctx, RecordKey{ID: id, Kind: KindMerit})
}

// ── 内部辅助方法 ──

func (m *Manager) insert(ctx context.Context, rec Record) (err error) {
	m.ledger.Exclusive(func() {
		row := ToRow(rec)
		if err = m.store.Insert(ctx, &row); err != nil {
			err = storeError(err)
			return
		}
		m.ledger.add(rec)
	})
	return err
}

func (m *Manager) update(ctx context.Context, rec Record) (err error) {
	m.ledger.Exclusive(func() {
		key := rec.Key()
		if _, ok := m.ledger.Find(key); !ok {
			err = fmt.Errorf("%w: %s %s", ErrNotFound, key.Kind, key.ID)
			return
		}
		row := ToRow(rec)
		if err = m.store.Update(ctx, &row); err != nil {
			err = storeError(err)
			return
		}
		m.ledger.replace(rec)
	})
	return err
}

func (m *Manager) delete(ctx context.Context, key RecordKey) (err error) {
	if key.ID == "" {
		return fmt.Errorf("%w: 记录 id 不能为空", ErrValidationFailed)
	}
	m.ledger.Exclusive(func() {
		if _, ok := m.ledger.Find(key); !ok {
			err = fmt.Errorf("%w: %s %s", ErrNotFound, key.Kind, key.ID)
			return
		}
		if err = m.store.Delete(ctx, key.ID, string(key.Kind)); err != nil {
			err = storeError(err)
			return
		}
		m.ledger.remove(key)
	})
	return err
}

func storeError(err error) error {
	if errors.Is(err, pkgerrors.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
}

func validateAttendance(techID string, date time.Time, status AttendanceStatus) error {
	if strings.TrimSpace(techID) == "" {
		return fmt.Errorf("%w: 员工 id 不能为空", ErrValidationFailed)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: 出勤日期不能为空", ErrValidationFailed)
	}
	if _, err := ParseAttendanceStatus(string(status)); err != nil {
		return err
	}
	return nil
}

// validateMerit 返回去除首尾空白后的理由
func validateMerit(techID string, date time.Time, reason string) (string, error) {
	if strings.TrimSpace(techID) == "" {
		return "", fmt.Errorf("%w: 员工 id 不能为空", ErrValidationFailed)
	}
	if date.IsZero() {
		return "", fmt.Errorf("%w: 参考日期不能为空", ErrValidationFailed)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: 奖惩理由不能为空", ErrValidationFailed)
	}
	return reason, nil
}
