package performance

import (
	"fmt"
	"strings"
	"time"

	"infofix/backend/internal/model"
)

// Kind 登记册记录类型
type Kind string

const (
	KindAttendance Kind = model.DutyRecordAttendance
	KindMerit      Kind = model.DutyRecordMerit
)

// RecordKey 登记册记录在存储中的完整主键
type RecordKey struct {
	ID   string
	Kind Kind
}

// Envelope 出勤 / 奖惩记录的公共信封
type Envelope struct {
	ID     string    `json:"id"`
	TechID string    `json:"tech_id"`
	Date   time.Time `json:"date"`
}

// Record 登记册记录：AttendanceRecord 或 MeritRecord
type Record interface {
	Key() RecordKey
	Header() Envelope
	Kind() Kind
	isRecord()
}

// AttendanceRecord 出勤记录，Days ∈ {0, 0.5, 1}
type AttendanceRecord struct {
	Envelope
	Days float64 `json:"attendance_days"`
}

func (r AttendanceRecord) Key() RecordKey   { return RecordKey{ID: r.ID, Kind: KindAttendance} }
func (r AttendanceRecord) Header() Envelope { return r.Envelope }
func (AttendanceRecord) Kind() Kind         { return KindAttendance }
func (AttendanceRecord) isRecord()          {}

// Status 由天数反推出勤状态（用于编辑表单回填）
func (r AttendanceRecord) Status() AttendanceStatus { return StatusFromDays(r.Days) }

// MeritRecord 奖惩记录，Delta 为正表示加分、为负表示扣分
type MeritRecord struct {
	Envelope
	Delta  int    `json:"admin_bonus"`
	Reason string `json:"admin_bonus_reason"`
}

func (r MeritRecord) Key() RecordKey   { return RecordKey{ID: r.ID, Kind: KindMerit} }
func (r MeritRecord) Header() Envelope { return r.Envelope }
func (MeritRecord) Kind() Kind         { return KindMerit }
func (MeritRecord) isRecord()          {}

// ── 出勤状态 ──

// AttendanceStatus 出勤状态
type AttendanceStatus string

const (
	StatusFull   AttendanceStatus = "full"
	StatusHalf   AttendanceStatus = "half"
	StatusAbsent AttendanceStatus = "absent"
)

// ParseAttendanceStatus 校验出勤状态
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case StatusFull, StatusHalf, StatusAbsent:
		return AttendanceStatus(s), nil
	default:
		return "", fmt.Errorf("%w: 未知的出勤状态 %q", ErrValidationFailed, s)
	}
}

// Days 出勤状态对应的折算天数
func (s AttendanceStatus) Days() float64 {
	switch s {
	case StatusFull:
		return 1.0
	case StatusHalf:
		return 0.5
	default:
		return 0
	}
}

// StatusFromDays 折算天数 → 出勤状态
func StatusFromDays(days float64) AttendanceStatus {
	switch {
	case days >= 1:
		return StatusFull
	case days >= 0.5:
		return StatusHalf
	default:
		return StatusAbsent
	}
}

// ── 行 ⇄ 记录 转换 ──

// ResolveDate 将 (day, month[0-11], year) 解析为日历日期，day 为空时取 1 号
func ResolveDate(day *int, month, year int) (time.Time, error) {
	d := 1
	if day != nil {
		d = *day
	}
	if month < 0 || month > 11 {
		return time.Time{}, fmt.Errorf("%w: 月份越界 %d", ErrValidationFailed, month)
	}
	if d < 1 || d > daysIn(year, time.Month(month+1)) {
		return time.Time{}, fmt.Errorf("%w: 日期无效 %d-%02d-%02d", ErrValidationFailed, year, month+1, d)
	}
	return time.Date(year, time.Month(month+1), d, 0, 0, 0, 0, time.UTC), nil
}

// FromRow 将存储行转换为记录
// 出勤行缺少 attendance_days、奖惩行缺少 admin_bonus 时返回错误，调用方应跳过该行
func FromRow(row model.DutyRecord) (Record, error) {
	date, err := ResolveDate(row.Day, row.Month, row.Year)
	if err != nil {
		return nil, fmt.Errorf("记录 %s: %w", row.ID, err)
	}
	env := Envelope{ID: row.ID, TechID: row.TechID, Date: date}

	switch Kind(row.Type) {
	case KindAttendance:
		if row.AttendanceDays == nil {
			return nil, fmt.Errorf("%w: 出勤记录 %s 缺少 attendance_days", ErrValidationFailed, row.ID)
		}
		return AttendanceRecord{Envelope: env, Days: *row.AttendanceDays}, nil
	case KindMerit:
		if row.AdminBonus == nil {
			return nil, fmt.Errorf("%w: 奖惩记录 %s 缺少 admin_bonus", ErrValidationFailed, row.ID)
		}
		reason := ""
		if row.AdminBonusReason != nil {
			reason = *row.AdminBonusReason
		}
		return MeritRecord{Envelope: env, Delta: *row.AdminBonus, Reason: reason}, nil
	default:
		return nil, fmt.Errorf("%w: 记录 %s 类型未知 %q", ErrValidationFailed, row.ID, row.Type)
	}
}

// ToRow 将记录转换为存储行（另一类字段按 0 写入，与历史数据形状一致）
func ToRow(rec Record) model.DutyRecord {
	h := rec.Header()
	y, m, d := h.Date.Date()
	day := d
	row := model.DutyRecord{
		ID:     h.ID,
		Type:   string(rec.Kind()),
		TechID: h.TechID,
		Day:    &day,
		Month:  int(m) - 1,
		Year:   y,
	}

	switch r := rec.(type) {
	case AttendanceRecord:
		days := r.Days
		zero := 0
		row.AttendanceDays = &days
		row.AdminBonus = &zero
	case MeritRecord:
		delta := r.Delta
		reason := r.Reason
		zero := 0.0
		row.AdminBonus = &delta
		row.AdminBonusReason = &reason
		row.AttendanceDays = &zero
	}
	return row
}

// normalizeName 名称归一化：去首尾空白 + 小写
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
