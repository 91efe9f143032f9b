package model

import "time"

// ── 任务状态 ──

const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// Task 员工任务，对应 tasks（只读数据源）
type Task struct {
	ID           string    `gorm:"type:varchar(64);primaryKey"               json:"id"`
	Title        string    `gorm:"type:varchar(200);not null"                json:"title"`
	TaskDate     time.Time `gorm:"type:date;not null"                        json:"date"`
	AssignedToID string    `gorm:"type:varchar(64);not null"                 json:"assigned_to_id"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending | in_progress | completed
	BaseModel
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
