package repository

import (
	"context"

	"gorm.io/gorm"

	"infofix/backend/internal/model"
)

// DeviceReportRepository 设备检测报告数据访问接口（只读）
type DeviceReportRepository interface {
	ListAll(ctx context.Context) ([]model.DeviceReport, error)
}

// deviceReportRepo DeviceReportRepository 的 GORM 实现
type deviceReportRepo struct {
	db *gorm.DB
}

// NewDeviceReportRepo 创建 DeviceReportRepository 实例
func NewDeviceReportRepo(db *gorm.DB) DeviceReportRepository {
	return &deviceReportRepo{db: db}
}

func (r *deviceReportRepo) ListAll(ctx context.Context) ([]model.DeviceReport, error) {
	var reports []model.DeviceReport
	err := r.db.WithContext(ctx).
		Order("report_date ASC").
		Find(&reports).Error
	return reports, err
}
