package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/model"
	"infofix/backend/internal/repository"
)

// StaffService 员工目录业务接口
type StaffService interface {
	// List 管理角色返回完整目录；技师只能看到自己
	List(ctx context.Context, req *dto.StaffListRequest, callerID, callerRole string) ([]dto.StaffResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.StaffResponse, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

func (s *staffService) List(ctx context.Context, req *dto.StaffListRequest, callerID, callerRole string) ([]dto.StaffResponse, int64, error) {
	if !model.IsAdminRole(callerRole) {
		self, err := s.GetByID(ctx, callerID)
		if err != nil {
			return nil, 0, err
		}
		return []dto.StaffResponse{*self}, 1, nil
	}

	staff, total, err := s.repo.Staff.List(ctx, req.Role, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		list = append(list, toStaffResponse(&staff[i]))
	}
	return list, total, nil
}

func (s *staffService) GetByID(ctx context.Context, id string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	resp := toStaffResponse(staff)
	return &resp, nil
}
