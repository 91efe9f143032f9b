package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/service"
	"infofix/backend/pkg/response"
)

// StaffHandler 员工目录 HTTP 处理器
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler 创建 StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// ListStaff 员工列表（技师只返回自己）
// GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	var req dto.StaffListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, total, err := h.staffSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 17001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetCurrentStaff 当前登录员工
// GET /api/v1/staff/me
func (h *StaffHandler) GetCurrentStaff(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	staff, err := h.staffSvc.GetByID(c.Request.Context(), callerID)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 17001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, staff)
}
