package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/service"
	"infofix/backend/pkg/response"
)

// PerformanceHandler 绩效模块 HTTP 处理器
type PerformanceHandler struct {
	perfSvc service.PerformanceService
}

// NewPerformanceHandler 创建 PerformanceHandler
func NewPerformanceHandler(perfSvc service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{perfSvc: perfSvc}
}

// Navigate 时间窗口导航
// GET /api/v1/performance/window?date=2025-03-14&granularity=month&step=1
func (h *PerformanceHandler) Navigate(c *gin.Context) {
	var q dto.NavigateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	w, err := h.perfSvc.Navigate(c.Request.Context(), &q)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}

	response.OK(c, w)
}

// Leaderboard 绩效排行榜
// GET /api/v1/performance/scorecards?date=&granularity=
func (h *PerformanceHandler) Leaderboard(c *gin.Context) {
	var q dto.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	board, err := h.perfSvc.Leaderboard(c.Request.Context(), &q, callerID, role)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}

	response.OK(c, board)
}

// GetScorecard 单个员工绩效卡
// GET /api/v1/performance/scorecards/:tech_id?date=&granularity=
func (h *PerformanceHandler) GetScorecard(c *gin.Context) {
	techID := c.Param("tech_id")
	if techID == "" {
		response.BadRequest(c, 10001, "员工ID不能为空")
		return
	}
	var q dto.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	card, err := h.perfSvc.Scorecard(c.Request.Context(), techID, &q, callerID, role)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}

	response.OK(c, card)
}

func handlePerformanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWindow):
		response.BadRequest(c, 17004, "统计日期或时间粒度无效")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权查看该员工的绩效")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 17001, "员工不存在")
	default:
		response.InternalError(c)
	}
}
