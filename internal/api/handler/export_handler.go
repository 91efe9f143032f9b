package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/service"
	"infofix/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportPerformance 导出绩效排行榜
// GET /api/v1/export/performance?date=&granularity=
func (h *ExportHandler) ExportPerformance(c *gin.Context) {
	var q dto.WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportPerformance(c.Request.Context(), &q, callerID, role)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportTaskCalendar 导出技师任务日历
// GET /api/v1/export/tasks/:tech_id
func (h *ExportHandler) ExportTaskCalendar(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTaskCalendar(c.Request.Context(), c.Param("tech_id"), callerID, role)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, buf.Bytes())
}

// attachment 设置下载响应头
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNothing):
		response.NotFound(c, 17101, "所选时间范围内没有可导出的数据")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "无权导出该员工的数据")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 17001, "员工不存在")
	case errors.Is(err, service.ErrInvalidWindow):
		response.BadRequest(c, 17004, "统计日期或时间粒度无效")
	default:
		response.InternalError(c)
	}
}
