package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/model"
	"infofix/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNothing      = errors.New("所选时间范围内没有可导出的数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response：
//   - 绩效排行榜 → Excel (.xlsx)，每行一名员工，末列按等级着色
//   - 技师任务 → iCalendar (.ics)，每个任务一个全天事件
type ExportService interface {
	ExportPerformance(ctx context.Context, q *dto.WindowQuery, callerID, callerRole string) (*bytes.Buffer, string, error)
	ExportTaskCalendar(ctx context.Context, techID, callerID, callerRole string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	perf   PerformanceService
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, perf PerformanceService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, perf: perf, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportPerformance：导出绩效排行榜为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "绩效"
//   - 标题行：窗口标签 + 粒度
//   - 表头：排名 | 员工 | 出勤 | 质检 | 任务 | 奖惩 | 总分 | 等级
//   - 等级单元格使用该等级的配色

var performanceHeaders = []string{"排名", "员工", "出勤", "质检", "任务", "奖惩", "总分", "等级"}

func (s *exportService) ExportPerformance(ctx context.Context, q *dto.WindowQuery, callerID, callerRole string) (*bytes.Buffer, string, error) {
	board, err := s.perf.Leaderboard(ctx, q, callerID, callerRole)
	if err != nil {
		return nil, "", err
	}
	if len(board.Scorecards) == 0 {
		return nil, "", ErrExportNothing
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "绩效"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "G", 10)
	f.SetColWidth(sheetName, "H", "H", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	lastCol := colName(len(performanceHeaders) - 1)
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("绩效排行榜 %s (%s)", board.Window.Label, board.Window.Granularity))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range performanceHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	tierStyles := make(map[string]int)
	for i, card := range board.Scorecards {
		row := 3 + i
		f.SetCellValue(sheetName, cell("A", row), i+1)
		f.SetCellValue(sheetName, cell("B", row), card.Staff.Name)
		f.SetCellValue(sheetName, cell("C", row), card.Breakdown.AttendancePoints)
		f.SetCellValue(sheetName, cell("D", row), card.Breakdown.QCPoints)
		f.SetCellValue(sheetName, cell("E", row), card.Breakdown.TaskPoints)
		f.SetCellValue(sheetName, cell("F", row), card.Breakdown.BonusPoints)
		f.SetCellValue(sheetName, cell("G", row), card.Score)
		f.SetCellValue(sheetName, cell("H", row), card.Tier.Label)

		style, ok := tierStyles[card.Tier.Name]
		if !ok {
			style, _ = f.NewStyle(&excelize.Style{
				Font:      &excelize.Font{Bold: true, Color: card.Tier.Palette.Foreground},
				Fill:      excelize.Fill{Type: "pattern", Color: []string{card.Tier.Palette.Background}, Pattern: 1},
				Alignment: &excelize.Alignment{Horizontal: "center"},
			})
			tierStyles[card.Tier.Name] = style
		}
		f.SetCellStyle(sheetName, cell("H", row), cell("H", row), style)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("绩效_%s.xlsx", board.Window.Label)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTaskCalendar：导出技师任务为 ICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportTaskCalendar(ctx context.Context, techID, callerID, callerRole string) (*bytes.Buffer, string, error) {
	if !model.IsAdminRole(callerRole) && techID != callerID {
		return nil, "", ErrNoPermission
	}

	staff, err := s.repo.Staff.GetByID(ctx, techID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.String("tech_id", techID), zap.Error(err))
		return nil, "", err
	}

	tasks, err := s.repo.Task.ListByAssignee(ctx, techID, calendarFrom, calendarTo)
	if err != nil {
		s.logger.Error("查询任务失败", zap.String("tech_id", techID), zap.Error(err))
		return nil, "", err
	}
	if len(tasks) == 0 {
		return nil, "", ErrExportNothing
	}

	buf := bytes.NewBufferString(BuildTaskCalendar(staff, tasks))
	filename := fmt.Sprintf("tasks_%s.ics", staff.ID)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
