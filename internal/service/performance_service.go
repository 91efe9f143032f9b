package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"infofix/backend/internal/dto"
	"infofix/backend/internal/model"
	"infofix/backend/internal/performance"
	"infofix/backend/internal/repository"
	"infofix/backend/pkg/metrics"
)

// PerformanceService 绩效评分业务接口
type PerformanceService interface {
	// Load 并发拉取登记册、设备报告、任务三个数据源并整体替换本地登记册
	Load(ctx context.Context) *dto.ReloadResponse
	// Navigate 按粒度将参考日期前进 / 后退一个单位
	Navigate(ctx context.Context, q *dto.NavigateQuery) (*dto.WindowResponse, error)
	Scorecard(ctx context.Context, techID string, q *dto.WindowQuery, callerID, callerRole string) (*dto.ScorecardResponse, error)
	Leaderboard(ctx context.Context, q *dto.WindowQuery, callerID, callerRole string) (*dto.LeaderboardResponse, error)
}

type performanceService struct {
	repo   *repository.Repository
	ledger *performance.Ledger
	logger *zap.Logger
	now    func() time.Time
}

// NewPerformanceService 创建 PerformanceService 实例
func NewPerformanceService(repo *repository.Repository, ledger *performance.Ledger, logger *zap.Logger) PerformanceService {
	return &performanceService{repo: repo, ledger: ledger, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// Load：初始化 / 手动重新加载登记册
// ═══════════════════════════════════════════════════════════
//
// 三个数据源相互独立、并发拉取；任一失败只记录警告并以空集合替换，
// 不影响其余两个数据源。缺少取值字段的登记册行被跳过。

func (s *performanceService) Load(ctx context.Context) *dto.ReloadResponse {
	var (
		records []performance.Record
		reports []model.DeviceReport
		tasks   []model.Task
	)

	// 拉取与替换处于同一写入闸门内，与出勤 / 奖惩写操作互斥
	s.ledger.Exclusive(func() {
		var rows []model.DutyRecord
		rows, reports, tasks = s.fetchSources(ctx)

		records = make([]performance.Record, 0, len(rows))
		for _, row := range rows {
			rec, err := performance.FromRow(row)
			if err != nil {
				s.logger.Warn("跳过无效登记册记录", zap.String("id", row.ID), zap.String("type", row.Type), zap.Error(err))
				continue
			}
			records = append(records, rec)
		}

		s.ledger.ReplaceRecords(records)
		s.ledger.ReplaceReports(reports)
		s.ledger.ReplaceTasks(tasks)
	})
	s.reportSize()

	s.logger.Info("登记册加载完成",
		zap.Int("records", len(records)),
		zap.Int("reports", len(reports)),
		zap.Int("tasks", len(tasks)),
	)

	return &dto.ReloadResponse{
		Records:  len(records),
		Reports:  len(reports),
		Tasks:    len(tasks),
		LoadedAt: s.ledger.LoadedAt().Format(time.RFC3339),
	}
}

func (s *performanceService) fetchSources(ctx context.Context) (rows []model.DutyRecord, reports []model.DeviceReport, tasks []model.Task) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if rows, err = s.repo.DutyRecord.ListAll(ctx); err != nil {
			s.sourceFailed("duty_records", err)
			rows = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if reports, err = s.repo.DeviceReport.ListAll(ctx); err != nil {
			s.sourceFailed("device_reports", err)
			reports = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if tasks, err = s.repo.Task.ListAll(ctx); err != nil {
			s.sourceFailed("tasks", err)
			tasks = nil
		}
	}()
	wg.Wait()
	return rows, reports, tasks
}

func (s *performanceService) sourceFailed(collection string, err error) {
	metrics.SourceLoadFailures.WithLabelValues(collection).Inc()
	s.logger.Warn("数据源加载失败，按空集合处理", zap.String("collection", collection), zap.Error(err))
}

func (s *performanceService) reportSize() {
	records, reports, tasks := s.ledger.Counts()
	metrics.RegistrySize.WithLabelValues("duty_records").Set(float64(records))
	metrics.RegistrySize.WithLabelValues("device_reports").Set(float64(reports))
	metrics.RegistrySize.WithLabelValues("tasks").Set(float64(tasks))
}

// ────────────────────── Navigate ──────────────────────

func (s *performanceService) Navigate(_ context.Context, q *dto.NavigateQuery) (*dto.WindowResponse, error) {
	w, err := parseWindow(&q.WindowQuery, s.now())
	if err != nil {
		return nil, err
	}

	nav := performance.NewNavigator(w.Reference, w.Granularity)
	if q.Step != 0 {
		if err := nav.Advance(q.Step); err != nil {
			return nil, ErrInvalidWindow
		}
	}

	resp := toWindowResponse(nav.Window())
	return &resp, nil
}

// ────────────────────── Scorecard ──────────────────────

func (s *performanceService) Scorecard(ctx context.Context, techID string, q *dto.WindowQuery, callerID, callerRole string) (*dto.ScorecardResponse, error) {
	if !model.IsAdminRole(callerRole) && techID != callerID {
		return nil, ErrNoPermission
	}

	w, err := parseWindow(q, s.now())
	if err != nil {
		return nil, err
	}

	staff, err := s.repo.Staff.GetByID(ctx, techID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.String("tech_id", techID), zap.Error(err))
		return nil, err
	}

	card := s.compute(*staff, w, s.ledger.Snapshot())
	return &card, nil
}

// ────────────────────── Leaderboard ──────────────────────

func (s *performanceService) Leaderboard(ctx context.Context, q *dto.WindowQuery, callerID, callerRole string) (*dto.LeaderboardResponse, error) {
	w, err := parseWindow(q, s.now())
	if err != nil {
		return nil, err
	}

	var staff []model.Staff
	if model.IsAdminRole(callerRole) {
		staff, err = s.repo.Staff.ListAll(ctx)
		if err != nil {
			s.logger.Error("查询员工目录失败", zap.Error(err))
			return nil, err
		}
	} else {
		self, err := s.repo.Staff.GetByID(ctx, callerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStaffNotFound
			}
			return nil, err
		}
		staff = []model.Staff{*self}
	}

	src := s.ledger.Snapshot()
	cards := make([]dto.ScorecardResponse, 0, len(staff))
	for _, member := range staff {
		cards = append(cards, s.compute(member, w, src))
	}
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Score != cards[j].Score {
			return cards[i].Score > cards[j].Score
		}
		return cards[i].Staff.Name < cards[j].Staff.Name
	})

	return &dto.LeaderboardResponse{Window: toWindowResponse(w), Scorecards: cards}, nil
}

// compute 每次调用都基于快照全量重算，不缓存
func (s *performanceService) compute(staff model.Staff, w performance.Window, src performance.Sources) dto.ScorecardResponse {
	sig := performance.Collect(staff, w, src)
	b := performance.Aggregate(sig)
	tier := performance.Classify(b.Score)

	metrics.ScorecardsComputed.WithLabelValues(string(w.Granularity)).Inc()
	metrics.TierAssignments.WithLabelValues(tier.Name).Inc()

	merits := make([]dto.DutyRecordResponse, 0, len(sig.Merits))
	for _, m := range sig.Merits {
		merits = append(merits, toDutyRecordResponse(m))
	}

	return dto.ScorecardResponse{
		Staff:  toStaffResponse(&staff),
		Window: toWindowResponse(w),
		Score:  b.Score,
		Tier:   toTierResponse(tier),
		Breakdown: dto.BreakdownResponse{
			AttendancePoints: b.AttendancePoints,
			BonusPoints:      b.BonusPoints,
			QCPoints:         b.QCPoints,
			TaskPoints:       b.TaskPoints,
		},
		Signals: dto.SignalCounts{
			AttendanceRecords: len(sig.Attendance),
			MeritRecords:      len(sig.Merits),
			FixedUnits:        len(sig.FixedUnits),
			DeadlineTasks:     len(sig.DeadlineTasks),
		},
		Merits: merits,
	}
}
