package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"infofix/backend/internal/model"
	"infofix/backend/internal/repository"
	pkgerrors "infofix/backend/pkg/errors"
	"infofix/backend/pkg/redis"
)

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staff map[string]*model.Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staff: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) add(id, name, role string) *model.Staff {
	s := &model.Staff{ID: id, Name: name, Email: id + "@infofix.test", Role: role}
	m.staff[id] = s
	return s
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) ListAll(_ context.Context) ([]model.Staff, error) {
	result := make([]model.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStaffRepo) List(ctx context.Context, role string, offset, limit int) ([]model.Staff, int64, error) {
	all, _ := m.ListAll(ctx)
	var filtered []model.Staff
	for _, s := range all {
		if role == "" || s.Role == role {
			filtered = append(filtered, s)
		}
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []model.Staff{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

// ── Mock DutyRecordRepository ──

type mockDutyRecordRepo struct {
	rows     map[string]model.DutyRecord
	failNext error
	listErr  error
	inserts  int
	deleted  []string

	// afterList 在 ListAll 取得快照之后调用
	afterList func()
}

func newMockDutyRecordRepo() *mockDutyRecordRepo {
	return &mockDutyRecordRepo{rows: make(map[string]model.DutyRecord)}
}

func dutyKey(id, typ string) string { return typ + ":" + id }

func (m *mockDutyRecordRepo) take() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockDutyRecordRepo) ListAll(_ context.Context) ([]model.DutyRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.DutyRecord, 0, len(m.rows))
	for _, r := range m.rows {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if m.afterList != nil {
		m.afterList()
	}
	return result, nil
}

func (m *mockDutyRecordRepo) List(ctx context.Context, filter repository.DutyRecordFilter, offset, limit int) ([]model.DutyRecord, int64, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var filtered []model.DutyRecord
	for _, r := range all {
		if filter.TechID != "" && r.TechID != filter.TechID {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		filtered = append(filtered, r)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []model.DutyRecord{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockDutyRecordRepo) Insert(_ context.Context, row *model.DutyRecord) error {
	m.inserts++
	if err := m.take(); err != nil {
		return err
	}
	m.rows[dutyKey(row.ID, row.Type)] = *row
	return nil
}

func (m *mockDutyRecordRepo) Update(_ context.Context, row *model.DutyRecord) error {
	if err := m.take(); err != nil {
		return err
	}
	k := dutyKey(row.ID, row.Type)
	if _, ok := m.rows[k]; !ok {
		return pkgerrors.ErrRecordNotFound
	}
	m.rows[k] = *row
	return nil
}

func (m *mockDutyRecordRepo) Delete(_ context.Context, id string, recordType string) error {
	if err := m.take(); err != nil {
		return err
	}
	m.deleted = append(m.deleted, dutyKey(id, recordType))
	delete(m.rows, dutyKey(id, recordType))
	return nil
}

// ── Mock DeviceReportRepository ──

type mockDeviceReportRepo struct {
	reports []model.DeviceReport
	err     error
}

func (m *mockDeviceReportRepo) ListAll(_ context.Context) ([]model.DeviceReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reports, nil
}

// ── Mock TaskRepository ──

type mockTaskRepo struct {
	tasks []model.Task
	err   error
}

func (m *mockTaskRepo) ListAll(_ context.Context) ([]model.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.tasks, nil
}

func (m *mockTaskRepo) ListByAssignee(_ context.Context, techID string, from, to time.Time) ([]model.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Task
	for _, t := range m.tasks {
		if t.AssignedToID == techID && !t.TaskDate.Before(from) && !t.TaskDate.After(to) {
			result = append(result, t)
		}
	}
	return result, nil
}

// ── Mock RegistryPublisher ──

type mockPublisher struct {
	events []redis.RegistryEvent
	err    error
}

func (m *mockPublisher) PublishRegistryChange(_ context.Context, evt redis.RegistryEvent) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.events = append(m.events, evt)
	return 1, nil
}

// ── 测试环境 ──

type testEnv struct {
	svc       *Service
	staff     *mockStaffRepo
	records   *mockDutyRecordRepo
	reports   *mockDeviceReportRepo
	tasks     *mockTaskRepo
	publisher *mockPublisher
}

func setupTestEnv() *testEnv {
	env := &testEnv{
		staff:     newMockStaffRepo(),
		records:   newMockDutyRecordRepo(),
		reports:   &mockDeviceReportRepo{},
		tasks:     &mockTaskRepo{},
		publisher: &mockPublisher{},
	}
	repo := &repository.Repository{
		Staff:        env.staff,
		DutyRecord:   env.records,
		DeviceReport: env.reports,
		Task:         env.tasks,
	}
	env.svc = NewService(repo, env.publisher, zap.NewNop())
	return env
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
