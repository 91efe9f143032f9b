package performance

import (
	"sync"
	"time"

	"infofix/backend/internal/model"
)

// Ledger 进程内的值班登记册
//
// 持有登记册记录、设备报告和任务三个集合，由 Load 整体替换；
// 登记册记录只由 Manager 在远端写入确认成功后修改。
// 整体加载与 Manager 写操作经 Exclusive 串行，读操作不受其阻塞。
type Ledger struct {
	writes   sync.Mutex
	mu       sync.RWMutex
	records  []Record
	reports  []model.DeviceReport
	tasks    []model.Task
	loadedAt time.Time
}

// NewLedger 创建空登记册
func NewLedger() *Ledger {
	return &Ledger{}
}

// Exclusive 持有写入闸门执行 fn
//
// 加载方在读取远端之前进入闸门，替换完成之后离开。
func (l *Ledger) Exclusive(fn func()) {
	l.writes.Lock()
	defer l.writes.Unlock()
	fn()
}

// ReplaceRecords 整体替换登记册记录
func (l *Ledger) ReplaceRecords(records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]Record(nil), records...)
	l.loadedAt = time.Now()
}

// ReplaceReports 整体替换设备报告
func (l *Ledger) ReplaceReports(reports []model.DeviceReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append([]model.DeviceReport(nil), reports...)
}

// ReplaceTasks 整体替换任务
func (l *Ledger) ReplaceTasks(tasks []model.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = append([]model.Task(nil), tasks...)
}

// Snapshot 返回三个集合的拷贝，供 Collect 使用
func (l *Ledger) Snapshot() Sources {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Sources{
		Records: append([]Record(nil), l.records...),
		Reports: append([]model.DeviceReport(nil), l.reports...),
		Tasks:   append([]model.Task(nil), l.tasks...),
	}
}

// Find 按 (id, 类型) 查找记录
func (l *Ledger) Find(key RecordKey) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.Key() == key {
			return r, true
		}
	}
	return nil, false
}

// FindAttendance 查找出勤记录
func (l *Ledger) FindAttendance(id string) (AttendanceRecord, bool) {
	rec, ok := l.Find(RecordKey{ID: id, Kind: KindAttendance})
	if !ok {
		return AttendanceRecord{}, false
	}
	return rec.(AttendanceRecord), true
}

// FindMerit 查找奖惩记录
func (l *Ledger) FindMerit(id string) (MeritRecord, bool) {
	rec, ok := l.Find(RecordKey{ID: id, Kind: KindMerit})
	if !ok {
		return MeritRecord{}, false
	}
	return rec.(MeritRecord), true
}

// Records 按员工与类型过滤记录；techID / kind 为空表示不过滤
func (l *Ledger) Records(techID string, kind Kind) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, 0)
	for _, r := range l.records {
		if techID != "" && r.Header().TechID != techID {
			continue
		}
		if kind != "" && r.Kind() != kind {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Counts 三个集合的大小
func (l *Ledger) Counts() (records, reports, tasks int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records), len(l.reports), len(l.tasks)
}

// LoadedAt 最近一次整体加载登记册记录的时间
func (l *Ledger) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

// ── Manager 专用写入 ──

func (l *Ledger) add(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

func (l *Ledger) replace(r Record) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].Key() == r.Key() {
			l.records[i] = r
			return true
		}
	}
	return false
}

func (l *Ledger) remove(key RecordKey) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].Key() == key {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return true
		}
	}
	return false
}
