package performance

import (
	"fmt"
	"time"

	"infofix/backend/internal/model"
)

// Granularity 统计时间粒度
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity 解析粒度字符串，空串按 month 处理
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDay, GranularityMonth, GranularityYear:
		return Granularity(s), nil
	case "":
		return GranularityMonth, nil
	default:
		return "", fmt.Errorf("%w: 未知的时间粒度 %q", ErrValidationFailed, s)
	}
}

// Window 以参考日期 + 粒度定义的统计窗口
//
// day 匹配同一天，month 匹配同年同月，year 匹配同年；是分级包含判断而非滚动区间。
type Window struct {
	Reference   time.Time   `json:"reference_date"`
	Granularity Granularity `json:"granularity"`
}

// NewWindow 构造窗口，参考日期截取为日历日期
func NewWindow(reference time.Time, g Granularity) Window {
	return Window{Reference: model.CivilDate(reference), Granularity: g}
}

// Contains 判断日期是否落在窗口内
func (w Window) Contains(d time.Time) bool {
	ry, rm, rd := w.Reference.Date()
	y, m, day := d.Date()
	switch w.Granularity {
	case GranularityDay:
		return y == ry && m == rm && day == rd
	case GranularityMonth:
		return y == ry && m == rm
	case GranularityYear:
		return y == ry
	default:
		return false
	}
}

// Start 窗口首日（含）
func (w Window) Start() time.Time {
	y, m, d := w.Reference.Date()
	switch w.Granularity {
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	case GranularityYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// End 窗口末日（含）
func (w Window) End() time.Time {
	y, m, d := w.Reference.Date()
	switch w.Granularity {
	case GranularityMonth:
		return time.Date(y, m, daysIn(y, m), 0, 0, 0, 0, time.UTC)
	case GranularityYear:
		return time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Label 窗口的可读标签：2025-03-14 / 2025-03 / 2025
func (w Window) Label() string {
	switch w.Granularity {
	case GranularityMonth:
		return w.Reference.Format("2006-01")
	case GranularityYear:
		return w.Reference.Format("2006")
	default:
		return w.Reference.Format("2006-01-02")
	}
}

// ── 时间窗口导航 ──

// Step 将参考日期按粒度移动一个单位
// 月 / 年移动保留日号，目标月份不存在该日时取当月最后一天（1-31 → 2-28）
func Step(reference time.Time, g Granularity, direction int) (time.Time, error) {
	if direction != -1 && direction != 1 {
		return time.Time{}, fmt.Errorf("%w: 方向只能为 -1 或 +1，实际 %d", ErrValidationFailed, direction)
	}
	ref := model.CivilDate(reference)
	switch g {
	case GranularityDay:
		return ref.AddDate(0, 0, direction), nil
	case GranularityMonth:
		return addMonthsClamped(ref, direction), nil
	case GranularityYear:
		return addMonthsClamped(ref, 12*direction), nil
	default:
		return time.Time{}, fmt.Errorf("%w: 未知的时间粒度 %q", ErrValidationFailed, g)
	}
}

// Navigator 时间窗口导航器：参考日期 + 粒度
// 切换粒度不改变参考日期
type Navigator struct {
	reference   time.Time
	granularity Granularity
}

// NewNavigator 创建导航器
func NewNavigator(reference time.Time, g Granularity) *Navigator {
	return &Navigator{reference: model.CivilDate(reference), granularity: g}
}

// Advance 按当前粒度前进（+1）或后退（-1）一个单位
func (n *Navigator) Advance(direction int) error {
	next, err := Step(n.reference, n.granularity, direction)
	if err != nil {
		return err
	}
	n.reference = next
	return nil
}

// SetGranularity 切换粒度
func (n *Navigator) SetGranularity(g Granularity) { n.granularity = g }

// SetReference 直接跳转到指定日期
func (n *Navigator) SetReference(d time.Time) { n.reference = model.CivilDate(d) }

// Reference 当前参考日期
func (n *Navigator) Reference() time.Time { return n.reference }

// Granularity 当前粒度
func (n *Navigator) Granularity() Granularity { return n.granularity }

// Window 当前窗口
func (n *Navigator) Window() Window { return Window{Reference: n.reference, Granularity: n.granularity} }

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	ty, tm, _ := first.Date()
	if last := daysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
