package service

import (
	"fmt"
	"math"
	"time"

	"tablehub/backend/internal/model"
)

// 打卡对账参数
const (
	// MatchWindow 班次开始时间落在打卡时刻前后该范围内视为窗口内匹配
	MatchWindow = 30 * time.Minute
	// WarningThresholdMinutes 偏差绝对值超过该分钟数即产生预警
	WarningThresholdMinutes = 30
)

// Reconciliation 对账结果
// Shift 为 nil 表示未匹配到班次，此时 DeviationMinutes 也为 nil 且 Warning 恒为 true
type Reconciliation struct {
	Shift            *model.Shift
	DeviationMinutes *int
	Warning          bool
}

// Reconcile 将打卡时刻 t 与员工当天的班次对账
// 纯函数：不做 I/O，结果只取决于入参
func Reconcile(t time.Time, shifts []model.Shift) Reconciliation {
	matched := MatchShift(t, shifts)
	if matched == nil {
		return Reconciliation{Warning: true}
	}
	dev := DeviationMinutes(t, matched.StartTime)
	return Reconciliation{
		Shift:            matched,
		DeviationMinutes: &dev,
		Warning:          IsDeviationWarning(&dev),
	}
}

// MatchShift 选出与 t 对应的班次
//
// 规则：
//  1. 仅计划中 / 已确认的班次为候选
//  2. 开始时间落在 [t-30min, t+30min] 内的候选优先，取距 t 最近者，距离相同取开始更早者
//  3. 窗口内无候选时，取开始时间距 t 最近者（同样以更早者打破平局）
//  4. 无候选返回 nil
func MatchShift(t time.Time, shifts []model.Shift) *model.Shift {
	var (
		best         *model.Shift
		bestDist     time.Duration
		bestInWindow bool
	)
	for i := range shifts {
		s := &shifts[i]
		if !s.IsMatchable() {
			continue
		}
		dist := absDuration(s.StartTime.Sub(t))
		inWindow := dist <= MatchWindow

		if best == nil || betterCandidate(inWindow, dist, s.StartTime, bestInWindow, bestDist, best.StartTime) {
			best, bestDist, bestInWindow = s, dist, inWindow
		}
	}
	return best
}

func betterCandidate(inWindow bool, dist time.Duration, start time.Time, bestInWindow bool, bestDist time.Duration, bestStart time.Time) bool {
	if inWindow != bestInWindow {
		return inWindow
	}
	if dist != bestDist {
		return dist < bestDist
	}
	return start.Before(bestStart)
}

// DeviationMinutes (t - ref) 的分钟数，四舍五入到整数，.5 向正无穷取整
func DeviationMinutes(t, ref time.Time) int {
	minutes := float64(t.Sub(ref).Milliseconds()) / 60000
	return int(math.Floor(minutes + 0.5))
}

// IsDeviationWarning 无偏差（未匹配班次）或偏差超过阈值
func IsDeviationWarning(dev *int) bool {
	if dev == nil {
		return true
	}
	return absInt(*dev) > WarningThresholdMinutes
}

// DayBounds t 在 loc 时区所属自然日的 [开始, 次日开始)
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// EndOfDay t 在 loc 时区当天的 23:59:59
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	_, next := DayBounds(t, loc)
	return next.Add(-time.Second)
}

// StatutoryBreakMinutes 按班次时长推算法定休息分钟数：超过 9 小时 45 分钟，超过 6 小时 30 分钟
func StatutoryBreakMinutes(d time.Duration) int {
	switch {
	case d > 9*time.Hour:
		return 45
	case d > 6*time.Hour:
		return 30
	default:
		return 0
	}
}

// ── 预警文案 ──

func clockInWarning(r Reconciliation) *string {
	if !r.Warning {
		return nil
	}
	if r.Shift == nil {
		return strPtr("今日未找到匹配的班次")
	}
	return strPtr(deviationText("上班", *r.DeviationMinutes))
}

func clockOutWarning(dev *int) *string {
	if dev == nil {
		return strPtr("该打卡记录未关联班次")
	}
	if !IsDeviationWarning(dev) {
		return nil
	}
	return strPtr(deviationText("下班", *dev))
}

func deviationText(kind string, dev int) string {
	if dev > 0 {
		return fmt.Sprintf("%s打卡比计划晚 %d 分钟", kind, dev)
	}
	return fmt.Sprintf("%s打卡比计划早 %d 分钟", kind, -dev)
}

// ── 小工具 ──

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func strPtr(s string) *string { return &s }
