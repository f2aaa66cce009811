package service

import (
	"testing"
	"time"
	_ "time/tzdata"

	"tablehub/backend/internal/model"
)

var baseInstant = time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC)

func shiftAt(id string, start time.Time, status string) model.Shift {
	return model.Shift{
		ShiftID:   id,
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
		Status:    status,
	}
}

// ── 偏差计算 ──

func TestDeviationMinutes_Rounding(t *testing.T) {
	cases := []struct {
		name   string
		offset time.Duration
		want   int
	}{
		{"准点", 0, 0},
		{"晚 5 分钟", 5 * time.Minute, 5},
		{"早 5 分钟", -5 * time.Minute, -5},
		{"29.5 分钟向上取整", 29*time.Minute + 30*time.Second, 30},
		{"-29.5 分钟向正无穷取整", -(29*time.Minute + 30*time.Second), -29},
		{"30 分 29 秒", 30*time.Minute + 29*time.Second, 30},
		{"30 分 30 秒", 30*time.Minute + 30*time.Second, 31},
		{"不足半分钟舍去", 29 * time.Second, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeviationMinutes(baseInstant.Add(tc.offset), baseInstant)
			if got != tc.want {
				t.Errorf("期望偏差=%d，实际=%d", tc.want, got)
			}
		})
	}
}

func TestIsDeviationWarning(t *testing.T) {
	v := func(n int) *int { return &n }
	cases := []struct {
		dev  *int
		want bool
	}{
		{nil, true},
		{v(0), false},
		{v(30), false},
		{v(-30), false},
		{v(31), true},
		{v(-31), true},
	}
	for _, tc := range cases {
		if got := IsDeviationWarning(tc.dev); got != tc.want {
			t.Errorf("dev=%v 期望预警=%v，实际=%v", tc.dev, tc.want, got)
		}
	}
}

// ── 班次匹配 ──

func TestReconcile_OnTime(t *testing.T) {
	shifts := []model.Shift{shiftAt("s1", baseInstant, model.ShiftStatusScheduled)}

	r := Reconcile(baseInstant.Add(5*time.Minute), shifts)
	if r.Shift == nil || r.Shift.ShiftID != "s1" {
		t.Fatalf("期望匹配 s1，实际=%v", r.Shift)
	}
	if r.DeviationMinutes == nil || *r.DeviationMinutes != 5 {
		t.Errorf("期望偏差=5，实际=%v", r.DeviationMinutes)
	}
	if r.Warning {
		t.Error("偏差 5 分钟不应预警")
	}
}

func TestReconcile_NoShift(t *testing.T) {
	r := Reconcile(baseInstant, nil)
	if r.Shift != nil || r.DeviationMinutes != nil {
		t.Errorf("无班次时不应匹配，实际 shift=%v dev=%v", r.Shift, r.DeviationMinutes)
	}
	if !r.Warning {
		t.Error("无班次时应预警")
	}
}

func TestReconcile_OnlyScheduledOrConfirmed(t *testing.T) {
	shifts := []model.Shift{
		shiftAt("cancelled", baseInstant, model.ShiftStatusCancelled),
		shiftAt("completed", baseInstant.Add(5*time.Minute), model.ShiftStatusCompleted),
		shiftAt("later", baseInstant.Add(2*time.Hour), model.ShiftStatusConfirmed),
	}

	r := Reconcile(baseInstant, shifts)
	if r.Shift == nil || r.Shift.ShiftID != "later" {
		t.Fatalf("期望匹配 later，实际=%v", r.Shift)
	}
	if *r.DeviationMinutes != -120 {
		t.Errorf("期望偏差=-120，实际=%d", *r.DeviationMinutes)
	}
	if !r.Warning {
		t.Error("偏差 120 分钟应预警")
	}
}

func TestReconcile_OnlyInactiveShifts(t *testing.T) {
	shifts := []model.Shift{shiftAt("cancelled", baseInstant, model.ShiftStatusCancelled)}
	if r := Reconcile(baseInstant, shifts); r.Shift != nil || !r.Warning {
		t.Errorf("仅有已取消班次时期望未匹配且预警，实际 shift=%v warning=%v", r.Shift, r.Warning)
	}
}

func TestMatchShift_ClosestInWindow(t *testing.T) {
	shifts := []model.Shift{
		shiftAt("far", baseInstant.Add(-25*time.Minute), model.ShiftStatusScheduled),
		shiftAt("near", baseInstant.Add(10*time.Minute), model.ShiftStatusScheduled),
	}
	if got := MatchShift(baseInstant, shifts); got == nil || got.ShiftID != "near" {
		t.Errorf("期望匹配 near，实际=%v", got)
	}
}

func TestMatchShift_TieBreaksToEarliest(t *testing.T) {
	// 输入顺序不影响结果
	shifts := []model.Shift{
		shiftAt("after", baseInstant.Add(10*time.Minute), model.ShiftStatusScheduled),
		shiftAt("before", baseInstant.Add(-10*time.Minute), model.ShiftStatusScheduled),
	}
	if got := MatchShift(baseInstant, shifts); got == nil || got.ShiftID != "before" {
		t.Errorf("窗口内距离相同应取开始更早者，实际=%v", got)
	}

	far := []model.Shift{
		shiftAt("late", baseInstant.Add(3*time.Hour), model.ShiftStatusScheduled),
		shiftAt("early", baseInstant.Add(-3*time.Hour), model.ShiftStatusScheduled),
	}
	if got := MatchShift(baseInstant, far); got == nil || got.ShiftID != "early" {
		t.Errorf("窗口外距离相同应取开始更早者，实际=%v", got)
	}
}

func TestMatchShift_WindowEdge(t *testing.T) {
	shifts := []model.Shift{shiftAt("edge", baseInstant.Add(30*time.Minute), model.ShiftStatusScheduled)}
	r := Reconcile(baseInstant, shifts)
	if r.Shift == nil || *r.DeviationMinutes != -30 || r.Warning {
		t.Errorf("窗口边界上的班次期望偏差=-30 且不预警，实际 dev=%v warning=%v", r.DeviationMinutes, r.Warning)
	}

	shifts = []model.Shift{shiftAt("outside", baseInstant.Add(31*time.Minute), model.ShiftStatusScheduled)}
	r = Reconcile(baseInstant, shifts)
	if r.Shift == nil || *r.DeviationMinutes != -31 || !r.Warning {
		t.Errorf("窗口外 31 分钟期望偏差=-31 且预警，实际 dev=%v warning=%v", r.DeviationMinutes, r.Warning)
	}
}

// 班次开始于打卡后 30 分 20 秒：落在窗口外，由最近班次兜底匹配；
// 偏差四舍五入为 -30，因此不产生预警
func TestReconcile_FallbackJustOutsideWindow(t *testing.T) {
	start := baseInstant.Add(30*time.Minute + 20*time.Second)
	shifts := []model.Shift{shiftAt("s1", start, model.ShiftStatusScheduled)}

	if absDuration(start.Sub(baseInstant)) <= MatchWindow {
		t.Fatal("用例前提错误：班次应在窗口之外")
	}

	r := Reconcile(baseInstant, shifts)
	if r.Shift == nil || r.Shift.ShiftID != "s1" {
		t.Fatalf("期望兜底匹配 s1，实际=%v", r.Shift)
	}
	if *r.DeviationMinutes != -30 {
		t.Errorf("期望偏差=-30，实际=%d", *r.DeviationMinutes)
	}
	if r.Warning {
		t.Error("偏差 -30 不应预警")
	}
}

func TestReconcile_WarningMatchesDeviation(t *testing.T) {
	shifts := []model.Shift{shiftAt("s1", baseInstant, model.ShiftStatusScheduled)}
	for offset := -90 * time.Minute; offset <= 90*time.Minute; offset += 15 * time.Second {
		r := Reconcile(baseInstant.Add(offset), shifts)
		if r.DeviationMinutes == nil {
			t.Fatalf("offset=%v 期望匹配班次", offset)
		}
		want := absInt(*r.DeviationMinutes) > WarningThresholdMinutes
		if r.Warning != want {
			t.Errorf("offset=%v dev=%d 期望预警=%v，实际=%v", offset, *r.DeviationMinutes, want, r.Warning)
		}
	}
}

// ── 自然日 ──

func TestDayBounds_Timezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("加载时区失败: %v", err)
	}

	// 柏林 00:30 (CET) 对应 UTC 前一日 23:30，应归属柏林当天
	instant := time.Date(2030, 3, 3, 23, 30, 0, 0, time.UTC)
	start, end := DayBounds(instant, berlin)
	if want := time.Date(2030, 3, 3, 23, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("期望日开始=%v，实际=%v", want, start.UTC())
	}
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("期望日长度=24h，实际=%v", end.Sub(start))
	}
}

func TestDayBounds_DSTSwitch(t *testing.T) {
	berlin, _ := time.LoadLocation("Europe/Berlin")

	// 2030-03-31 夏令时开始，当天只有 23 小时
	start, end := DayBounds(time.Date(2030, 3, 31, 12, 0, 0, 0, time.UTC), berlin)
	if end.Sub(start) != 23*time.Hour {
		t.Errorf("期望日长度=23h，实际=%v", end.Sub(start))
	}
	if want := time.Date(2030, 3, 31, 22, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("期望日结束=%v，实际=%v", want, end.UTC())
	}
}

func TestEndOfDay(t *testing.T) {
	berlin, _ := time.LoadLocation("Europe/Berlin")
	got := EndOfDay(time.Date(2030, 3, 4, 8, 0, 0, 0, time.UTC), berlin)
	if want := time.Date(2030, 3, 4, 22, 59, 59, 0, time.UTC); !got.Equal(want) {
		t.Errorf("期望 %v，实际 %v", want, got.UTC())
	}
}

func TestStatutoryBreakMinutes(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{4 * time.Hour, 0},
		{6 * time.Hour, 0},
		{6*time.Hour + time.Minute, 30},
		{9 * time.Hour, 30},
		{9*time.Hour + time.Minute, 45},
		{12 * time.Hour, 45},
	}
	for _, tc := range cases {
		if got := StatutoryBreakMinutes(tc.d); got != tc.want {
			t.Errorf("时长=%v 期望休息=%d，实际=%d", tc.d, tc.want, got)
		}
	}
}

// ── 预警文案 ──

func TestWarningTexts(t *testing.T) {
	if w := clockInWarning(Reconciliation{Warning: true}); w == nil || *w != "今日未找到匹配的班次" {
		t.Errorf("未匹配文案错误: %v", w)
	}
	dev := 40
	if w := clockOutWarning(&dev); w == nil || *w != "下班打卡比计划晚 40 分钟" {
		t.Errorf("晚下班文案错误: %v", w)
	}
	early := -45
	r := Reconciliation{Shift: &model.Shift{}, DeviationMinutes: &early, Warning: true}
	if w := clockInWarning(r); w == nil || *w != "上班打卡比计划早 45 分钟" {
		t.Errorf("早上班文案错误: %v", w)
	}
	ok := 10
	if w := clockOutWarning(&ok); w != nil {
		t.Errorf("偏差 10 分钟不应有文案，实际=%s", *w)
	}
}
