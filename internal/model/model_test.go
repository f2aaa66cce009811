package model

import "testing"

func TestIntArray_ScanValue(t *testing.T) {
	var a IntArray
	if err := a.Scan([]byte("{1,3,5}")); err != nil {
		t.Fatalf("Scan 失败: %v", err)
	}
	if len(a) != 3 || a[0] != 1 || a[2] != 5 {
		t.Fatalf("期望 [1 3 5]，实际=%v", a)
	}

	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value 失败: %v", err)
	}
	if v != "{1,3,5}" {
		t.Errorf("期望 {1,3,5}，实际=%v", v)
	}

	if err := a.Scan("{}"); err != nil || len(a) != 0 {
		t.Errorf("空数组解析异常: %v, %v", a, err)
	}
	if err := a.Scan("{x}"); err == nil {
		t.Error("非法元素应解析失败")
	}
}

func TestIntArray_Contains(t *testing.T) {
	a := IntArray{1, 2, 7}
	if !a.Contains(7) || a.Contains(3) {
		t.Errorf("Contains 结果异常: %v", a)
	}
}

func TestShift_StatusHelpers(t *testing.T) {
	cases := []struct {
		status    string
		matchable bool
		editable  bool
	}{
		{ShiftStatusScheduled, true, true},
		{ShiftStatusConfirmed, true, true},
		{ShiftStatusCompleted, false, false},
		{ShiftStatusCancelled, false, false},
	}
	for _, tc := range cases {
		s := &Shift{Status: tc.status}
		if s.IsMatchable() != tc.matchable {
			t.Errorf("%s: 期望 IsMatchable=%v", tc.status, tc.matchable)
		}
		if s.IsEditable() != tc.editable {
			t.Errorf("%s: 期望 IsEditable=%v", tc.status, tc.editable)
		}
	}
}

func TestTimeClockEntry_IsFinal(t *testing.T) {
	for status, want := range map[string]bool{
		EntryStatusOpen:     false,
		EntryStatusClosed:   false,
		EntryStatusApproved: true,
		EntryStatusRejected: true,
	} {
		e := &TimeClockEntry{Status: status}
		if e.IsFinal() != want {
			t.Errorf("%s: 期望 IsFinal=%v", status, want)
		}
	}
}

func TestIsSupervisorRole(t *testing.T) {
	if !IsSupervisorRole(RoleOwner) || !IsSupervisorRole(RoleManager) {
		t.Error("owner/manager 应为主管角色")
	}
	if IsSupervisorRole(RoleEmployee) || IsSupervisorRole("") {
		t.Error("employee 不应为主管角色")
	}
}
