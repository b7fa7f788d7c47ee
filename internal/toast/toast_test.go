package toast

import (
	"strings"
	"testing"
	"time"
)

func TestModel_ShowSetsCurrent(t *testing.T) {
	// Given: an empty toast model
	var m Model

	// When: a toast message arrives
	m, cmd := m.Update(Msg{Toast: Toast{Message: "saved", Severity: Success}})

	// Then: the toast is visible and an expiry tick is scheduled
	if !m.Active() {
		t.Fatal("toast should be active")
	}
	if got := m.Current().Message; got != "saved" {
		t.Errorf("Current().Message = %q", got)
	}
	if cmd == nil {
		t.Error("Update should schedule an expiry tick")
	}
}

func TestModel_ExpiryClearsCurrent(t *testing.T) {
	var m Model
	m, _ = m.Update(Msg{Toast: Toast{Message: "saved", Severity: Info}})

	m, _ = m.Update(expiredMsg{seq: 1})

	if m.Active() {
		t.Error("toast should be cleared after expiry")
	}
}

func TestModel_StaleExpiryIgnored(t *testing.T) {
	// Given: two toasts shown in sequence
	var m Model
	m, _ = m.Update(Msg{Toast: Toast{Message: "first", Severity: Info}})
	m, _ = m.Update(Msg{Toast: Toast{Message: "second", Severity: Warning}})

	// When: the first toast's expiry arrives late
	m, _ = m.Update(expiredMsg{seq: 1})

	// Then: the second toast is still visible
	if !m.Active() {
		t.Fatal("second toast should still be active")
	}
	if got := m.Current().Message; got != "second" {
		t.Errorf("Current().Message = %q, want %q", got, "second")
	}
}

func TestModel_ZeroDurationGetsDefault(t *testing.T) {
	var m Model
	m, _ = m.Update(Msg{Toast: Toast{Message: "x"}})

	if got := m.Current().Duration; got != DefaultDuration {
		t.Errorf("Duration = %v, want %v", got, DefaultDuration)
	}
}

func TestView_EmptyWhenInactive(t *testing.T) {
	var m Model
	if got := m.View(); got != "" {
		t.Errorf("View() = %q, want empty", got)
	}
}

func TestWriterSink_PrefixesSeverity(t *testing.T) {
	var sb strings.Builder
	sink := WriterSink{W: &sb}

	sink.Notify("request failed", Error, time.Second)

	if got := sb.String(); got != "[error] request failed\n" {
		t.Errorf("Notify wrote %q", got)
	}
}

func TestSeverity_String(t *testing.T) {
	cases := []struct {
		sev  Severity
		want string
	}{
		{Info, "info"},
		{Success, "success"},
		{Warning, "warning"},
		{Error, "error"},
	}
	for _, tc := range cases {
		if got := tc.sev.String(); got != tc.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tc.sev, got, tc.want)
		}
	}
}
