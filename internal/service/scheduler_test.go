package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
)

// fakeNotifier captura as notificações entregues para inspeção
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []Notification
	fail  bool
	calls int
}

func (f *fakeNotifier) Deliver(ctx context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return context.DeadlineExceeded
	}
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, n := range f.sent {
		out[i] = n.Title
	}
	return out
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.calls = 0
}

func hasTitle(titles []string, want string) bool {
	for _, title := range titles {
		if title == want {
			return true
		}
	}
	return false
}

func newTestScheduler(t *testing.T, now *time.Time) (*NotificationScheduler, *session.Session, *fakeNotifier, *fakeNotifier) {
	t.Helper()

	sess := newServiceSession(t, now)
	banner := &fakeNotifier{}
	system := &fakeNotifier{}
	sched := NewNotificationScheduler(sess, banner, system, time.Minute, func() time.Time { return *now })
	return sched, sess, banner, system
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestSchedulerWindowBoundaries(t *testing.T) {
	now := at(17, 59)
	sched, sess, banner, _ := newTestScheduler(t, &now)

	sess.AddTask(session.NewTask{Title: "Pasear al perro", DueDate: "2026-03-10"})

	// Default window is 18:00-22:00, inclusive on both ends
	sched.Tick(context.Background())
	if len(banner.titles()) != 0 {
		t.Errorf("17:59 is before the window, got %v", banner.titles())
	}

	now = at(18, 0)
	sched.Tick(context.Background())
	if !hasTitle(banner.titles(), "Tareas Pendientes") {
		t.Error("18:00 is inside the window, pending reminder should fire")
	}

	banner.reset()
	now = at(22, 0)
	sched.Tick(context.Background())
	if !hasTitle(banner.titles(), "Tareas Pendientes") {
		t.Error("22:00 is inside the window (inclusive end)")
	}

	banner.reset()
	now = at(22, 1)
	sched.Tick(context.Background())
	if len(banner.titles()) != 0 {
		t.Errorf("22:01 is past the window, got %v", banner.titles())
	}
}

func TestSchedulerDinnerTrigger(t *testing.T) {
	now := at(20, 0)
	sched, _, banner, _ := newTestScheduler(t, &now)

	// Window end 22:00 minus dinner offset 2 puts the trigger at 20:00 sharp
	sched.Tick(context.Background())
	if !hasTitle(banner.titles(), "Hora de Cocinar") {
		t.Errorf("Dinner trigger should fire at the exact minute, got %v", banner.titles())
	}

	banner.reset()
	now = at(20, 1)
	sched.Tick(context.Background())
	if hasTitle(banner.titles(), "Hora de Cocinar") {
		t.Error("Dinner trigger must not fire one minute late")
	}
}

func TestSchedulerWorkPrepTrigger(t *testing.T) {
	now := at(8, 0)
	sched, sess, banner, _ := newTestScheduler(t, &now)

	// Work prep fires one hour before the work start, but only inside the window
	settings := sess.Settings()
	settings.NotifWindow = model.NotifWindow{Start: "07:00", End: "22:00"}
	if _, err := sess.UpdateSettings(settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	sched.Tick(context.Background())
	if !hasTitle(banner.titles(), "Preparar el Trabajo") {
		t.Errorf("Work prep should fire at 08:00 for a 09:00 start, got %v", banner.titles())
	}
}

func TestSchedulerWorkPrepOutsideWindow(t *testing.T) {
	now := at(8, 0)
	sched, _, banner, _ := newTestScheduler(t, &now)

	// Default window starts at 18:00: nothing may fire at 08:00
	sched.Tick(context.Background())
	if len(banner.titles()) != 0 {
		t.Errorf("No trigger may fire outside the window, got %v", banner.titles())
	}
}

func TestSchedulerPendingReminderRepeats(t *testing.T) {
	now := at(19, 0)
	sched, sess, banner, _ := newTestScheduler(t, &now)

	sess.AddTask(session.NewTask{Title: "Pasear al perro", DueDate: "2026-03-10"})

	sched.Tick(context.Background())
	now = at(19, 1)
	sched.Tick(context.Background())

	count := 0
	for _, title := range banner.titles() {
		if title == "Tareas Pendientes" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("Pending reminder should repeat every tick, got %d", count)
	}

	// Completing the task silences the reminder
	banner.reset()
	task := sess.Tasks()[0]
	sess.ToggleTask(task.ID)
	now = at(19, 2)
	sched.Tick(context.Background())
	if hasTitle(banner.titles(), "Tareas Pendientes") {
		t.Error("Reminder should stop once nothing is pending")
	}
}

func TestSchedulerSystemChannelGating(t *testing.T) {
	now := at(20, 0)
	sched, sess, banner, system := newTestScheduler(t, &now)

	// Notifications disabled: banner only
	sched.Tick(context.Background())
	if len(banner.titles()) == 0 {
		t.Fatal("Banner channel should always deliver")
	}
	if system.calls != 0 {
		t.Errorf("System channel should be gated off, got %d calls", system.calls)
	}

	settings := sess.Settings()
	settings.NotificationsEnabled = true
	if _, err := sess.UpdateSettings(settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	banner.reset()
	system.reset()
	sched.Tick(context.Background())
	if system.calls == 0 {
		t.Error("System channel should deliver when enabled")
	}
}

func TestSchedulerChannelsIndependent(t *testing.T) {
	now := at(20, 0)
	sched, sess, banner, system := newTestScheduler(t, &now)

	settings := sess.Settings()
	settings.NotificationsEnabled = true
	sess.UpdateSettings(settings)

	// A failing system channel must not stop the banner
	system.fail = true
	sched.Tick(context.Background())
	if !hasTitle(banner.titles(), "Hora de Cocinar") {
		t.Error("Banner should deliver even when the system channel fails")
	}
}

func TestInWindow(t *testing.T) {
	window := model.NotifWindow{Start: "18:00", End: "22:00"}

	tests := []struct {
		current string
		want    bool
	}{
		{"17:59", false},
		{"18:00", true},
		{"20:30", true},
		{"22:00", true},
		{"22:01", false},
		{"00:00", false},
	}

	for _, tt := range tests {
		if got := InWindow(window, tt.current); got != tt.want {
			t.Errorf("InWindow(%s) = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func TestSubtractHours(t *testing.T) {
	tests := []struct {
		hhmm    string
		n       int
		want    string
		wantErr bool
	}{
		{"22:00", 2, "20:00", false},
		{"09:00", 1, "08:00", false},
		{"01:30", 2, "23:30", false},
		{"00:00", 1, "23:00", false},
		{"12:45", 0, "12:45", false},
		{"9:00", 1, "08:00", false},
		{"25:00", 1, "", true},
		{"12:60", 1, "", true},
		{"garbage", 1, "", true},
		{"", 1, "", true},
	}

	for _, tt := range tests {
		got, err := SubtractHours(tt.hhmm, tt.n)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SubtractHours(%q, %d) should fail", tt.hhmm, tt.n)
			}
			continue
		}
		if err != nil {
			t.Errorf("SubtractHours(%q, %d): %v", tt.hhmm, tt.n, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SubtractHours(%q, %d) = %s, want %s", tt.hhmm, tt.n, got, tt.want)
		}
	}
}
