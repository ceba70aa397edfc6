package service

import (
	"context"
	"testing"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/cleberrangel/horario-zen-api/internal/store"
)

func newServiceSession(t *testing.T, now *time.Time) *session.Session {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess := session.New(st, func() time.Time { return *now })
	sess.Load()
	return sess
}

func titlesOf(tasks []model.Task) map[string]bool {
	out := make(map[string]bool)
	for _, task := range tasks {
		out[task.Title] = true
	}
	return out
}

func TestIntelligenceFirstRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewIntelligenceEngine(sess, func() time.Time { return now })

	// Fresh state: deep cleans never done, no market trip registered
	injected, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(injected) != 3 {
		t.Fatalf("Expected 3 injections (cook, clothes, sheets), got %d", len(injected))
	}

	titles := titlesOf(injected)
	if !titles["Cocinar Cena (Horario Zen)"] {
		t.Error("Cook task not injected")
	}
	if !titles["Lavar ropa y prendas"] {
		t.Error("Clothes task not injected")
	}
	if !titles["Cambiar y lavar sábanas"] {
		t.Error("Sheets task not injected")
	}
	if titles["Hacer Mercado (Reabastecer)"] {
		t.Error("Market task must not be injected without a registered trip")
	}
}

func TestIntelligenceSecondRunInjectsNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewIntelligenceEngine(sess, func() time.Time { return now })

	first, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("First run: %v", err)
	}

	second, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Second run: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Second run should inject nothing, got %d", len(second))
	}
	if len(sess.Tasks()) != len(first) {
		t.Errorf("Task count changed on second run: %d vs %d", len(sess.Tasks()), len(first))
	}
}

func TestIntelligenceDuplicateByTitle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewIntelligenceEngine(sess, func() time.Time { return now })

	// User-created tasks without recurrence tags block injection by substring
	sess.AddTask(session.NewTask{Title: "Preparar la cena especial", DueDate: "2026-03-10"})
	sess.AddTask(session.NewTask{Title: "Llevar ropa a la tintorería", DueDate: "2026-03-10"})

	injected, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	titles := titlesOf(injected)
	if titles["Cocinar Cena (Horario Zen)"] {
		t.Error("Cook task should be blocked by 'cena' in an existing title")
	}
	if titles["Lavar ropa y prendas"] {
		t.Error("Clothes task should be blocked by 'ropa' in an existing title")
	}
	if !titles["Cambiar y lavar sábanas"] {
		t.Error("Sheets task should still be injected")
	}
}

func TestIntelligenceCadenceGating(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewIntelligenceEngine(sess, func() time.Time { return now })

	// Anchor both deep cleans at today by completing tagged tasks
	clothes, _ := sess.AddTask(session.NewTask{Title: "Lavar ropa y prendas", DueDate: "2026-03-09", Recurrence: model.RecurrenceClothes})
	sheets, _ := sess.AddTask(session.NewTask{Title: "Cambiar y lavar sábanas", DueDate: "2026-03-09", Recurrence: model.RecurrenceSheets})
	sess.ToggleTask(clothes.ID)
	sess.ToggleTask(sheets.ID)
	sess.DeleteTask(clothes.ID)
	sess.DeleteTask(sheets.ID)

	injected, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run at day 0: %v", err)
	}
	titles := titlesOf(injected)
	if titles["Lavar ropa y prendas"] || titles["Cambiar y lavar sábanas"] {
		t.Error("Deep cleans within cadence should not be injected")
	}

	// Clothes cadence is 3 days: due again at day 3, sheets (7 days) still not
	now = now.Add(3 * 24 * time.Hour)
	injected, err = engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run at day 3: %v", err)
	}
	titles = titlesOf(injected)
	if !titles["Lavar ropa y prendas"] {
		t.Error("Clothes task should be injected once its cadence elapses")
	}
	if titles["Cambiar y lavar sábanas"] {
		t.Error("Sheets task should not be injected before its cadence elapses")
	}
}

func TestIntelligenceMarketOneDayEarly(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewIntelligenceEngine(sess, func() time.Time { return now })

	sess.RegisterMarket()

	// Default cadence is 7 days; trigger fires one day early, at day 6
	now = now.Add(5 * 24 * time.Hour)
	injected, _ := engine.Run(context.Background())
	if titlesOf(injected)["Hacer Mercado (Reabastecer)"] {
		t.Error("Market task should not fire at day 5")
	}

	now = now.Add(24 * time.Hour)
	injected, _ = engine.Run(context.Background())
	if !titlesOf(injected)["Hacer Mercado (Reabastecer)"] {
		t.Error("Market task should fire at day 6 (one day before cadence)")
	}
}
