package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/cleberrangel/horario-zen-api/internal/store"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRolloverEngine(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewRolloverEngine(sess)

	sess.AddTask(session.NewTask{Title: "Pasear al perro", DueDate: "2026-03-08", Priority: model.PriorityLow})
	done, _ := sess.AddTask(session.NewTask{Title: "Lavar platos", DueDate: "2026-03-07"})
	sess.ToggleTask(done.ID)

	changed, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if changed != 1 {
		t.Fatalf("Expected 1 task rolled over, got %d", changed)
	}

	for _, task := range sess.Tasks() {
		if task.Completed {
			if task.DueDate != "2026-03-07" {
				t.Errorf("Completed task should keep its date: %+v", task)
			}
			continue
		}
		if task.DueDate != "2026-03-10" || task.Priority != model.PriorityHigh {
			t.Errorf("Rolled task should be today/high: %+v", task)
		}
	}

	// Re-running on the same day is a no-op
	changed, err = engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Second run: %v", err)
	}
	if changed != 0 {
		t.Errorf("Second run should change nothing, got %d", changed)
	}
}

func TestRolloverEngineDisabled(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := newServiceSession(t, &now)
	engine := NewRolloverEngine(sess)

	settings := sess.Settings()
	settings.AutoRollover = false
	if _, err := sess.UpdateSettings(settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	sess.AddTask(session.NewTask{Title: "Pasear al perro", DueDate: "2026-03-01"})

	changed, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if changed != 0 {
		t.Errorf("Disabled rollover should change nothing, got %d", changed)
	}

	task := sess.Tasks()[0]
	if task.DueDate != "2026-03-01" {
		t.Errorf("Task should not move while rollover is disabled: %+v", task)
	}
}

// For any mix of overdue, current and completed tasks, a rollover pass leaves
// no incomplete task behind today, and a second pass changes nothing
func TestRolloverProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("no incomplete task stays overdue and rollover is idempotent", prop.ForAll(
		func(offsets []int, completedMask int) bool {
			now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
			st, err := store.NewFileStore(t.TempDir())
			if err != nil {
				return false
			}
			sess := session.New(st, func() time.Time { return now })
			sess.Load()

			today := "2026-03-10"
			for i, offset := range offsets {
				due := now.Add(-time.Duration(offset) * 24 * time.Hour).Format(model.DateLayout)
				task, err := sess.AddTask(session.NewTask{
					Title:   fmt.Sprintf("tarea %d", i),
					DueDate: due,
				})
				if err != nil {
					return false
				}
				if completedMask&(1<<uint(i%16)) != 0 {
					if _, err := sess.ToggleTask(task.ID); err != nil {
						return false
					}
				}
			}

			if _, err := sess.Rollover(today); err != nil {
				return false
			}
			for _, task := range sess.Tasks() {
				if !task.Completed && task.DueDate < today {
					return false
				}
			}

			changed, err := sess.Rollover(today)
			return err == nil && changed == 0
		},
		gen.SliceOf(gen.IntRange(0, 30)),
		gen.IntRange(0, 1<<16-1),
	))

	properties.TestingRun(t)
}
