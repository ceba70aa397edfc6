package integration

import (
	"context"
	"testing"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/service"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/cleberrangel/horario-zen-api/internal/store"
)

// Full first-day scenario: seed, synthesize, work, restock, restart.
func TestFirstDayLifecycle(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	st, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sess := session.New(st, clock)
	sess.Load()

	// First boot seeds the two starter tasks
	created, err := sess.InitDefaults()
	if err != nil {
		t.Fatalf("InitDefaults: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Expected 2 seed tasks, got %d", len(created))
	}

	// Daily intelligence adds cook, clothes and sheets on a fresh state
	intelligence := service.NewIntelligenceEngine(sess, clock)
	injected, err := intelligence.Run(context.Background())
	if err != nil {
		t.Fatalf("Intelligence run: %v", err)
	}
	if len(injected) != 3 {
		t.Fatalf("Expected 3 injected tasks, got %d", len(injected))
	}
	if len(sess.Tasks()) != 5 {
		t.Fatalf("Expected 5 tasks total, got %d", len(sess.Tasks()))
	}

	// Work through the day: complete the cleaning seed task
	var cleaning model.Task
	for _, task := range sess.Tasks() {
		if task.Title == "Limpieza de cocina" {
			cleaning = task
		}
	}
	if _, err := sess.ToggleTask(cleaning.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}

	// Restock from a scan result and consume some of it
	scanner := service.NewScannerService(sess)
	updated, err := scanner.Ingest(context.Background(), []model.ScanItem{
		{Name: "Leche", Quantity: 6},
		{Name: "", Quantity: 2}, // invalid, skipped
		{Name: "Arroz", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Scan ingest: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("Expected 2 ingested items, got %d", len(updated))
	}

	leche := updated[0]
	if _, err := sess.ConsumeItem(leche.ID, 2); err != nil {
		t.Fatalf("ConsumeItem: %v", err)
	}

	// Register the market trip to anchor its cadence
	if _, err := sess.RegisterMarket(); err != nil {
		t.Fatalf("RegisterMarket: %v", err)
	}

	// Generate the Excel report over the day's state
	report := service.NewReportGenerator()
	buf, err := report.Generate(sess.Tasks(), sess.Inventory())
	if err != nil {
		t.Fatalf("Report generate: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("Report should not be empty")
	}

	// Restart: a fresh session over the same directory sees everything
	st2, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore reopen: %v", err)
	}
	reloaded := session.New(st2, clock)
	reloaded.Load()

	if len(reloaded.Tasks()) != 5 {
		t.Errorf("Expected 5 tasks after reload, got %d", len(reloaded.Tasks()))
	}
	if again, _ := reloaded.InitDefaults(); again != nil {
		t.Error("InitDefaults after reload must not reseed")
	}
	if reloaded.Settings().LastMarketDate == nil {
		t.Error("Market date should survive the restart")
	}

	items := reloaded.Inventory()
	if len(items) != 2 {
		t.Fatalf("Expected 2 inventory items after reload, got %d", len(items))
	}
	for _, item := range items {
		if item.Name == "Leche" && (item.Quantity != 4 || item.Consumed != 2) {
			t.Errorf("Leche balance wrong after reload: %+v", item)
		}
	}

	// Next morning: rollover advances what was left incomplete
	now = now.Add(24 * time.Hour)
	rollover := service.NewRolloverEngine(reloaded)
	changed, err := rollover.Run(context.Background())
	if err != nil {
		t.Fatalf("Rollover run: %v", err)
	}
	if changed != 4 {
		t.Errorf("Expected 4 incomplete tasks rolled over, got %d", changed)
	}
	for _, task := range reloaded.Tasks() {
		if !task.Completed && task.DueDate != "2026-03-11" {
			t.Errorf("Incomplete task should be on today: %+v", task)
		}
	}
}
