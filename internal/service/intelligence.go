package service

import (
	"context"
	"strings"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
)

// daysNeverDone é o sentinela para limpezas profundas nunca registradas
const daysNeverDone = 999

// IntelligenceEngine sintetiza as tarefas recorrentes do dia a partir das
// cadências configuradas. Idempotente dentro do mesmo dia: a detecção de
// duplicata por tag de recorrência (ou substring no título, para tarefas
// renomeadas ou criadas pelo usuário) impede segunda injeção.
type IntelligenceEngine struct {
	session *session.Session
	now     func() time.Time
}

// NewIntelligenceEngine cria o motor de inteligência diária.
// now é injetável para testes; nil usa o relógio de parede.
func NewIntelligenceEngine(sess *session.Session, now func() time.Time) *IntelligenceEngine {
	if now == nil {
		now = time.Now
	}
	return &IntelligenceEngine{session: sess, now: now}
}

// Run sintetiza as tarefas recorrentes de hoje e retorna as injetadas
func (e *IntelligenceEngine) Run(ctx context.Context) ([]model.Task, error) {
	log := logger.Get(ctx)

	metrics.Get().IncrementIntelligenceRun()

	now := e.now()
	today := now.Format(model.DateLayout)
	settings := e.session.Settings()
	existing := e.session.GetScheduledTasks(today)

	var injected []model.Task

	// 1. Obrigatória: cozinhar o jantar
	if !hasRecurring(existing, model.RecurrenceCook, "cocinar", "cena") {
		task, err := e.session.AddTask(session.NewTask{
			Title:      "Cocinar Cena (Horario Zen)",
			Type:       model.TypeHogar,
			Priority:   model.PriorityHigh,
			DueDate:    today,
			Recurrence: model.RecurrenceCook,
		})
		if err != nil {
			return injected, err
		}
		injected = append(injected, task)
	}

	// 2. Roupa: cadência de limpeza profunda
	if daysSince(now, settings.LastDeepClean.Clothes) >= settings.CleaningFrequencies.Clothes {
		if !hasRecurring(existing, model.RecurrenceClothes, "ropa") {
			task, err := e.session.AddTask(session.NewTask{
				Title:      "Lavar ropa y prendas",
				Type:       model.TypeLimpieza,
				Priority:   model.PriorityMedium,
				DueDate:    today,
				Recurrence: model.RecurrenceClothes,
			})
			if err != nil {
				return injected, err
			}
			injected = append(injected, task)
		}
	}

	// 3. Lençóis: regra simétrica à da roupa
	if daysSince(now, settings.LastDeepClean.Sheets) >= settings.CleaningFrequencies.Sheets {
		if !hasRecurring(existing, model.RecurrenceSheets, "sábanas") {
			task, err := e.session.AddTask(session.NewTask{
				Title:      "Cambiar y lavar sábanas",
				Type:       model.TypeLimpieza,
				Priority:   model.PriorityLow,
				DueDate:    today,
				Recurrence: model.RecurrenceSheets,
			})
			if err != nil {
				return injected, err
			}
			injected = append(injected, task)
		}
	}

	// 4. Ciclo de mercado: dispara um dia antes da cadência vencer.
	// Só avaliado quando há registro de ida ao mercado.
	if settings.LastMarketDate != nil {
		if daysSince(now, settings.LastMarketDate) >= settings.MarketFrequency-1 {
			if !hasRecurring(existing, model.RecurrenceMarket, "mercado") {
				task, err := e.session.AddTask(session.NewTask{
					Title:      "Hacer Mercado (Reabastecer)",
					Type:       model.TypeCompras,
					Priority:   model.PriorityHigh,
					DueDate:    today,
					Recurrence: model.RecurrenceMarket,
				})
				if err != nil {
					return injected, err
				}
				injected = append(injected, task)
			}
		}
	}

	if len(injected) > 0 {
		metrics.Get().AddIntelligenceInjections(int64(len(injected)))
		titles := make([]string, len(injected))
		for i, t := range injected {
			titles[i] = t.Title
		}
		logger.Audit(ctx, logger.AuditEvent{
			Action:   logger.AuditActionIntelInject,
			Resource: "tasks",
			Details:  map[string]interface{}{"count": len(injected), "titles": titles},
			Success:  true,
		})
		log.Info().Int("injected", len(injected)).Str("today", today).Msg("Inteligência diária executada")
	} else {
		log.Debug().Str("today", today).Msg("Inteligência diária sem injeções")
	}

	return injected, nil
}

// daysSince conta dias inteiros desde t; nil conta como "muito atrasado"
func daysSince(now time.Time, t *time.Time) int {
	if t == nil {
		return daysNeverDone
	}
	return int(now.Sub(*t).Hours() / 24)
}

// hasRecurring detecta duplicata pela tag de recorrência ou, para tarefas
// criadas/renomeadas pelo usuário, por substring case-insensitive no título
func hasRecurring(tasks []model.Task, rec model.Recurrence, keywords ...string) bool {
	for _, t := range tasks {
		if t.Recurrence == rec {
			return true
		}
		title := strings.ToLower(t.Title)
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}
