package service

import (
	"context"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/session"
)

// RolloverEngine avança tarefas incompletas vencidas para hoje, escalando a
// prioridade. Roda uma vez na inicialização e sob demanda via API.
type RolloverEngine struct {
	session *session.Session
}

// NewRolloverEngine cria um novo motor de rollover
func NewRolloverEngine(sess *session.Session) *RolloverEngine {
	return &RolloverEngine{session: sess}
}

// Run executa a passada de rollover. Reexecutar no mesmo dia não muda nada:
// tarefas já avançadas não satisfazem dueDate < today.
func (e *RolloverEngine) Run(ctx context.Context) (int, error) {
	log := logger.Get(ctx)

	settings := e.session.Settings()
	if !settings.AutoRollover {
		log.Debug().Msg("Rollover automático desabilitado, pulando")
		return 0, nil
	}

	today := e.session.Today()
	changed, err := e.session.Rollover(today)
	if err != nil {
		log.Error().Err(err).Msg("Erro ao persistir rollover")
		return changed, err
	}

	if changed > 0 {
		metrics.Get().AddTasksRolledOver(int64(changed))
		logger.Audit(ctx, logger.AuditEvent{
			Action:   logger.AuditActionTaskRollover,
			Resource: "tasks",
			Details:  map[string]interface{}{"changed": changed, "today": today},
			Success:  true,
		})
		log.Info().Int("changed", changed).Str("today", today).Msg("Rollover aplicado")
	}

	return changed, nil
}
