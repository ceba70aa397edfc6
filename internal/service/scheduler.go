package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
)

// hoursBeforeWork antecedência do aviso de preparação para o trabalho
const hoursBeforeWork = 1

// NotificationScheduler avalia os gatilhos de notificação a cada tick,
// apenas dentro da janela configurada. Os gatilhos de jantar e trabalho
// casam minuto exato: um tick perdido naquele minuto pula o evento do dia,
// sem correção posterior. O lembrete de pendências repete a cada tick.
type NotificationScheduler struct {
	session *session.Session
	banner  Notifier
	system  Notifier
	now     func() time.Time
	tick    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotificationScheduler cria o agendador. now é injetável para testes;
// nil usa o relógio de parede.
func NewNotificationScheduler(sess *session.Session, banner, system Notifier, tick time.Duration, now func() time.Time) *NotificationScheduler {
	if now == nil {
		now = time.Now
	}
	if tick <= 0 {
		tick = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &NotificationScheduler{
		session: sess,
		banner:  banner,
		system:  system,
		now:     now,
		tick:    tick,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start inicia o loop de ticks em background
func (s *NotificationScheduler) Start() {
	log := logger.Global()
	log.Info().Dur("tick", s.tick).Msg("Iniciando NotificationScheduler")

	s.wg.Add(1)
	go s.loop()
}

// Stop para o agendador e aguarda o tick corrente terminar
func (s *NotificationScheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	logger.Global().Info().Msg("NotificationScheduler parado")
}

func (s *NotificationScheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Tick(s.ctx)
		}
	}
}

// Tick executa uma avaliação completa dos gatilhos para o instante atual.
// Exportado para que testes avancem o relógio sem esperas reais.
func (s *NotificationScheduler) Tick(ctx context.Context) {
	now := s.now()
	current := now.Format("15:04")
	settings := s.session.Settings()

	if !InWindow(settings.NotifWindow, current) {
		return
	}

	// Gatilho do jantar: fim da janela menos o offset, minuto exato
	if dinner, err := SubtractHours(settings.NotifWindow.End, settings.DinnerOffset); err == nil && current == dinner {
		s.fire(ctx, settings, Notification{
			Title: "Hora de Cocinar",
			Body:  "Prepara la cena para mantener tu Horario Zen.",
			Icon:  "chef-hat",
		})
	}

	// Gatilho de preparação para o trabalho, minuto exato
	if settings.WorkStartTime != "" {
		if prep, err := SubtractHours(settings.WorkStartTime, hoursBeforeWork); err == nil && current == prep {
			s.fire(ctx, settings, Notification{
				Title: "Preparar el Trabajo",
				Body:  "Tu jornada comienza en una hora.",
				Icon:  "briefcase",
			})
		}
	}

	// Lembrete de pendências: repete em todos os ticks dentro da janela
	if pending := s.session.PendingCount(s.session.Today()); pending > 0 {
		s.fire(ctx, settings, Notification{
			Title: "Tareas Pendientes",
			Body:  fmt.Sprintf("Tienes %d tareas pendientes para hoy.", pending),
			Icon:  "list-checks",
		})
	}
}

// fire entrega pelos dois canais independentes: banner sempre, sistema só
// quando habilitado. Falha em um canal não afeta o outro.
func (s *NotificationScheduler) fire(ctx context.Context, settings model.Settings, n Notification) {
	log := logger.Get(ctx)

	if err := s.banner.Deliver(ctx, n); err != nil {
		metrics.Get().IncrementNotification(false)
		log.Warn().Err(err).Str("title", n.Title).Msg("Falha ao entregar banner")
	} else {
		metrics.Get().IncrementNotification(true)
	}

	if settings.NotificationsEnabled && s.system != nil {
		if err := s.system.Deliver(ctx, n); err != nil {
			metrics.Get().IncrementNotification(false)
			log.Warn().Err(err).Str("title", n.Title).Msg("Falha ao entregar notificação de sistema")
			logger.Audit(ctx, logger.AuditEvent{
				Action:   logger.AuditActionNotifFailed,
				Resource: "notification",
				Details:  map[string]interface{}{"title": n.Title},
				Success:  false,
				Error:    err.Error(),
			})
			return
		}
		metrics.Get().IncrementNotification(true)
	}

	logger.Audit(ctx, logger.AuditEvent{
		Action:   logger.AuditActionNotifSent,
		Resource: "notification",
		Details:  map[string]interface{}{"title": n.Title},
		Success:  true,
	})
}

// InWindow verifica se o horário HH:MM está dentro da janela, inclusivo nas
// duas pontas. Comparação lexicográfica: válida porque os horários são
// zero-padded em 24h.
func InWindow(w model.NotifWindow, current string) bool {
	return w.Start <= current && current <= w.End
}

// SubtractHours subtrai n horas de um horário HH:MM, com wrap em 24h
func SubtractHours(hhmm string, n int) (string, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return "", model.ErrInvalidTime
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", model.ErrInvalidTime
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", model.ErrInvalidTime
	}

	hour = ((hour-n)%24 + 24) % 24
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
