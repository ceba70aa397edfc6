package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// AuditAction representa o tipo de ação auditada
type AuditAction string

const (
	// Operações de tarefa
	AuditActionTaskCreate   AuditAction = "TASK_CREATE"
	AuditActionTaskToggle   AuditAction = "TASK_TOGGLE"
	AuditActionTaskDelete   AuditAction = "TASK_DELETE"
	AuditActionTaskRollover AuditAction = "TASK_ROLLOVER"

	// Inteligência diária
	AuditActionIntelRun    AuditAction = "INTEL_RUN"
	AuditActionIntelInject AuditAction = "INTEL_INJECT"

	// Configurações
	AuditActionSettingsUpdate AuditAction = "SETTINGS_UPDATE"
	AuditActionMarketRegister AuditAction = "MARKET_REGISTER"

	// Inventário e compras
	AuditActionInventoryRestock AuditAction = "INVENTORY_RESTOCK"
	AuditActionInventoryConsume AuditAction = "INVENTORY_CONSUME"
	AuditActionShoppingUpdate   AuditAction = "SHOPPING_UPDATE"
	AuditActionScanIngest       AuditAction = "SCAN_INGEST"

	// Notificações
	AuditActionNotifSent   AuditAction = "NOTIF_SENT"
	AuditActionNotifFailed AuditAction = "NOTIF_FAILED"

	// WebSocket
	AuditActionWSConnect    AuditAction = "WS_CONNECT"
	AuditActionWSDisconnect AuditAction = "WS_DISCONNECT"

	// Relatórios
	AuditActionReportGenerate AuditAction = "REPORT_GENERATE"
)

// AuditEvent representa uma entrada no log de auditoria
type AuditEvent struct {
	Action     AuditAction
	Resource   string
	ResourceID string
	Details    map[string]interface{}
	ClientIP   string
	RequestID  string
	Success    bool
	Error      string
}

// auditLogger é um logger especializado para eventos de auditoria
var auditLogger zerolog.Logger

// InitAudit inicializa o logger de auditoria
func InitAudit() {
	auditLogger = globalLogger.With().Str("log_type", "audit").Logger()
}

// Audit registra um evento de auditoria
func Audit(ctx context.Context, event AuditEvent) {
	if event.RequestID == "" {
		event.RequestID = GetRequestID(ctx)
	}

	e := auditLogger.Info()
	if !event.Success {
		e = auditLogger.Warn()
	}

	e = e.
		Str("action", string(event.Action)).
		Bool("success", event.Success)

	if event.Resource != "" {
		e = e.Str("resource", event.Resource)
	}
	if event.ResourceID != "" {
		e = e.Str("resource_id", event.ResourceID)
	}
	if event.ClientIP != "" {
		e = e.Str("client_ip", event.ClientIP)
	}
	if event.RequestID != "" {
		e = e.Str("request_id", event.RequestID)
	}
	if event.Error != "" {
		e = e.Str("error", event.Error)
	}
	if len(event.Details) > 0 {
		e = e.Fields(event.Details)
	}

	e.Msg("audit")
}
