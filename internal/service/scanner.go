package service

import (
	"context"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/session"
)

// ScannerService recebe o resultado do subsistema de escaneamento de faturas
// (o OCR em si acontece fora deste serviço) e alimenta o inventário.
type ScannerService struct {
	session *session.Session
}

// NewScannerService cria o serviço de ingestão de escaneamentos
func NewScannerService(sess *session.Session) *ScannerService {
	return &ScannerService{session: sess}
}

// Ingest aplica cada item detectado como reposição de inventário. Itens
// inválidos são pulados com log; os demais seguem normalmente.
func (s *ScannerService) Ingest(ctx context.Context, items []model.ScanItem) ([]model.InventoryItem, error) {
	log := logger.Get(ctx)

	updated := make([]model.InventoryItem, 0, len(items))
	skipped := 0

	for _, item := range items {
		if item.Name == "" || item.Quantity <= 0 {
			skipped++
			continue
		}

		inv, err := s.session.UpdateInventory(item.Name, item.Quantity)
		if err != nil {
			log.Warn().Err(err).Str("name", item.Name).Int("quantity", item.Quantity).
				Msg("Item de escaneamento rejeitado")
			skipped++
			continue
		}
		updated = append(updated, inv)
		metrics.Get().IncrementInventoryRestock()
	}

	logger.Audit(ctx, logger.AuditEvent{
		Action:   logger.AuditActionScanIngest,
		Resource: "inventory",
		Details:  map[string]interface{}{"ingested": len(updated), "skipped": skipped},
		Success:  true,
	})

	log.Info().Int("ingested", len(updated)).Int("skipped", skipped).Msg("Escaneamento processado")
	return updated, nil
}
