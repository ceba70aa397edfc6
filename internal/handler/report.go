package handler

import (
	"fmt"
	"net/http"

	"github.com/cleberrangel/horario-zen-api/internal/cache"
	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/service"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles Excel report generation
type ReportHandler struct {
	session   *session.Session
	generator *service.ReportGenerator
	cache     *cache.Cache
}

// NewReportHandler creates a new report handler
func NewReportHandler(sess *session.Session, generator *service.ReportGenerator, reportCache *cache.Cache) *ReportHandler {
	return &ReportHandler{
		session:   sess,
		generator: generator,
		cache:     reportCache,
	}
}

// WeeklyReport generates the household Excel report
// @Summary      Weekly Excel report
// @Description  Generates an Excel file with tasks and inventory; cached per day
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} binary "Excel file"
// @Failure      500 {object} model.ErrorResponse
// @Router       /api/v1/reports/weekly [get]
func (h *ReportHandler) WeeklyReport(c *gin.Context) {
	log := logger.FromGin(c)

	today := h.session.Today()
	cacheKey := "report:weekly:" + today
	filename := fmt.Sprintf("horario-zen-%s.xlsx", today)

	if cached, found := h.cache.Get(cacheKey); found {
		if data, ok := cached.([]byte); ok {
			log.Debug().Str("key", cacheKey).Msg("Relatório servido do cache")
			h.serve(c, filename, data)
			return
		}
	}

	buf, err := h.generator.Generate(h.session.Tasks(), h.session.Inventory())
	if err != nil {
		metrics.Get().IncrementReportGenerated(false)
		log.Error().Err(err).Msg("Erro ao gerar relatório")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao gerar relatório",
			Details: err.Error(),
		})
		return
	}

	data := buf.Bytes()
	h.cache.Set(cacheKey, data)

	metrics.Get().IncrementReportGenerated(true)
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:   logger.AuditActionReportGenerate,
		Resource: "report",
		ClientIP: c.ClientIP(),
		Success:  true,
		Details: map[string]interface{}{
			"filename": filename,
			"bytes":    len(data),
		},
	})

	log.Info().Str("filename", filename).Int("bytes", len(data)).Msg("Relatório gerado com sucesso")

	h.serve(c, filename, data)
}

// serve configura os headers de download e envia o arquivo
func (h *ReportHandler) serve(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(http.StatusOK, xlsxContentType, data)
}
