package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/metrics"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/service"
	"github.com/cleberrangel/horario-zen-api/internal/session"
	"github.com/gin-gonic/gin"
)

// TaskHandler handles task requests
type TaskHandler struct {
	session      *session.Session
	rollover     *service.RolloverEngine
	intelligence *service.IntelligenceEngine
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(sess *session.Session, rollover *service.RolloverEngine, intelligence *service.IntelligenceEngine) *TaskHandler {
	return &TaskHandler{
		session:      sess,
		rollover:     rollover,
		intelligence: intelligence,
	}
}

// ListTasks returns the tasks scheduled for a date (default today)
// @Summary      List tasks
// @Description  Returns tasks scheduled for the given date; date=all returns everything
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Calendar date (YYYY-MM-DD) or 'all'"
// @Success      200 {object} model.Response
// @Router       /api/v1/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.session.Today()
	}

	var tasks []model.Task
	if date == "all" {
		tasks = h.session.Tasks()
	} else {
		tasks = h.session.GetScheduledTasks(date)
	}

	if tasks == nil {
		tasks = []model.Task{}
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    tasks,
	})
}

// CreateTask creates a new task
// @Summary      Create task
// @Description  Creates a task; omitted type/priority are designated from the title
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.AddTaskRequest true "Task to create"
// @Success      201 {object} model.Response
// @Failure      400 {object} model.ErrorResponse
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	log := logger.FromGin(c)

	var req model.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "payload inválido",
			Details: err.Error(),
		})
		return
	}

	task, err := h.session.AddTask(session.NewTask{
		Title:    req.Title,
		Type:     req.Type,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		log.Error().Err(err).Msg("Erro ao criar tarefa")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao criar tarefa",
			Details: err.Error(),
		})
		return
	}

	metrics.Get().IncrementTaskCreated()
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionTaskCreate,
		Resource:   "task",
		ResourceID: strconv.FormatInt(task.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"title":    task.Title,
			"type":     task.Type,
			"priority": task.Priority,
			"due_date": task.DueDate,
		},
	})

	log.Info().Int64("task_id", task.ID).Str("title", task.Title).Msg("Tarefa criada")

	c.JSON(http.StatusCreated, model.Response{
		Success: true,
		Data:    task,
	})
}

// ToggleTask flips the completion status of a task
// @Summary      Toggle task completion
// @Description  Inverts the completed flag; completing a deep clean updates its cadence anchor
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	log := logger.FromGin(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.session.ToggleTask(id)
	if err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Success: false,
				Error:   "tarefa não encontrada",
			})
			return
		}
		log.Error().Err(err).Int64("task_id", id).Msg("Erro ao alternar tarefa")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao alternar tarefa",
			Details: err.Error(),
		})
		return
	}

	if task.Completed {
		metrics.Get().IncrementTaskCompleted()
	}
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionTaskToggle,
		Resource:   "task",
		ResourceID: strconv.FormatInt(task.ID, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
		Details: map[string]interface{}{
			"completed": task.Completed,
		},
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    task,
	})
}

// DeleteTask removes a task
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Task ID"
// @Success      200 {object} model.Response
// @Failure      404 {object} model.ErrorResponse
// @Router       /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	log := logger.FromGin(c)

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.session.DeleteTask(id); err != nil {
		if errors.Is(err, model.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{
				Success: false,
				Error:   "tarefa não encontrada",
			})
			return
		}
		log.Error().Err(err).Int64("task_id", id).Msg("Erro ao remover tarefa")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao remover tarefa",
			Details: err.Error(),
		})
		return
	}

	metrics.Get().IncrementTaskDeleted()
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:     logger.AuditActionTaskDelete,
		Resource:   "task",
		ResourceID: strconv.FormatInt(id, 10),
		ClientIP:   c.ClientIP(),
		Success:    true,
	})

	c.JSON(http.StatusOK, model.Response{
		Success: true,
	})
}

// RunRollover triggers a rollover pass on demand
// @Summary      Run rollover
// @Description  Advances overdue incomplete tasks to today with high priority
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/rollover/run [post]
func (h *TaskHandler) RunRollover(c *gin.Context) {
	log := logger.FromGin(c)

	changed, err := h.rollover.Run(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Erro na passada de rollover")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao executar rollover",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    gin.H{"changed": changed},
	})
}

// RunIntelligence triggers the daily recurring-task synthesis on demand
// @Summary      Run daily intelligence
// @Description  Injects today's recurring tasks based on configured cadences
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.Response
// @Router       /api/v1/intelligence/run [post]
func (h *TaskHandler) RunIntelligence(c *gin.Context) {
	log := logger.FromGin(c)

	injected, err := h.intelligence.Run(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Erro na inteligência diária")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao executar inteligência diária",
			Details: err.Error(),
		})
		return
	}

	if injected == nil {
		injected = []model.Task{}
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    injected,
	})
}

// parseID extrai e valida o parâmetro :id da rota
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "id inválido",
		})
		return 0, false
	}
	return id, true
}
