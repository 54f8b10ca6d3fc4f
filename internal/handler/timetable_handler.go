package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest, actor string) (*models.GenerationDetail, error)
	List(ctx context.Context) ([]models.Generation, error)
	Get(ctx context.Context, id string) (*models.GenerationDetail, error)
	UpdateMetadata(ctx context.Context, id string, req dto.UpdateGenerationRequest) (*models.Generation, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (*models.Generation, error)
	UpdateSlot(ctx context.Context, generationID string, req dto.UpdateSlotRequest, actor string) (*models.TimetableSlot, error)
	Validate(ctx context.Context, id string) (*dto.ValidationReport, error)
	ResolveConflict(ctx context.Context, generationID, conflictID, actor string) (*models.Conflict, error)
}

type timetableExporter interface {
	Export(ctx context.Context, id string, format dto.ExportFormat) (*dto.ExportFile, error)
	TeacherCalendar(ctx context.Context, id, teacherID string) (*dto.ExportFile, error)
}

// TimetableHandler exposes timetable generation and lifecycle endpoints.
type TimetableHandler struct {
	service  timetableService
	exporter timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableService, exporter timetableExporter) *TimetableHandler {
	return &TimetableHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate a draft timetable
// @Description Runs the placement engine over the given assignments. Unplaced sessions are returned as conflicts.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	detail, err := h.service.Generate(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "slots", len(detail.Slots))
	middleware.SetMeta(c, "conflicts", len(detail.Conflicts))
	response.Created(c, detail, middleware.ExtractMeta(c))
}

// List godoc
// @Summary List generations, newest first
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, gin.H{"total": len(items)})
}

// Get godoc
// @Summary Get a generation with its slots and conflicts
// @Tags Timetable
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Update godoc
// @Summary Rename a generation or change its status
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Generation ID"
// @Param payload body dto.UpdateGenerationRequest true "Metadata payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req dto.UpdateGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	generation, err := h.service.UpdateMetadata(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, generation)
}

// Delete godoc
// @Summary Delete a generation with its slots and conflicts
// @Tags Timetable
// @Param id path string true "Generation ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Activate godoc
// @Summary Make a generation the active timetable
// @Description The previously active generation is archived.
// @Tags Timetable
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id}/activate [post]
func (h *TimetableHandler) Activate(c *gin.Context) {
	generation, err := h.service.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, generation)
}

// UpdateSlot godoc
// @Summary Manually edit a timetable slot
// @Description Placement rules are not re-checked. Use the validation endpoint afterwards.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Generation ID"
// @Param payload body dto.UpdateSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id}/slot [put]
func (h *TimetableHandler) UpdateSlot(c *gin.Context) {
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	slot, err := h.service.UpdateSlot(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Validate godoc
// @Summary Re-check a generation for double bookings and rule violations
// @Tags Timetable
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id}/validation [get]
func (h *TimetableHandler) Validate(c *gin.Context) {
	report, err := h.service.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ResolveConflict godoc
// @Summary Mark a conflict as resolved
// @Tags Timetable
// @Produce json
// @Param id path string true "Generation ID"
// @Param conflictId path string true "Conflict ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{id}/conflicts/{conflictId}/resolve [post]
func (h *TimetableHandler) ResolveConflict(c *gin.Context) {
	conflict, err := h.service.ResolveConflict(c.Request.Context(), c.Param("id"), c.Param("conflictId"), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflict)
}

// Export godoc
// @Summary Download a generation
// @Tags Timetable
// @Produce octet-stream
// @Param id path string true "Generation ID"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /timetable/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := dto.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(dto.ExportFormatCSV))))
	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}

// TeacherCalendar godoc
// @Summary Download the weekly lessons of a teacher as iCalendar
// @Tags Timetable
// @Produce text/calendar
// @Param id path string true "Generation ID"
// @Param teacherId path string true "Teacher ID"
// @Success 200 {file} file
// @Router /timetable/{id}/teachers/{teacherId}/calendar.ics [get]
func (h *TimetableHandler) TeacherCalendar(c *gin.Context) {
	file, err := h.exporter.TeacherCalendar(c.Request.Context(), c.Param("id"), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}
