package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-schedule-api/internal/dto"
	"github.com/noah-isme/academy-schedule-api/internal/models"
	"github.com/noah-isme/academy-schedule-api/internal/service"
	appErrors "github.com/noah-isme/academy-schedule-api/pkg/errors"
	"github.com/noah-isme/academy-schedule-api/pkg/response"
)

type scheduleService interface {
	Reconcile(ctx context.Context, course models.CourseScope, req dto.ReconcileScheduleRequest) (*models.ReconcileReport, error)
	DeleteCourse(ctx context.Context, course models.CourseScope) (*dto.CourseDeletionResponse, error)
	Timetable(ctx context.Context, scope models.TimetableScope) ([]models.TimeSlot, error)
	CheckSlot(ctx context.Context, scope models.TimetableScope, req dto.CheckSlotRequest) (*dto.CheckSlotResponse, error)
}

// ScheduleHandler exposes course schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Reconcile godoc
// @Summary Replace the weekly schedule of a course
// @Description Diffs the requested slots against the stored ones, rejects overlaps with the professor's other courses and regenerates "clase" session dates in one transaction.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param academyId path string true "Academy ID"
// @Param periodId path string true "Period ID"
// @Param professorId path string true "Professor ID"
// @Param subjectId path string true "Subject ID"
// @Param payload body dto.ReconcileScheduleRequest true "Desired schedule"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /academies/{academyId}/periods/{periodId}/courses/{professorId}/{subjectId}/schedule [put]
func (h *ScheduleHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	report, err := h.service.Reconcile(c.Request.Context(), courseScopeFromPath(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// DeleteCourse godoc
// @Summary Delete the schedule of a course
// @Tags Schedules
// @Produce json
// @Param academyId path string true "Academy ID"
// @Param periodId path string true "Period ID"
// @Param professorId path string true "Professor ID"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /academies/{academyId}/periods/{periodId}/courses/{professorId}/{subjectId} [delete]
func (h *ScheduleHandler) DeleteCourse(c *gin.Context) {
	result, err := h.service.DeleteCourse(c.Request.Context(), courseScopeFromPath(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Timetable godoc
// @Summary Professor timetable
// @Tags Schedules
// @Produce json
// @Param academyId path string true "Academy ID"
// @Param periodId path string true "Period ID"
// @Param professorId path string true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /academies/{academyId}/periods/{periodId}/professors/{professorId}/timetable [get]
func (h *ScheduleHandler) Timetable(c *gin.Context) {
	slots, err := h.service.Timetable(c.Request.Context(), timetableScopeFromPath(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, map[string]interface{}{"count": len(slots)})
}

// CheckSlot godoc
// @Summary Check one slot against the professor timetable
// @Tags Schedules
// @Accept json
// @Produce json
// @Param academyId path string true "Academy ID"
// @Param periodId path string true "Period ID"
// @Param professorId path string true "Professor ID"
// @Param payload body dto.CheckSlotRequest true "Slot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /academies/{academyId}/periods/{periodId}/professors/{professorId}/time-slots/check [post]
func (h *ScheduleHandler) CheckSlot(c *gin.Context) {
	var req dto.CheckSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	result, err := h.service.CheckSlot(c.Request.Context(), timetableScopeFromPath(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
