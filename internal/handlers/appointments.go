package handlers

import (
	"context"
	"net/http"

	"taskclinic/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type AppointmentService interface {
	Create(ctx context.Context, caller models.Caller, input models.AppointmentInput) (*models.Appointment, error)
	List(ctx context.Context, caller models.Caller, params models.AppointmentParams) ([]models.Appointment, error)
	Get(ctx context.Context, caller models.Caller, id string) (*models.Appointment, error)
	Update(ctx context.Context, caller models.Caller, id string, patch models.AppointmentPatch) (*models.Appointment, error)
	Delete(ctx context.Context, caller models.Caller, id string) error
}

type AppointmentHandler struct {
	appointmentService AppointmentService
}

func NewAppointmentHandler(appointmentService AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input models.AppointmentInput
	if !bindJSON(c, &input) {
		return
	}
	appt, err := h.appointmentService.Create(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var params models.AppointmentParams
	if !bindQuery(c, &params) {
		return
	}
	appts, err := h.appointmentService.List(c.Request.Context(), caller, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	appt, err := h.appointmentService.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var patch models.AppointmentPatch
	if !bindJSON(c, &patch) {
		return
	}
	appt, err := h.appointmentService.Update(c.Request.Context(), caller, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	if err := h.appointmentService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment removed"})
}
