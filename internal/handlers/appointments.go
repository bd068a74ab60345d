package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/utils"
)

// AppointmentStore is the appointment record service.
type AppointmentStore interface {
	Create(ctx context.Context, req models.AppointmentCreate) (*models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, id string, req models.AppointmentUpdate) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// AppointmentHandler handles appointment-related requests.
type AppointmentHandler struct {
	appointments AppointmentStore
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments AppointmentStore) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// CreateAppointment books an appointment. New appointments start as scheduled.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.AppointmentCreate
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.appointments.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, appointment)
}

func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments, err := h.appointments.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, appointments)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, appointment)
}

// UpdateAppointment reschedules, changes status or adds notes.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req models.AppointmentUpdate
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.appointments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, appointment)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	utils.Message(c, "Appointment deleted successfully")
}
