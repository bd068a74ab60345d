package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/utils"
)

// PatientStore is the patient record service.
type PatientStore interface {
	Create(ctx context.Context, req models.PatientCreate) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	Get(ctx context.Context, id string) (*models.Patient, error)
	Update(ctx context.Context, id string, req models.PatientUpdate) (*models.Patient, error)
	Delete(ctx context.Context, id string) error
}

// PatientHandler handles patient record requests.
type PatientHandler struct {
	patients PatientStore
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(patients PatientStore) *PatientHandler {
	return &PatientHandler{patients: patients}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req models.PatientCreate
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.patients.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, patient)
}

func (h *PatientHandler) GetPatients(c *gin.Context) {
	patients, err := h.patients.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, patients)
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, err := h.patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, patient)
}

// UpdatePatient applies only the fields present in the body.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req models.PatientUpdate
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.patients.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.Success(c, patient)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.patients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	utils.Message(c, "Patient deleted successfully")
}
