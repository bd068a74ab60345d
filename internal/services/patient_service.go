package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"smartclinic-server/internal/models"
	"smartclinic-server/internal/repository"
)

// PatientRepository persists patient records.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	FindAll(ctx context.Context) ([]models.Patient, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type PatientService struct {
	patients PatientRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewPatientService(patients PatientRepository, logger *zap.Logger) *PatientService {
	return &PatientService{patients: patients, logger: logger, now: time.Now}
}

// Create stores a new patient with created_at == updated_at.
func (s *PatientService) Create(ctx context.Context, req models.PatientCreate) (*models.Patient, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}

	stamp := models.NewTimestamp(s.now())
	patient := models.Patient{
		BaseModel:      models.BaseModel{ID: models.NewID()},
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}

	if err := s.patients.Create(ctx, &patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	s.logger.Debug("patient created", zap.String("patient_id", patient.ID))
	return &patient, nil
}

// List returns up to repository.MaxListSize patients.
func (s *PatientService) List(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.patients.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Patient")
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return patient, nil
}

// Update applies only the supplied fields and refreshes updated_at.
func (s *PatientService) Update(ctx context.Context, id string, req models.PatientUpdate) (*models.Patient, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	changes := req.Changes()
	changes["updated_at"] = models.NewTimestamp(s.now())

	if err := s.patients.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a patient. Appointments referencing it are kept.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Patient")
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	s.logger.Debug("patient deleted", zap.String("patient_id", id))
	return nil
}
