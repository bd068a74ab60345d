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

// AppointmentRepository persists appointment records.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	FindAll(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type AppointmentService struct {
	appointments AppointmentRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewAppointmentService(appointments AppointmentRepository, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{appointments: appointments, logger: logger, now: time.Now}
}

// Create books an appointment in the scheduled state. The patient id is not
// checked against the patient collection.
func (s *AppointmentService) Create(ctx context.Context, req models.AppointmentCreate) (*models.Appointment, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}

	appointment := models.Appointment{
		BaseModel:       models.BaseModel{ID: models.NewID()},
		PatientID:       req.PatientID,
		PatientName:     req.PatientName,
		DoctorName:      req.DoctorName,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Reason:          req.Reason,
		Status:          models.StatusScheduled,
		Notes:           req.Notes,
		CreatedAt:       models.NewTimestamp(s.now()),
	}

	if err := s.appointments.Create(ctx, &appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.logger.Debug("appointment created", zap.String("appointment_id", appointment.ID))
	return &appointment, nil
}

// List returns up to repository.MaxListSize appointments.
func (s *AppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	appointments, err := s.appointments.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Appointment")
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	return appointment, nil
}

// Update applies only the supplied fields.
func (s *AppointmentService) Update(ctx context.Context, id string, req models.AppointmentUpdate) (*models.Appointment, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := req.Changes()
	if len(changes) == 0 {
		return existing, nil
	}
	if err := s.appointments.Update(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if err := s.appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Appointment")
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	s.logger.Debug("appointment deleted", zap.String("appointment_id", id))
	return nil
}
