package repository

import (
	"context"

	"gorm.io/gorm"

	"smartclinic-server/internal/models"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Create(appointment).Error)
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &appointment, nil
}

// FindAll returns at most MaxListSize appointments in no guaranteed order.
func (r *AppointmentRepository) FindAll(ctx context.Context) ([]models.Appointment, error) {
	appointments := []models.Appointment{}
	err := r.db.WithContext(ctx).Limit(MaxListSize).Find(&appointments).Error
	return appointments, err
}

// Update applies the column assignments to one row. Columns not in changes are untouched.
func (r *AppointmentRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(changes).Error
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
