package repository

import (
	"context"

	"gorm.io/gorm"

	"smartclinic-server/internal/models"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return translate(r.db.WithContext(ctx).Create(patient).Error)
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

// FindAll returns at most MaxListSize patients in no guaranteed order.
func (r *PatientRepository) FindAll(ctx context.Context) ([]models.Patient, error) {
	patients := []models.Patient{}
	err := r.db.WithContext(ctx).Limit(MaxListSize).Find(&patients).Error
	return patients, err
}

// Update applies the column assignments to one row. Columns not in changes are untouched.
func (r *PatientRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", id).Updates(changes).Error
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Patient{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
