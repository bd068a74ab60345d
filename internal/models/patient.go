package models

// Patient is a clinic patient record. It is not owned by any account.
type Patient struct {
	BaseModel
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	Email          string    `gorm:"size:255;not null" json:"email"`
	Phone          string    `gorm:"size:50;not null" json:"phone"`
	DateOfBirth    string    `gorm:"size:32;not null" json:"date_of_birth"`
	Gender         string    `gorm:"size:32;not null" json:"gender"`
	Address        string    `gorm:"size:255;not null" json:"address"`
	MedicalHistory string    `gorm:"type:text" json:"medical_history"`
	CreatedAt      Timestamp `gorm:"type:varchar(32);not null" json:"created_at"`
	UpdatedAt      Timestamp `gorm:"type:varchar(32);not null" json:"updated_at"`
}

// TableName keeps the collection name stable across drivers.
func (Patient) TableName() string {
	return "patients"
}

// PatientCreate carries the fields accepted when a patient is created.
type PatientCreate struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	DateOfBirth    string `json:"date_of_birth" binding:"required"`
	Gender         string `json:"gender" binding:"required"`
	Address        string `json:"address" binding:"required"`
	MedicalHistory string `json:"medical_history"`
}

// PatientUpdate is a partial update. Nil fields are left untouched.
type PatientUpdate struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	DateOfBirth    *string `json:"date_of_birth"`
	Gender         *string `json:"gender"`
	Address        *string `json:"address"`
	MedicalHistory *string `json:"medical_history"`
}

// Changes returns the column assignments for every supplied field.
func (u PatientUpdate) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setIfPresent(changes, "first_name", u.FirstName)
	setIfPresent(changes, "last_name", u.LastName)
	setIfPresent(changes, "email", u.Email)
	setIfPresent(changes, "phone", u.Phone)
	setIfPresent(changes, "date_of_birth", u.DateOfBirth)
	setIfPresent(changes, "gender", u.Gender)
	setIfPresent(changes, "address", u.Address)
	setIfPresent(changes, "medical_history", u.MedicalHistory)
	return changes
}

func setIfPresent(changes map[string]interface{}, column string, value *string) {
	if value != nil {
		changes[column] = *value
	}
}
