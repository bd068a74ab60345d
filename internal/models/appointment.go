package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a scheduled visit. PatientID is a plain reference,
// not a foreign key: it may point at a deleted patient, and the denormalized
// names stay valid for display.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patient_id"`
	PatientName     string            `gorm:"size:200;not null" json:"patient_name"`
	DoctorName      string            `gorm:"size:200;not null" json:"doctor_name"`
	AppointmentDate string            `gorm:"size:32;not null" json:"appointment_date"`
	AppointmentTime string            `gorm:"size:32;not null" json:"appointment_time"`
	Reason          string            `gorm:"size:255;not null" json:"reason"`
	Status          AppointmentStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	CreatedAt       Timestamp         `gorm:"type:varchar(32);not null" json:"created_at"`
}

// TableName keeps the collection name stable across drivers.
func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentCreate carries the fields accepted when an appointment is booked.
type AppointmentCreate struct {
	PatientID       string `json:"patient_id" binding:"required"`
	PatientName     string `json:"patient_name" binding:"required"`
	DoctorName      string `json:"doctor_name" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	Reason          string `json:"reason" binding:"required"`
	Notes           string `json:"notes"`
}

// AppointmentUpdate is a partial update. Nil fields are left untouched.
type AppointmentUpdate struct {
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
	Reason          *string `json:"reason"`
	Status          *string `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Notes           *string `json:"notes"`
}

// Changes returns the column assignments for every supplied field.
func (u AppointmentUpdate) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	setIfPresent(changes, "appointment_date", u.AppointmentDate)
	setIfPresent(changes, "appointment_time", u.AppointmentTime)
	setIfPresent(changes, "reason", u.Reason)
	setIfPresent(changes, "status", u.Status)
	setIfPresent(changes, "notes", u.Notes)
	return changes
}
