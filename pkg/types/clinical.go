package types

import "time"

// Patient represents a clinical subject owned by the account that created it
type Patient struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	DateOfBirth string    `json:"date_of_birth" db:"date_of_birth"`
	Address     string    `json:"address" db:"address"`
	CreatedBy   string    `json:"created_by" db:"created_by"` // owner's email on read
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PatientRequest represents patient create/update data
type PatientRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	Address     string `json:"address" binding:"required"`
}

// Doctor represents a provider record, not owned by any account
type Doctor struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Specialization string    `json:"specialization" db:"specialization"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DoctorRequest represents doctor create/update data
type DoctorRequest struct {
	Name           string `json:"name" binding:"required,max=255"`
	Specialization string `json:"specialization" binding:"required,max=255"`
}

// Mapping represents an assignment of one patient to one doctor.
// Reads carry the nested patient and doctor representations; writes
// accept raw id references via MappingRequest.
type Mapping struct {
	ID         string    `json:"id" db:"id"`
	PatientID  string    `json:"-" db:"patient_id"`
	DoctorID   string    `json:"-" db:"doctor_id"`
	Patient    *Patient  `json:"patient,omitempty"`
	Doctor     *Doctor   `json:"doctor,omitempty"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

// MappingRequest represents mapping create data
type MappingRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	DoctorID  string `json:"doctor_id" binding:"required"`
}
