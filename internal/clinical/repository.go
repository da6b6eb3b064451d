package clinical

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/notSure-ded/healthCare/pkg/database"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

const dateLayout = "2006-01-02"

// isInvalidID reports whether err is Postgres 22P02, raised when a path id
// that is not a valid UUID reaches a UUID column. Such ids match no row, so
// callers treat them as not found.
func isInvalidID(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "22P02"
}

// PatientRepository implements patient data persistence. Every query is
// scoped by the owning account: an unowned row and an absent row are both
// sql.ErrNoRows, so callers cannot tell the two apart.
type PatientRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *database.DB, log *logger.Logger) *PatientRepository {
	return &PatientRepository{
		db:     db,
		logger: log,
	}
}

// Create creates a new patient owned by ownerID
func (r *PatientRepository) Create(ownerID string, patient *types.Patient) error {
	query := `
		INSERT INTO patients (id, name, date_of_birth, address, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		patient.ID,
		patient.Name,
		patient.DateOfBirth,
		patient.Address,
		ownerID,
		patient.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"patient_id": patient.ID,
		"owner_id":   ownerID,
	}).Info("Patient created successfully")
	return nil
}

// List retrieves all patients owned by ownerID
func (r *PatientRepository) List(ownerID string) ([]*types.Patient, error) {
	query := `
		SELECT p.id, p.name, p.date_of_birth, p.address, u.email, p.created_at
		FROM patients p
		JOIN users u ON u.id = p.created_by
		WHERE p.created_by = $1
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	patients := make([]*types.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient row: %w", err)
		}
		patients = append(patients, patient)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patient rows: %w", err)
	}

	return patients, nil
}

// GetByID retrieves a patient by ID, scoped to ownerID
func (r *PatientRepository) GetByID(ownerID, id string) (*types.Patient, error) {
	query := `
		SELECT p.id, p.name, p.date_of_birth, p.address, u.email, p.created_at
		FROM patients p
		JOIN users u ON u.id = p.created_by
		WHERE p.id = $1 AND p.created_by = $2`

	patient, err := scanPatient(r.db.QueryRow(query, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, types.NewNotFoundError(types.ErrCodePatientNotFound, "Patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return patient, nil
}

// Update updates a patient's mutable fields, scoped to ownerID
func (r *PatientRepository) Update(ownerID, id string, req *types.PatientRequest) error {
	query := `
		UPDATE patients
		SET name = $1, date_of_birth = $2, address = $3
		WHERE id = $4 AND created_by = $5`

	result, err := r.db.Exec(query, req.Name, req.DateOfBirth, req.Address, id, ownerID)
	if err != nil {
		if isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodePatientNotFound, "Patient not found")
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodePatientNotFound, "Patient not found")
	}

	return nil
}

// Delete deletes a patient, scoped to ownerID. Mappings referencing the
// patient are removed by the storage-level cascade.
func (r *PatientRepository) Delete(ownerID, id string) error {
	query := `DELETE FROM patients WHERE id = $1 AND created_by = $2`

	result, err := r.db.Exec(query, id, ownerID)
	if err != nil {
		if isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodePatientNotFound, "Patient not found")
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodePatientNotFound, "Patient not found")
	}

	r.logger.WithField("patient_id", id).Info("Patient deleted successfully")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*types.Patient, error) {
	var patient types.Patient
	var dob time.Time

	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&dob,
		&patient.Address,
		&patient.CreatedBy,
		&patient.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	patient.DateOfBirth = dob.Format(dateLayout)
	return &patient, nil
}

// DoctorRepository implements doctor data persistence. Doctor records are
// global and not scoped to any account.
type DoctorRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *database.DB, log *logger.Logger) *DoctorRepository {
	return &DoctorRepository{
		db:     db,
		logger: log,
	}
}

// Create creates a new doctor
func (r *DoctorRepository) Create(doctor *types.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, specialization, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	r.logger.WithField("doctor_id", doctor.ID).Info("Doctor created successfully")
	return nil
}

// List retrieves all doctors
func (r *DoctorRepository) List() ([]*types.Doctor, error) {
	query := `
		SELECT id, name, specialization, created_at
		FROM doctors
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]*types.Doctor, 0)
	for rows.Next() {
		var doctor types.Doctor
		err := rows.Scan(
			&doctor.ID,
			&doctor.Name,
			&doctor.Specialization,
			&doctor.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doctor row: %w", err)
		}
		doctors = append(doctors, &doctor)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctor rows: %w", err)
	}

	return doctors, nil
}

// GetByID retrieves a doctor by ID
func (r *DoctorRepository) GetByID(id string) (*types.Doctor, error) {
	query := `
		SELECT id, name, specialization, created_at
		FROM doctors
		WHERE id = $1`

	var doctor types.Doctor

	err := r.db.QueryRow(query, id).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialization,
		&doctor.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, types.NewNotFoundError(types.ErrCodeDoctorNotFound, "Doctor not found")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	return &doctor, nil
}

// Update updates a doctor's fields
func (r *DoctorRepository) Update(id string, req *types.DoctorRequest) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2
		WHERE id = $3`

	result, err := r.db.Exec(query, req.Name, req.Specialization, id)
	if err != nil {
		if isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodeDoctorNotFound, "Doctor not found")
		}
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeDoctorNotFound, "Doctor not found")
	}

	return nil
}

// Delete deletes a doctor. Mappings referencing the doctor are removed by
// the storage-level cascade.
func (r *DoctorRepository) Delete(id string) error {
	query := `DELETE FROM doctors WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		if isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodeDoctorNotFound, "Doctor not found")
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeDoctorNotFound, "Doctor not found")
	}

	r.logger.WithField("doctor_id", id).Info("Doctor deleted successfully")
	return nil
}
