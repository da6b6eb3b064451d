package assignment

import (
	"context"
	"database/sql"
	"fmt"

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

// MappingRepository implements patient-doctor mapping persistence
type MappingRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(db *database.DB, log *logger.Logger) *MappingRepository {
	return &MappingRepository{
		db:     db,
		logger: log,
	}
}

// Create persists a mapping after verifying, inside one transaction and in
// this order: the patient is owned by ownerID, the doctor exists, and the
// (patient, doctor) pair is not already mapped. The order determines which
// error a malformed request observes first. The unique constraint on the
// pair backs the duplicate check against concurrent writers.
func (r *MappingRepository) Create(ownerID string, mapping *types.Mapping) error {
	ctx := context.Background()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Patient, scoped to the caller. Absent and unowned look the same.
	var patientID string
	err = tx.QueryRow(
		`SELECT id FROM patients WHERE id = $1 AND created_by = $2`,
		mapping.PatientID, ownerID,
	).Scan(&patientID)
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodePatientNotFound, "Patient not found")
		}
		return fmt.Errorf("failed to resolve patient: %w", err)
	}

	// 2. Doctor, global.
	var doctorID string
	err = tx.QueryRow(
		`SELECT id FROM doctors WHERE id = $1`,
		mapping.DoctorID,
	).Scan(&doctorID)
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodeDoctorNotFound, "Doctor not found")
		}
		return fmt.Errorf("failed to resolve doctor: %w", err)
	}

	// 3. At most one mapping per (patient, doctor) pair.
	var exists bool
	err = tx.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM patient_doctor_mappings WHERE patient_id = $1 AND doctor_id = $2)`,
		mapping.PatientID, mapping.DoctorID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check existing mapping: %w", err)
	}
	if exists {
		return duplicateMappingError()
	}

	_, err = tx.Exec(
		`INSERT INTO patient_doctor_mappings (id, patient_id, doctor_id, assigned_at)
		 VALUES ($1, $2, $3, $4)`,
		mapping.ID, mapping.PatientID, mapping.DoctorID, mapping.AssignedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// A concurrent writer inserted the pair between the check
			// and the insert.
			return duplicateMappingError()
		}
		return fmt.Errorf("failed to create mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"mapping_id": mapping.ID,
		"patient_id": mapping.PatientID,
		"doctor_id":  mapping.DoctorID,
	}).Info("Mapping created successfully")
	return nil
}

// GetByID retrieves a mapping with its nested patient and doctor
// representations, scoped to the patient's owner
func (r *MappingRepository) GetByID(ownerID, id string) (*types.Mapping, error) {
	query := mappingSelect + `
		WHERE m.id = $1 AND p.created_by = $2`

	mapping, err := scanMapping(r.db.QueryRow(query, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, types.NewNotFoundError(types.ErrCodeMappingNotFound, "Mapping not found")
		}
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	return mapping, nil
}

// ListForOwner retrieves all mappings whose patient is owned by ownerID
func (r *MappingRepository) ListForOwner(ownerID string) ([]*types.Mapping, error) {
	query := mappingSelect + `
		WHERE p.created_by = $1
		ORDER BY m.assigned_at DESC`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings: %w", err)
	}
	defer rows.Close()

	mappings := make([]*types.Mapping, 0)
	for rows.Next() {
		mapping, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping row: %w", err)
		}
		mappings = append(mappings, mapping)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mapping rows: %w", err)
	}

	return mappings, nil
}

// ListDoctorsForPatient retrieves the doctors assigned to a patient owned
// by ownerID. A patient that is absent or owned by another account yields
// an empty list, not an error.
func (r *MappingRepository) ListDoctorsForPatient(ownerID, patientID string) ([]*types.Doctor, error) {
	query := `
		SELECT d.id, d.name, d.specialization, d.created_at
		FROM patient_doctor_mappings m
		JOIN patients p ON p.id = m.patient_id
		JOIN doctors d ON d.id = m.doctor_id
		WHERE m.patient_id = $1 AND p.created_by = $2
		ORDER BY m.assigned_at DESC`

	rows, err := r.db.Query(query, patientID, ownerID)
	if err != nil {
		// A malformed patient id matches nothing, same as an unowned one.
		if isInvalidID(err) {
			return make([]*types.Doctor, 0), nil
		}
		return nil, fmt.Errorf("failed to list assigned doctors: %w", err)
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

// Delete deletes a mapping if its patient is owned by ownerID
func (r *MappingRepository) Delete(ownerID, id string) error {
	query := `
		DELETE FROM patient_doctor_mappings m
		USING patients p
		WHERE m.id = $1 AND m.patient_id = p.id AND p.created_by = $2`

	result, err := r.db.Exec(query, id, ownerID)
	if err != nil {
		if isInvalidID(err) {
			return types.NewNotFoundError(types.ErrCodeMappingNotFound, "Mapping not found")
		}
		return fmt.Errorf("failed to delete mapping: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeMappingNotFound, "Mapping not found")
	}

	r.logger.WithField("mapping_id", id).Info("Mapping deleted successfully")
	return nil
}

const mappingSelect = `
		SELECT m.id, m.assigned_at,
			p.id, p.name, p.date_of_birth, p.address, u.email, p.created_at,
			d.id, d.name, d.specialization, d.created_at
		FROM patient_doctor_mappings m
		JOIN patients p ON p.id = m.patient_id
		JOIN users u ON u.id = p.created_by
		JOIN doctors d ON d.id = m.doctor_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMapping(row rowScanner) (*types.Mapping, error) {
	var mapping types.Mapping
	var patient types.Patient
	var doctor types.Doctor
	var dob sql.NullTime

	err := row.Scan(
		&mapping.ID,
		&mapping.AssignedAt,
		&patient.ID,
		&patient.Name,
		&dob,
		&patient.Address,
		&patient.CreatedBy,
		&patient.CreatedAt,
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialization,
		&doctor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dob.Valid {
		patient.DateOfBirth = dob.Time.Format(dateLayout)
	}

	mapping.PatientID = patient.ID
	mapping.DoctorID = doctor.ID
	mapping.Patient = &patient
	mapping.Doctor = &doctor
	return &mapping, nil
}

func duplicateMappingError() error {
	return types.NewValidationError(
		types.ErrCodeMappingExists,
		"This patient is already assigned to this doctor",
		map[string]interface{}{"fields": []string{"patient_id", "doctor_id"}},
	)
}
