package assignment

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notSure-ded/healthCare/pkg/database"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

func setupMappingRepository(t *testing.T) (*MappingRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.NewWithDB(sqlDB, logger.New("error"))
	return NewMappingRepository(db, logger.New("error")), mock
}

func testMapping() *types.Mapping {
	return &types.Mapping{
		ID:         "mapping-1",
		PatientID:  "patient-1",
		DoctorID:   "doctor-5",
		AssignedAt: time.Now(),
	}
}

func TestMappingRepository_Create(t *testing.T) {
	repo, mock := setupMappingRepository(t)
	mapping := testMapping()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM patients").
		WithArgs("patient-1", "owner-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("patient-1"))
	mock.ExpectQuery("SELECT id FROM doctors").
		WithArgs("doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doctor-5"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("patient-1", "doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO patient_doctor_mappings").
		WithArgs(mapping.ID, "patient-1", "doctor-5", mapping.AssignedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create("owner-a", mapping)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingRepository_CreatePatientNotOwned(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	// The patient check fires first; the doctor and duplicate checks are
	// never reached.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM patients").
		WithArgs("patient-1", "owner-b").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Create("owner-b", testMapping())
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodePatientNotFound, svcErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingRepository_CreateMalformedPatientID(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mapping := testMapping()
	mapping.PatientID = "not-a-uuid"

	// 22P02 at the UUID column matches no row; same not-found as an
	// unowned patient.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM patients").
		WithArgs("not-a-uuid", "owner-a").
		WillReturnError(&pq.Error{Code: "22P02"})
	mock.ExpectRollback()

	err := repo.Create("owner-a", mapping)
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodePatientNotFound, svcErr.Code)
}

func TestMappingRepository_CreateDoctorMissing(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM patients").
		WithArgs("patient-1", "owner-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("patient-1"))
	mock.ExpectQuery("SELECT id FROM doctors").
		WithArgs("doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Create("owner-a", testMapping())
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeDoctorNotFound, svcErr.Code)
}

func TestMappingRepository_CreateDuplicatePair(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM patients").
		WithArgs("patient-1", "owner-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("patient-1"))
	mock.ExpectQuery("SELECT id FROM doctors").
		WithArgs("doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doctor-5"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("patient-1", "doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Create("owner-a", testMapping())
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeValidation, svcErr.Type)
	assert.Equal(t, types.ErrCodeMappingExists, svcErr.Code)
}

func TestMappingRepository_CreateConcurrentDuplicate(t *testing.T) {
	repo, mock := setupMappingRepository(t)
	mapping := testMapping()

	// A concurrent writer lands between the duplicate check and the
	// insert; the unique constraint reports it as 23505.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM patients").
		WithArgs("patient-1", "owner-a").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("patient-1"))
	mock.ExpectQuery("SELECT id FROM doctors").
		WithArgs("doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doctor-5"))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("patient-1", "doctor-5").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO patient_doctor_mappings").
		WithArgs(mapping.ID, "patient-1", "doctor-5", mapping.AssignedAt).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create("owner-a", mapping)
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeMappingExists, svcErr.Code)
}

func TestMappingRepository_ListDoctorsForUnownedPatient(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	// A patient owned by another account joins to nothing: an empty
	// list, not an error.
	mock.ExpectQuery("SELECT d.id, d.name, d.specialization").
		WithArgs("patient-1", "owner-b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "specialization", "created_at"}))

	doctors, err := repo.ListDoctorsForPatient("owner-b", "patient-1")
	require.NoError(t, err)
	assert.NotNil(t, doctors)
	assert.Empty(t, doctors)
}

func TestMappingRepository_ListDoctorsForMalformedPatientID(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mock.ExpectQuery("SELECT d.id, d.name, d.specialization").
		WithArgs("not-a-uuid", "owner-a").
		WillReturnError(&pq.Error{Code: "22P02"})

	doctors, err := repo.ListDoctorsForPatient("owner-a", "not-a-uuid")
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestMappingRepository_ListDoctorsForPatient(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	rows := sqlmock.NewRows([]string{"id", "name", "specialization", "created_at"}).
		AddRow("doctor-5", "Dr. Smith", "Cardiology", time.Now())

	mock.ExpectQuery("SELECT d.id, d.name, d.specialization").
		WithArgs("patient-1", "owner-a").
		WillReturnRows(rows)

	doctors, err := repo.ListDoctorsForPatient("owner-a", "patient-1")
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Smith", doctors[0].Name)
}

func TestMappingRepository_DeleteNotOwned(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mock.ExpectExec("DELETE FROM patient_doctor_mappings").
		WithArgs("mapping-1", "owner-b").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete("owner-b", "mapping-1")
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeMappingNotFound, svcErr.Code)
}

func TestMappingRepository_DeleteMalformedID(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mock.ExpectExec("DELETE FROM patient_doctor_mappings").
		WithArgs("not-a-uuid", "owner-a").
		WillReturnError(&pq.Error{Code: "22P02"})

	err := repo.Delete("owner-a", "not-a-uuid")
	require.Error(t, err)

	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeMappingNotFound, svcErr.Code)
}

func TestMappingRepository_Delete(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	mock.ExpectExec("DELETE FROM patient_doctor_mappings").
		WithArgs("mapping-1", "owner-a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete("owner-a", "mapping-1")
	require.NoError(t, err)
}

func TestMappingRepository_ListForOwner(t *testing.T) {
	repo, mock := setupMappingRepository(t)

	now := time.Now()
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "assigned_at",
		"p_id", "p_name", "p_dob", "p_address", "p_email", "p_created_at",
		"d_id", "d_name", "d_specialization", "d_created_at",
	}).AddRow(
		"mapping-1", now,
		"patient-1", "John", dob, "1 Main St", "a@x.com", now,
		"doctor-5", "Dr. Smith", "Cardiology", now,
	)

	mock.ExpectQuery("FROM patient_doctor_mappings m").
		WithArgs("owner-a").
		WillReturnRows(rows)

	mappings, err := repo.ListForOwner("owner-a")
	require.NoError(t, err)
	require.Len(t, mappings, 1)

	mapping := mappings[0]
	assert.Equal(t, "mapping-1", mapping.ID)
	require.NotNil(t, mapping.Patient)
	require.NotNil(t, mapping.Doctor)
	assert.Equal(t, "John", mapping.Patient.Name)
	assert.Equal(t, "1990-05-01", mapping.Patient.DateOfBirth)
	assert.Equal(t, "a@x.com", mapping.Patient.CreatedBy)
	assert.Equal(t, "Cardiology", mapping.Doctor.Specialization)
}
