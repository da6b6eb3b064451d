package clinical

import (
	"time"

	"github.com/google/uuid"

	"github.com/notSure-ded/healthCare/pkg/access"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// PatientStore defines the patient persistence operations the service needs
type PatientStore interface {
	Create(ownerID string, patient *types.Patient) error
	List(ownerID string) ([]*types.Patient, error)
	GetByID(ownerID, id string) (*types.Patient, error)
	Update(ownerID, id string, req *types.PatientRequest) error
	Delete(ownerID, id string) error
}

// DoctorStore defines the doctor persistence operations the service needs
type DoctorStore interface {
	Create(doctor *types.Doctor) error
	List() ([]*types.Doctor, error)
	GetByID(id string) (*types.Doctor, error)
	Update(id string, req *types.DoctorRequest) error
	Delete(id string) error
}

// Service implements the clinical registry: patient records scoped to their
// owning account and global doctor records.
type Service struct {
	logger   *logger.Logger
	patients PatientStore
	doctors  DoctorStore
}

// NewService creates a new clinical registry service
func NewService(log *logger.Logger, patients PatientStore, doctors DoctorStore) *Service {
	return &Service{
		logger:   log,
		patients: patients,
		doctors:  doctors,
	}
}

// CreatePatient creates a patient owned by the caller
func (s *Service) CreatePatient(caller *types.UserClaims, req *types.PatientRequest) (*types.Patient, error) {
	if err := validateDateOfBirth(req.DateOfBirth); err != nil {
		return nil, err
	}

	patient := &types.Patient{
		ID:          uuid.New().String(),
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		CreatedBy:   caller.Email,
		CreatedAt:   time.Now(),
	}

	if err := s.patients.Create(caller.UserID, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// ListPatients returns the patients owned by the caller
func (s *Service) ListPatients(caller *types.UserClaims) ([]*types.Patient, error) {
	return s.patients.List(caller.UserID)
}

// GetPatient returns a patient owned by the caller
func (s *Service) GetPatient(caller *types.UserClaims, id string) (*types.Patient, error) {
	return s.patients.GetByID(caller.UserID, id)
}

// UpdatePatient updates a patient owned by the caller
func (s *Service) UpdatePatient(caller *types.UserClaims, id string, req *types.PatientRequest) (*types.Patient, error) {
	if err := validateDateOfBirth(req.DateOfBirth); err != nil {
		return nil, err
	}

	if err := s.patients.Update(caller.UserID, id, req); err != nil {
		return nil, err
	}

	return s.patients.GetByID(caller.UserID, id)
}

// DeletePatient deletes a patient owned by the caller
func (s *Service) DeletePatient(caller *types.UserClaims, id string) error {
	return s.patients.Delete(caller.UserID, id)
}

// ListDoctors returns all doctors
func (s *Service) ListDoctors() ([]*types.Doctor, error) {
	return s.doctors.List()
}

// GetDoctor returns a doctor by ID
func (s *Service) GetDoctor(id string) (*types.Doctor, error) {
	return s.doctors.GetByID(id)
}

// CreateDoctor creates a doctor; staff only
func (s *Service) CreateDoctor(caller *types.UserClaims, req *types.DoctorRequest) (*types.Doctor, error) {
	if !access.Decide(caller, access.ActionCreate, access.ResourceDoctor) {
		s.logger.Audit(callerID(caller), "create", "doctor", false, nil)
		return nil, staffOnlyError()
	}

	doctor := &types.Doctor{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Specialization: req.Specialization,
		CreatedAt:      time.Now(),
	}

	if err := s.doctors.Create(doctor); err != nil {
		return nil, err
	}

	s.logger.Audit(caller.UserID, "create", "doctor", true, map[string]interface{}{
		"doctor_id": doctor.ID,
	})
	return doctor, nil
}

// UpdateDoctor updates a doctor; staff only
func (s *Service) UpdateDoctor(caller *types.UserClaims, id string, req *types.DoctorRequest) (*types.Doctor, error) {
	if !access.Decide(caller, access.ActionUpdate, access.ResourceDoctor) {
		s.logger.Audit(callerID(caller), "update", "doctor", false, nil)
		return nil, staffOnlyError()
	}

	if err := s.doctors.Update(id, req); err != nil {
		return nil, err
	}

	s.logger.Audit(caller.UserID, "update", "doctor", true, map[string]interface{}{
		"doctor_id": id,
	})
	return s.doctors.GetByID(id)
}

// DeleteDoctor deletes a doctor; staff only
func (s *Service) DeleteDoctor(caller *types.UserClaims, id string) error {
	if !access.Decide(caller, access.ActionDelete, access.ResourceDoctor) {
		s.logger.Audit(callerID(caller), "delete", "doctor", false, nil)
		return staffOnlyError()
	}

	if err := s.doctors.Delete(id); err != nil {
		return err
	}

	s.logger.Audit(caller.UserID, "delete", "doctor", true, map[string]interface{}{
		"doctor_id": id,
	})
	return nil
}

func callerID(caller *types.UserClaims) string {
	if caller == nil {
		return ""
	}
	return caller.UserID
}

func staffOnlyError() error {
	return types.NewAuthorizationError(
		types.ErrCodeForbidden,
		"Only staff users may modify doctor records",
	)
}

func validateDateOfBirth(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return types.NewValidationError(
			types.ErrCodeInvalidInput,
			"date_of_birth must be a valid date in YYYY-MM-DD format",
			map[string]interface{}{"field": "date_of_birth"},
		)
	}
	return nil
}
