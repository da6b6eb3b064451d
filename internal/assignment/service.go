package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// MappingStore defines the persistence operations the service needs
type MappingStore interface {
	Create(ownerID string, mapping *types.Mapping) error
	GetByID(ownerID, id string) (*types.Mapping, error)
	ListForOwner(ownerID string) ([]*types.Mapping, error)
	ListDoctorsForPatient(ownerID, patientID string) ([]*types.Doctor, error)
	Delete(ownerID, id string) error
}

// Service implements the assignment ledger between patients and doctors
type Service struct {
	logger   *logger.Logger
	mappings MappingStore
}

// NewService creates a new assignment service
func NewService(log *logger.Logger, mappings MappingStore) *Service {
	return &Service{
		logger:   log,
		mappings: mappings,
	}
}

// Create assigns a doctor to one of the caller's patients and returns the
// stored mapping with its nested representations
func (s *Service) Create(caller *types.UserClaims, req *types.MappingRequest) (*types.Mapping, error) {
	mapping := &types.Mapping{
		ID:         uuid.New().String(),
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		AssignedAt: time.Now(),
	}

	if err := s.mappings.Create(caller.UserID, mapping); err != nil {
		return nil, err
	}

	return s.mappings.GetByID(caller.UserID, mapping.ID)
}

// List returns all mappings whose patient is owned by the caller
func (s *Service) List(caller *types.UserClaims) ([]*types.Mapping, error) {
	return s.mappings.ListForOwner(caller.UserID)
}

// ListDoctorsForPatient returns the doctors assigned to the given patient.
// An absent or unowned patient yields an empty list.
func (s *Service) ListDoctorsForPatient(caller *types.UserClaims, patientID string) ([]*types.Doctor, error) {
	return s.mappings.ListDoctorsForPatient(caller.UserID, patientID)
}

// Delete removes a mapping if its patient is owned by the caller
func (s *Service) Delete(caller *types.UserClaims, id string) error {
	return s.mappings.Delete(caller.UserID, id)
}
