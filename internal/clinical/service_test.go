package clinical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// Mock implementations for testing

type MockPatientStore struct {
	mock.Mock
}

func (m *MockPatientStore) Create(ownerID string, patient *types.Patient) error {
	args := m.Called(ownerID, patient)
	return args.Error(0)
}

func (m *MockPatientStore) List(ownerID string) ([]*types.Patient, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]*types.Patient), args.Error(1)
}

func (m *MockPatientStore) GetByID(ownerID, id string) (*types.Patient, error) {
	args := m.Called(ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Patient), args.Error(1)
}

func (m *MockPatientStore) Update(ownerID, id string, req *types.PatientRequest) error {
	args := m.Called(ownerID, id, req)
	return args.Error(0)
}

func (m *MockPatientStore) Delete(ownerID, id string) error {
	args := m.Called(ownerID, id)
	return args.Error(0)
}

type MockDoctorStore struct {
	mock.Mock
}

func (m *MockDoctorStore) Create(doctor *types.Doctor) error {
	args := m.Called(doctor)
	return args.Error(0)
}

func (m *MockDoctorStore) List() ([]*types.Doctor, error) {
	args := m.Called()
	return args.Get(0).([]*types.Doctor), args.Error(1)
}

func (m *MockDoctorStore) GetByID(id string) (*types.Doctor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Doctor), args.Error(1)
}

func (m *MockDoctorStore) Update(id string, req *types.DoctorRequest) error {
	args := m.Called(id, req)
	return args.Error(0)
}

func (m *MockDoctorStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupTestService(t *testing.T) (*Service, *MockPatientStore, *MockDoctorStore) {
	t.Helper()

	patients := new(MockPatientStore)
	doctors := new(MockDoctorStore)
	service := NewService(logger.New("error"), patients, doctors)

	return service, patients, doctors
}

func regularCaller() *types.UserClaims {
	return &types.UserClaims{UserID: "owner-a", Email: "a@x.com", IsActive: true}
}

func staffCaller() *types.UserClaims {
	return &types.UserClaims{UserID: "staff-1", Email: "s@x.com", IsActive: true, IsStaff: true}
}

func TestService_CreatePatientSetsOwner(t *testing.T) {
	service, patients, _ := setupTestService(t)

	patients.On("Create", "owner-a", mock.AnythingOfType("*types.Patient")).Return(nil)

	patient, err := service.CreatePatient(regularCaller(), &types.PatientRequest{
		Name:        "John",
		DateOfBirth: "1990-05-01",
		Address:     "1 Main St",
	})

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", patient.CreatedBy)
	assert.NotEmpty(t, patient.ID)
	patients.AssertExpectations(t)
}

func TestService_CreatePatientRejectsBadDate(t *testing.T) {
	service, patients, _ := setupTestService(t)

	_, err := service.CreatePatient(regularCaller(), &types.PatientRequest{
		Name:        "John",
		DateOfBirth: "01/05/1990",
		Address:     "1 Main St",
	})

	require.Error(t, err)
	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeValidation, svcErr.Type)
	patients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateDoctorRequiresStaff(t *testing.T) {
	service, _, doctors := setupTestService(t)

	_, err := service.CreateDoctor(regularCaller(), &types.DoctorRequest{
		Name:           "Dr. Smith",
		Specialization: "Cardiology",
	})

	require.Error(t, err)
	svcErr, ok := err.(*types.ServiceError)
	require.True(t, ok)
	assert.Equal(t, types.ErrorTypeAuthorization, svcErr.Type)
	doctors.AssertNotCalled(t, "Create", mock.Anything)
}

func TestService_CreateDoctorAsStaff(t *testing.T) {
	service, _, doctors := setupTestService(t)

	doctors.On("Create", mock.AnythingOfType("*types.Doctor")).Return(nil)

	doctor, err := service.CreateDoctor(staffCaller(), &types.DoctorRequest{
		Name:           "Dr. Smith",
		Specialization: "Cardiology",
	})

	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", doctor.Name)
	doctors.AssertExpectations(t)
}

func TestService_UpdateDoctorRequiresStaff(t *testing.T) {
	service, _, doctors := setupTestService(t)

	_, err := service.UpdateDoctor(regularCaller(), "doctor-1", &types.DoctorRequest{
		Name:           "Dr. Smith",
		Specialization: "Cardiology",
	})

	require.Error(t, err)
	doctors.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_DeleteDoctorRequiresStaff(t *testing.T) {
	service, _, doctors := setupTestService(t)

	err := service.DeleteDoctor(regularCaller(), "doctor-1")

	require.Error(t, err)
	doctors.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestService_ListDoctorsForAnyCaller(t *testing.T) {
	service, _, doctors := setupTestService(t)

	doctors.On("List").Return([]*types.Doctor{
		{ID: "doctor-1", Name: "Dr. Smith", Specialization: "Cardiology"},
	}, nil)

	list, err := service.ListDoctors()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_ListPatientsScopesToCaller(t *testing.T) {
	service, patients, _ := setupTestService(t)

	patients.On("List", "owner-a").Return([]*types.Patient{}, nil)

	list, err := service.ListPatients(regularCaller())
	require.NoError(t, err)
	assert.Empty(t, list)
	patients.AssertExpectations(t)
}
