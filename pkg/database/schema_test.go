package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The referential and uniqueness rules live in the DDL; these tests pin
// them so a schema edit cannot drop one silently.

func TestSchemaMappingsEnforcePairUniqueness(t *testing.T) {
	assert.Contains(t, createMappingsTable, "UNIQUE (patient_id, doctor_id)")
}

func TestSchemaMappingsCascadeFromBothParents(t *testing.T) {
	assert.Contains(t, createMappingsTable, "REFERENCES patients(id) ON DELETE CASCADE")
	assert.Contains(t, createMappingsTable, "REFERENCES doctors(id) ON DELETE CASCADE")
}

func TestSchemaPatientsCascadeFromOwner(t *testing.T) {
	assert.Contains(t, createPatientsTable, "REFERENCES users(id) ON DELETE CASCADE")
}

func TestSchemaEmailUniquenessIsCaseInsensitive(t *testing.T) {
	assert.Contains(t, createUsersIndexes, "UNIQUE INDEX")
	assert.Contains(t, createUsersIndexes, "LOWER(email)")
}
