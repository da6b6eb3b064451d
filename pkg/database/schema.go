package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createUsersTable,
		createPatientsTable,
		createDoctorsTable,
		createMappingsTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createUsersIndexes,
		createPatientsIndexes,
		createMappingsIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			is_active BOOLEAN DEFAULT TRUE,
			is_staff BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createPatientsTable = `
		CREATE TABLE IF NOT EXISTS patients (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			date_of_birth DATE NOT NULL,
			address TEXT NOT NULL,
			created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	createDoctorsTable = `
		CREATE TABLE IF NOT EXISTS doctors (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			specialization VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`

	// The UNIQUE constraint on (patient_id, doctor_id) is the atomic
	// backstop for concurrent create-mapping calls on the same pair.
	createMappingsTable = `
		CREATE TABLE IF NOT EXISTS patient_doctor_mappings (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			patient_id UUID NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
			doctor_id UUID NOT NULL REFERENCES doctors(id) ON DELETE CASCADE,
			assigned_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			CONSTRAINT patient_doctor_mappings_pair_key UNIQUE (patient_id, doctor_id)
		);`
)

// SQL DDL statements for index creation
const (
	// Email uniqueness holds case-insensitively.
	createUsersIndexes = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));`

	createPatientsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_patients_created_by ON patients(created_by);
		CREATE INDEX IF NOT EXISTS idx_patients_created_at ON patients(created_at);`

	createMappingsIndexes = `
		CREATE INDEX IF NOT EXISTS idx_mappings_patient_id ON patient_doctor_mappings(patient_id);
		CREATE INDEX IF NOT EXISTS idx_mappings_doctor_id ON patient_doctor_mappings(doctor_id);`
)
