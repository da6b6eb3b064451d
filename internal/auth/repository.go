package auth

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/notSure-ded/healthCare/pkg/database"
	"github.com/notSure-ded/healthCare/pkg/logger"
	"github.com/notSure-ded/healthCare/pkg/types"
)

// UserRepository implements user data persistence
type UserRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB, log *logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: log,
	}
}

// Create creates a new user in the database
func (r *UserRepository) Create(user *types.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, is_active, is_staff, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
		user.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// unique_violation on LOWER(email)
			return types.NewValidationError(
				types.ErrCodeEmailExists,
				"A user with this email address already exists",
				map[string]interface{}{"field": "email"},
			)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.WithUserID(user.ID).Info("User created successfully")
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*types.User, error) {
	query := `
		SELECT id, email, name, password_hash, is_active, is_staff, created_at
		FROM users
		WHERE id = $1`

	var user types.User

	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsStaff,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("USER_NOT_FOUND", "User not found")
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, matching case-insensitively
func (r *UserRepository) GetByEmail(email string) (*types.User, error) {
	query := `
		SELECT id, email, name, password_hash, is_active, is_staff, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`

	var user types.User

	err := r.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsStaff,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError("USER_NOT_FOUND", "User not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}
