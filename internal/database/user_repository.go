package database

import (
	"database/sql"

	"github.com/transitbook/booking-backend/internal/models"
)

// UserRepository reads the users table. Account management is owned by a
// separate service; the booking core only checks references.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// ExistsByID reports whether an active user with the given ID exists
func (r *UserRepository) ExistsByID(userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND status = 'active')`

	var exists bool
	err := r.db.QueryRow(query, userID).Scan(&exists)
	return exists, err
}

// GetByID retrieves a user by ID. Returns nil when the user does not exist.
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	query := `
		SELECT id, name, email, status, created_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.Status, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
