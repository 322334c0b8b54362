package models

import "time"

// User is the minimal projection of a platform account the booking core
// needs. Account management lives in a separate service; here users are
// only referenced by bookings and checked for existence.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
