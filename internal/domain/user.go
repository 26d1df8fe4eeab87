package domain

import (
	"github.com/google/uuid"
)

// User is a credential record owned by the auth service.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
}
