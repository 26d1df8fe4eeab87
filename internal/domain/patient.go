package domain

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the core record owned by the patient service.
// ID and RegisteredDate are assigned once at creation and never change.
type Patient struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Address        string
	DateOfBirth    time.Time
	RegisteredDate time.Time
}
