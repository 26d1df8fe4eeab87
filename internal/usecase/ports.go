package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge"
	"github.com/carebridge/carebridge/internal/domain"
)

// PatientRepository defines the transactional patient store. Save on a
// zero ID assigns the identifier and registration date; a unique-email
// violation at write time surfaces as domain.ConflictError.
type PatientRepository interface {
	Save(ctx context.Context, patient domain.Patient) (domain.Patient, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Patient, error)
	FindAll(ctx context.Context) ([]domain.Patient, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcludingID(ctx context.Context, email string, id uuid.UUID) (bool, error)
}

// BillingGateway provisions billing accounts for committed patients.
type BillingGateway interface {
	CreateAccount(ctx context.Context, patientID, name, email string) (*domain.BillingAccount, error)
}

// EventPublisher hands domain events to the bus. Failures are observable
// to the orchestrator for logging only.
type EventPublisher interface {
	Publish(ctx context.Context, event carebridge.Event) error
}

// UserRepository defines credential lookup for the auth service.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

// TokenIssuer issues and checks bearer tokens.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
	Validate(token string) error
}
