package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carebridge/carebridge"
	"github.com/carebridge/carebridge/internal/domain"
)

var tracer = otel.Tracer("usecase")

const (
	billingDeadline = 5 * time.Second
	publishDeadline = 2 * time.Second
)

// PatientInput carries the already-validated mutable fields.
type PatientInput struct {
	Name        string
	Email       string
	Address     string
	DateOfBirth time.Time
}

// CreateResult is the create outcome. BillingPending marks a degraded
// success: the record committed but the billing account is not
// provisioned yet and must be reconciled out of band.
type CreateResult struct {
	Patient        domain.Patient
	BillingPending bool
}

type PatientUsecase struct {
	repo    PatientRepository
	billing BillingGateway
	events  EventPublisher
}

func NewPatientUsecase(repo PatientRepository, billing BillingGateway, events EventPublisher) *PatientUsecase {
	return &PatientUsecase{
		repo:    repo,
		billing: billing,
		events:  events,
	}
}

func (uc *PatientUsecase) List(ctx context.Context) ([]domain.Patient, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *PatientUsecase) Get(ctx context.Context, id uuid.UUID) (domain.Patient, error) {
	return uc.repo.FindByID(ctx, id)
}

// Create runs the onboarding sequence: uniqueness check, durable write,
// billing provisioning, event publish — strictly in that order. The
// durable write is the commit point; once it succeeds the patient
// exists no matter what the downstream steps do.
func (uc *PatientUsecase) Create(ctx context.Context, input PatientInput) (CreateResult, error) {
	ctx, span := tracer.Start(ctx, "Patient.Usecase.Create")
	defer span.End()

	exists, err := uc.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		return CreateResult{}, errors.Wrap(err, "PatientUsecase.Create: uniqueness check failed")
	}
	if exists {
		return CreateResult{}, domain.ConflictError{Field: "email"}
	}

	saved, err := uc.repo.Save(ctx, domain.Patient{
		Name:        input.Name,
		Email:       input.Email,
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
	})
	if err != nil {
		// A concurrent create with the same email lands here as the
		// same conflict the pre-check would have reported.
		span.RecordError(err)
		return CreateResult{}, err
	}

	span.SetAttributes(attribute.String("PatientId", saved.ID.String()))

	// The caller may be gone by now; provisioning and publishing still
	// run to completion against their own deadlines.
	detached := context.WithoutCancel(ctx)

	result := CreateResult{Patient: saved}

	billingCtx, cancel := context.WithTimeout(detached, billingDeadline)
	defer cancel()

	_, err = uc.billing.CreateAccount(billingCtx, saved.ID.String(), saved.Name, saved.Email)
	if err != nil {
		span.RecordError(errors.Wrap(err, "PatientUsecase.Create: billing provisioning failed"))
		slog.ErrorContext(
			ctx, "billing provisioning failed, patient committed",
			slog.String("patientId", saved.ID.String()),
			slog.String("error", err.Error()),
			slog.String("module", "usecase"),
		)
		result.BillingPending = true
	}

	go uc.publishCreated(detached, saved)

	return result, nil
}

func (uc *PatientUsecase) Update(ctx context.Context, id uuid.UUID, input PatientInput) (domain.Patient, error) {
	ctx, span := tracer.Start(ctx, "Patient.Usecase.Update")
	defer span.End()

	patient, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return domain.Patient{}, err
	}

	taken, err := uc.repo.ExistsByEmailExcludingID(ctx, input.Email, id)
	if err != nil {
		span.RecordError(err)
		return domain.Patient{}, errors.Wrap(err, "PatientUsecase.Update: uniqueness check failed")
	}
	if taken {
		return domain.Patient{}, domain.ConflictError{Field: "email"}
	}

	patient.Name = input.Name
	patient.Email = input.Email
	patient.Address = input.Address
	patient.DateOfBirth = input.DateOfBirth

	updated, err := uc.repo.Save(ctx, patient)
	if err != nil {
		span.RecordError(err)
		return domain.Patient{}, err
	}

	return updated, nil
}

// Delete removes the record unconditionally. Absence is not an error.
func (uc *PatientUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "Patient.Usecase.Delete")
	defer span.End()

	return uc.repo.DeleteByID(ctx, id)
}

// publishCreated emits the creation event. Publish failures are logged
// and swallowed; no caller ever sees them.
func (uc *PatientUsecase) publishCreated(ctx context.Context, patient domain.Patient) {
	ctx, cancel := context.WithTimeout(ctx, publishDeadline)
	defer cancel()

	event := carebridge.Event{
		Type:      carebridge.EventPatientCreated,
		Payload:   Snapshot(patient),
		Timestamp: time.Now().UTC(),
	}

	if err := uc.events.Publish(ctx, event); err != nil {
		slog.ErrorContext(
			ctx, "failed to publish patient created event",
			slog.String("patientId", patient.ID.String()),
			slog.String("error", err.Error()),
			slog.String("module", "usecase"),
		)
	}
}

// Snapshot maps the stored record to its wire representation.
func Snapshot(p domain.Patient) carebridge.PatientResponse {
	return carebridge.PatientResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Email:          p.Email,
		Address:        p.Address,
		DateOfBirth:    p.DateOfBirth.Format(carebridge.DateLayout),
		RegisteredDate: p.RegisteredDate.Format(carebridge.DateLayout),
	}
}
