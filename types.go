package carebridge

import (
	"time"
)

const (
	EventPatientCreated string = "PATIENT_CREATED"

	DateLayout string = "2006-01-02"
)

// PatientRequest is the wire representation for create and update calls.
type PatientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	DateOfBirth string `json:"dateOfBirth"`
}

// PatientResponse is the wire representation returned to API callers.
type PatientResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"dateOfBirth"`
	RegisteredDate string `json:"registeredDate"`

	// BillingPending is set when the record committed but the billing
	// account could not be provisioned yet.
	BillingPending bool `json:"billingPending,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Event is the envelope published to the bus when a patient record changes.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   PatientResponse `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}
