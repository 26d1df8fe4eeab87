package carebridge

import (
	"testing"
)

func TestPatientRequestValidateOK(t *testing.T) {
	req := PatientRequest{
		Name:        "Ana",
		Email:       "ana@x.com",
		Address:     "1 Rd",
		DateOfBirth: "1990-01-01",
	}
	if errs := req.Validate(); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestPatientRequestValidateCollectsAllViolations(t *testing.T) {
	req := PatientRequest{}
	errs := req.Validate()
	if len(errs) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(errs), errs)
	}
}

func TestPatientRequestValidateRejectsFutureDOB(t *testing.T) {
	req := PatientRequest{
		Name:        "Ana",
		Email:       "ana@x.com",
		Address:     "1 Rd",
		DateOfBirth: "2990-01-01",
	}
	errs := req.Validate()
	if len(errs) != 1 || errs[0].Field != "dateOfBirth" {
		t.Fatalf("expected dateOfBirth error, got %v", errs)
	}
}

func TestPatientRequestValidateRejectsBadEmail(t *testing.T) {
	req := PatientRequest{
		Name:        "Ana",
		Email:       "not-an-email",
		Address:     "1 Rd",
		DateOfBirth: "1990-01-01",
	}
	errs := req.Validate()
	if len(errs) != 1 || errs[0].Field != "email" {
		t.Fatalf("expected email error, got %v", errs)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	if errs := (LoginRequest{Email: "a@b.com", Password: "longenough"}).Validate(); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if errs := (LoginRequest{Email: "a@b.com", Password: "short"}).Validate(); len(errs) != 1 {
		t.Fatalf("expected password error, got %v", errs)
	}
}
