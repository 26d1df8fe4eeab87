package carebridge

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, len(v))
	for i, fe := range v {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Validate checks the request fields and returns every violation at once.
// A nil return means the request is acceptable.
func (r PatientRequest) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email is not a valid address"})
	}

	if strings.TrimSpace(r.Address) == "" {
		errs = append(errs, FieldError{Field: "address", Message: "address is required"})
	}

	if r.DateOfBirth == "" {
		errs = append(errs, FieldError{Field: "dateOfBirth", Message: "dateOfBirth is required"})
	} else {
		dob, err := time.Parse(DateLayout, r.DateOfBirth)
		if err != nil {
			errs = append(errs, FieldError{Field: "dateOfBirth", Message: "dateOfBirth must be YYYY-MM-DD"})
		} else if !dob.Before(time.Now()) {
			errs = append(errs, FieldError{Field: "dateOfBirth", Message: "dateOfBirth must be in the past"})
		}
	}

	return errs
}

func (r LoginRequest) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email is not a valid address"})
	}

	if len(r.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}

	return errs
}
