package usecase

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/carebridge/internal/domain"
)

type AuthUsecase struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewAuthUsecase(users UserRepository, tokens TokenIssuer) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
	}
}

// Login checks the credentials and issues a bearer token. Every failure
// mode comes back as an opaque error; the handler maps them all to 401.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Usecase.Login")
	defer span.End()

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "AuthUsecase.Login: lookup failed")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "AuthUsecase.Login: token issue failed")
	}

	return token, nil
}

// Validate checks a presented bearer token.
func (uc *AuthUsecase) Validate(ctx context.Context, token string) error {
	_, span := tracer.Start(ctx, "Auth.Usecase.Validate")
	defer span.End()

	err := uc.tokens.Validate(token)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Register creates a credential record with a bcrypt-hashed password.
// Used by the bootstrap path; not exposed through the gateway.
func (uc *AuthUsecase) Register(ctx context.Context, email, password, role string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Usecase.Register")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "AuthUsecase.Register: hash failed")
	}

	user, err := uc.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	return user, nil
}
