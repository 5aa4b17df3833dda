package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/google/uuid"
)

// Service registers and authenticates users on top of Repo.
type Service struct {
	Repo   *Repo
	Tokens *Tokens
}

func (s *Service) Register(ctx context.Context, in Registration) (User, error) {
	pw, err := hashSecret(in.Password)
	if err != nil {
		return User{}, err
	}
	answer, err := hashSecret(normalizeAnswer(in.Answer))
	if err != nil {
		return User{}, err
	}
	return s.Repo.create(ctx, account{
		User: User{
			Name:    in.Name,
			Email:   in.Email,
			Phone:   in.Phone,
			Address: in.Address,
			Role:    RoleUser,
		},
		PasswordHash: pw,
		AnswerHash:   answer,
	})
}

// Login returns the user and a fresh bearer token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in Credentials) (User, string, error) {
	a, err := s.Repo.byEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return User{}, "", err
	}
	if err != nil || !secretMatches(a.PasswordHash, in.Password) {
		return User{}, "", fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}

	token, err := s.Tokens.Issue(a.ID)
	if err != nil {
		return User{}, "", fmt.Errorf("%w: %w", apperr.ErrInternal, err)
	}
	return a.User, token, nil
}

func (s *Service) ResetPassword(ctx context.Context, in PasswordReset) error {
	a, err := s.Repo.byEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if err != nil || !secretMatches(a.AnswerHash, normalizeAnswer(in.Answer)) {
		return fmt.Errorf("%w: wrong email or answer", apperr.ErrNotFound)
	}

	pw, err := hashSecret(in.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.Repo.update(ctx, a.ID, "", "", "", pw)
	return err
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (User, error) {
	var pw string
	if in.Password != "" {
		if len(in.Password) < 6 {
			return User{}, fmt.Errorf("%w: password must be at least 6 characters", apperr.ErrInvalidRequest)
		}
		h, err := hashSecret(in.Password)
		if err != nil {
			return User{}, err
		}
		pw = h
	}
	return s.Repo.update(ctx, id, in.Name, in.Phone, in.Address, pw)
}

func (s *Service) Users(ctx context.Context) ([]User, error) {
	return s.Repo.List(ctx)
}

// Authenticate resolves an Authorization header to a stored user.
func (s *Service) Authenticate(ctx context.Context, header string) (User, error) {
	id, err := s.Tokens.Verify(header)
	if err != nil {
		return User{}, err
	}
	u, err := s.Repo.ByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return User{}, fmt.Errorf("%w: user no longer exists", apperr.ErrUnauthorized)
	}
	return u, err
}
