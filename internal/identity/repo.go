package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the identity store.
type Repo struct{ DB *pgxpool.Pool }

// account is a user row together with its secrets.
type account struct {
	User
	PasswordHash string
	AnswerHash   string
}

const selectUser = `SELECT id, name, email, phone, address, role, created_at, updated_at, password_hash, answer_hash FROM users`

func (r *Repo) create(ctx context.Context, a account) (User, error) {
	a.ID = uuid.New()
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, name, email, password_hash, answer_hash, phone, address, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.AnswerHash, a.Phone, a.Address, int(a.Role),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return a.User, nil
}

func (r *Repo) ByID(ctx context.Context, id uuid.UUID) (User, error) {
	a, err := r.one(ctx, selectUser+` WHERE id = $1`, id)
	return a.User, err
}

func (r *Repo) byEmail(ctx context.Context, email string) (account, error) {
	return r.one(ctx, selectUser+` WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repo) update(ctx context.Context, id uuid.UUID, name, phone, address, passwordHash string) (User, error) {
	a, err := scanAccount(r.DB.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			phone = COALESCE(NULLIF($3, ''), phone),
			address = COALESCE(NULLIF($4, ''), address),
			password_hash = COALESCE(NULLIF($5, ''), password_hash),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, phone, address, role, created_at, updated_at, password_hash, answer_hash`,
		id, name, phone, address, passwordHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("user %w", apperr.ErrNotFound)
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return a.User, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, selectUser+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, a.User)
	}
	return out, rows.Err()
}

func (r *Repo) one(ctx context.Context, q string, args ...any) (account, error) {
	a, err := scanAccount(r.DB.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account{}, fmt.Errorf("user %w", apperr.ErrNotFound)
		}
		return account{}, fmt.Errorf("get user: %w", err)
	}
	return a, nil
}

func scanAccount(row pgx.Row) (account, error) {
	var (
		a    account
		role int16
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Address, &role,
		&a.CreatedAt, &a.UpdatedAt, &a.PasswordHash, &a.AnswerHash)
	a.Role = Role(role)
	return a, err
}
