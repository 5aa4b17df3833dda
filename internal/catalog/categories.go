package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectCategory = `SELECT id, name, slug, created_at, updated_at FROM categories`

func (s *Store) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", apperr.ErrInvalidRequest)
	}

	c := Category{ID: uuid.New(), Name: name, Slug: Slugify(name)}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO categories(id, name, slug) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Slug,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Category{}, dbErr("insert category", "category", err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", apperr.ErrInvalidRequest)
	}

	c, err := scanCategory(s.DB.QueryRow(ctx, `
		UPDATE categories SET name = $2, slug = $3, updated_at = now() WHERE id = $1
		RETURNING id, name, slug, created_at, updated_at`,
		id, name, Slugify(name)))
	if err != nil {
		return Category{}, dbErr("update category", "category", err)
	}
	return c, nil
}

// DeleteCategory refuses to remove a category that still has rooms.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: category still has rooms", apperr.ErrConflict)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("category %w", apperr.ErrNotFound)
	}
	return nil
}

func (s *Store) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, selectCategory+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (Category, error) {
	c, err := scanCategory(s.DB.QueryRow(ctx, selectCategory+` WHERE slug = $1`, slug))
	if err != nil {
		return Category{}, dbErr("get category", "category", err)
	}
	return c, nil
}

// ResolveCategory turns a reference into a category id. Names match
// case-insensitively and must match exactly one category.
func (s *Store) ResolveCategory(ctx context.Context, ref CategoryRef) (uuid.UUID, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if ref.ByID() {
		rows, err = s.DB.Query(ctx, `SELECT id FROM categories WHERE id = $1`, ref.ID)
	} else {
		rows, err = s.DB.Query(ctx, `SELECT id FROM categories WHERE lower(name) = lower($1) LIMIT 2`, ref.Name)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve category: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve category: %w", err)
	}

	switch len(ids) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: category %q not found", apperr.ErrInvalidRequest, ref)
	case 1:
		return ids[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%w: category name %q is ambiguous", apperr.ErrInvalidRequest, ref)
	}
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
