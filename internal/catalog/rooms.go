package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectRoom = `
	SELECT r.id, r.name, r.slug, r.description, r.price, r.category_id, COALESCE(c.name, ''),
	       r.quantity, r.shipping, r.photo IS NOT NULL, r.created_at, r.updated_at
	FROM rooms r LEFT JOIN categories c ON c.id = r.category_id`

func (s *Store) CreateRoom(ctx context.Context, in NewRoom) (Room, error) {
	if err := in.validate(); err != nil {
		return Room{}, err
	}
	ref, err := ParseCategoryRef(in.Category)
	if err != nil {
		return Room{}, err
	}
	categoryID, err := s.ResolveCategory(ctx, ref)
	if err != nil {
		return Room{}, err
	}

	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	var photo []byte
	var contentType *string
	if in.Photo != nil {
		photo, contentType = in.Photo.Data, &in.Photo.ContentType
	}

	id := uuid.New()
	_, err = s.DB.Exec(ctx, `
		INSERT INTO rooms(id, name, slug, description, price, category_id, quantity, shipping, photo, photo_content_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, strings.TrimSpace(in.Name), Slugify(in.Name), in.Description, in.Price,
		categoryID, quantity, in.Shipping, photo, contentType)
	if err != nil {
		return Room{}, dbErr("insert room", "room", err)
	}
	return s.roomByID(ctx, id)
}

// UpdateRoom applies the non-nil fields of p. A new name also renews the slug.
func (s *Store) UpdateRoom(ctx context.Context, id uuid.UUID, p RoomPatch) (Room, error) {
	var (
		sets []string
		args = []any{id}
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return Room{}, fmt.Errorf("%w: name is required", apperr.ErrInvalidRequest)
		}
		set("name", name)
		set("slug", Slugify(name))
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return Room{}, fmt.Errorf("%w: price must not be negative", apperr.ErrInvalidRequest)
		}
		set("price", *p.Price)
	}
	if p.Category != nil {
		ref, err := ParseCategoryRef(*p.Category)
		if err != nil {
			return Room{}, err
		}
		categoryID, err := s.ResolveCategory(ctx, ref)
		if err != nil {
			return Room{}, err
		}
		set("category_id", categoryID)
	}
	if p.Quantity != nil {
		set("quantity", *p.Quantity)
	}
	if p.Shipping != nil {
		set("shipping", *p.Shipping)
	}
	if p.Photo != nil {
		if len(p.Photo.Data) > MaxPhotoUpdate {
			return Room{}, fmt.Errorf("%w: photo should be less than 1MB", apperr.ErrInvalidRequest)
		}
		set("photo", p.Photo.Data)
		set("photo_content_type", p.Photo.ContentType)
	}

	sets = append(sets, "updated_at = now()")
	ct, err := s.DB.Exec(ctx, `UPDATE rooms SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return Room{}, dbErr("update room", "room", err)
	}
	if ct.RowsAffected() == 0 {
		return Room{}, fmt.Errorf("room %w", apperr.ErrNotFound)
	}
	return s.roomByID(ctx, id)
}

func (s *Store) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("room %w", apperr.ErrNotFound)
	}
	return nil
}

// LatestRooms returns the LatestLimit newest rooms.
func (s *Store) LatestRooms(ctx context.Context) ([]Room, error) {
	return s.rooms(ctx, selectRoom+` ORDER BY r.created_at DESC LIMIT $1`, LatestLimit)
}

func (s *Store) RoomBySlug(ctx context.Context, slug string) (Room, error) {
	r, err := scanRoom(s.DB.QueryRow(ctx, selectRoom+` WHERE r.slug = $1`, slug))
	if err != nil {
		return Room{}, dbErr("get room", "room", err)
	}
	return r, nil
}

func (s *Store) RoomPhoto(ctx context.Context, id uuid.UUID) (Photo, error) {
	var (
		p           Photo
		contentType *string
	)
	err := s.DB.QueryRow(ctx, `SELECT photo, photo_content_type FROM rooms WHERE id = $1`, id).
		Scan(&p.Data, &contentType)
	if err != nil {
		return Photo{}, dbErr("get photo", "room", err)
	}
	if len(p.Data) == 0 {
		return Photo{}, fmt.Errorf("photo %w", apperr.ErrNotFound)
	}
	if contentType != nil {
		p.ContentType = *contentType
	}
	return p, nil
}

func (s *Store) FilterRooms(ctx context.Context, f Filter) ([]Room, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Categories) > 0 {
		args = append(args, f.Categories)
		where = append(where, fmt.Sprintf("r.category_id = ANY($%d)", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, fmt.Sprintf("r.price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, fmt.Sprintf("r.price <= $%d", len(args)))
	}

	q := selectRoom
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	return s.rooms(ctx, q+` ORDER BY r.created_at DESC`, args...)
}

func (s *Store) CountRooms(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.QueryRow(ctx, `SELECT count(*) FROM rooms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return n, nil
}

// maxPage keeps the page offset inside a postgres int4.
const maxPage = math.MaxInt32/PageSize + 1

// RoomPage returns page (1-based) of PageSize rooms, newest first.
func (s *Store) RoomPage(ctx context.Context, page int) ([]Room, error) {
	return s.rooms(ctx, selectRoom+` ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`,
		PageSize, pageOffset(page))
}

// pageOffset clamps page to [1, maxPage] and returns its row offset.
func pageOffset(page int) int {
	page = min(max(page, 1), maxPage)
	return (page - 1) * PageSize
}

// SearchRooms matches keyword case-insensitively against name and description.
func (s *Store) SearchRooms(ctx context.Context, keyword string) ([]Room, error) {
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	return s.rooms(ctx, selectRoom+` WHERE r.name ILIKE $1 OR r.description ILIKE $1 ORDER BY r.created_at DESC`, pattern)
}

// RelatedRooms returns up to RelatedLimit other rooms of the same category.
func (s *Store) RelatedRooms(ctx context.Context, roomID, categoryID uuid.UUID) ([]Room, error) {
	return s.rooms(ctx, selectRoom+` WHERE r.category_id = $1 AND r.id <> $2 ORDER BY r.created_at DESC LIMIT $3`,
		categoryID, roomID, RelatedLimit)
}

func (s *Store) RoomsInCategory(ctx context.Context, slug string) (Category, []Room, error) {
	c, err := s.CategoryBySlug(ctx, slug)
	if err != nil {
		return Category{}, nil, err
	}
	rooms, err := s.rooms(ctx, selectRoom+` WHERE r.category_id = $1 ORDER BY r.created_at DESC`, c.ID)
	if err != nil {
		return Category{}, nil, err
	}
	return c, rooms, nil
}

func (s *Store) roomByID(ctx context.Context, id uuid.UUID) (Room, error) {
	r, err := scanRoom(s.DB.QueryRow(ctx, selectRoom+` WHERE r.id = $1`, id))
	if err != nil {
		return Room{}, dbErr("get room", "room", err)
	}
	return r, nil
}

func (s *Store) rooms(ctx context.Context, q string, args ...any) ([]Room, error) {
	rows, err := s.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	out := []Room{}
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRoom(row pgx.Row) (Room, error) {
	var r Room
	err := row.Scan(&r.ID, &r.Name, &r.Slug, &r.Description, &r.Price, &r.Category, &r.CategoryName,
		&r.Quantity, &r.Shipping, &r.HasPhoto, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (in NewRoom) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", apperr.ErrInvalidRequest)
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", apperr.ErrInvalidRequest)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", apperr.ErrInvalidRequest)
	case in.Photo != nil && len(in.Photo.Data) > MaxPhotoCreate:
		return fmt.Errorf("%w: photo should be less than 5MB", apperr.ErrInvalidRequest)
	}
	return nil
}
