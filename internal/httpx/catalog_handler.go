package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (catalog.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (catalog.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]catalog.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (catalog.Category, error)

	CreateRoom(ctx context.Context, in catalog.NewRoom) (catalog.Room, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, p catalog.RoomPatch) (catalog.Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	LatestRooms(ctx context.Context) ([]catalog.Room, error)
	RoomBySlug(ctx context.Context, slug string) (catalog.Room, error)
	RoomPhoto(ctx context.Context, id uuid.UUID) (catalog.Photo, error)
	FilterRooms(ctx context.Context, f catalog.Filter) ([]catalog.Room, error)
	CountRooms(ctx context.Context) (int64, error)
	RoomPage(ctx context.Context, page int) ([]catalog.Room, error)
	SearchRooms(ctx context.Context, keyword string) ([]catalog.Room, error)
	RelatedRooms(ctx context.Context, roomID, categoryID uuid.UUID) ([]catalog.Room, error)
	RoomsInCategory(ctx context.Context, slug string) (catalog.Category, []catalog.Room, error)
}

type CatalogHandler struct {
	Catalog CatalogService
	Auth    Authenticator
	Log     *slog.Logger
}

type categoryReq struct {
	Name string `json:"name" validate:"required"`
}

type filterReq struct {
	Checked []string          `json:"checked" validate:"dive,uuid"`
	Radio   []decimal.Decimal `json:"radio"`
}

const dbTimeout = 5 * time.Second

func (h *CatalogHandler) Register(r chi.Router) {
	signedIn := RequireSignIn(h.Auth, h.Log)
	admin := IsAdmin(h.Log)

	r.With(signedIn, admin).Post("/category/create-category", h.createCategory)
	r.With(signedIn, admin).Put("/category/update-category/{id}", h.updateCategory)
	r.With(signedIn, admin).Delete("/category/delete-category/{id}", h.deleteCategory)
	r.Get("/category/get-category", h.categories)
	r.Get("/category/single-category/{slug}", h.category)

	r.With(signedIn, admin).Post("/room/create-room", h.createRoom)
	r.With(signedIn, admin).Put("/room/update-room/{pid}", h.updateRoom)
	r.With(signedIn, admin).Delete("/room/delete-room/{pid}", h.deleteRoom)
	r.Get("/room/get-room", h.latestRooms)
	r.Get("/room/get-room/{slug}", h.room)
	r.Get("/room/room-photo/{pid}", h.photo)
	r.Post("/room/room-filters", h.filterRooms)
	r.Get("/room/room-count", h.countRooms)
	r.Get("/room/room-list/{page}", h.roomPage)
	r.Get("/room/search-room/{keyword}", h.searchRooms)
	r.Get("/room/related-room/{pid}/{cid}", h.relatedRooms)
	r.Get("/room/room-category/{slug}", h.roomsInCategory)
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	c, err := h.Catalog.CreateCategory(ctx, req.Name)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "New category created", "category": c})
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "category id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	var req categoryReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	c, err := h.Catalog.UpdateCategory(ctx, id, req.Name)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category updated successfully", "category": c})
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"), "category id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	if err := h.Catalog.DeleteCategory(ctx, id); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Success: true, Message: "Category deleted successfully"})
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	cs, err := h.Catalog.Categories(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "All categories", "category": cs})
}

func (h *CatalogHandler) category(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	c, err := h.Catalog.CategoryBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Single category", "category": c})
}

func (h *CatalogHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	in, err := newRoomForm(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	room, err := h.Catalog.CreateRoom(ctx, in)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Room created successfully", "room": room})
}

func (h *CatalogHandler) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "pid"), "room id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	p, err := roomPatchForm(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	room, err := h.Catalog.UpdateRoom(ctx, id, p)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Room updated successfully", "room": room})
}

func (h *CatalogHandler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "pid"), "room id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	if err := h.Catalog.DeleteRoom(ctx, id); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Success: true, Message: "Room deleted successfully"})
}

func (h *CatalogHandler) latestRooms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	rooms, err := h.Catalog.LatestRooms(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "counTotal": len(rooms), "message": "All rooms", "rooms": rooms})
}

func (h *CatalogHandler) room(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	room, err := h.Catalog.RoomBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Single room fetched", "room": room})
}

func (h *CatalogHandler) photo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "pid"), "room id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	p, err := h.Catalog.RoomPhoto(ctx, id)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Data)
}

func (h *CatalogHandler) filterRooms(w http.ResponseWriter, r *http.Request) {
	var req filterReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	f := catalog.Filter{
		Categories: lo.Map(req.Checked, func(s string, _ int) uuid.UUID { return uuid.MustParse(s) }),
	}
	if len(req.Radio) >= 2 {
		f.MinPrice, f.MaxPrice = &req.Radio[0], &req.Radio[1]
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	rooms, err := h.Catalog.FilterRooms(ctx, f)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "rooms": rooms})
}

func (h *CatalogHandler) countRooms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	n, err := h.Catalog.CountRooms(ctx)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "total": n})
}

func (h *CatalogHandler) roomPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, r, h.Log, fmt.Errorf("%w: invalid page", apperr.ErrInvalidRequest))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	rooms, err := h.Catalog.RoomPage(ctx, page)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "rooms": rooms})
}

func (h *CatalogHandler) searchRooms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	rooms, err := h.Catalog.SearchRooms(ctx, chi.URLParam(r, "keyword"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *CatalogHandler) relatedRooms(w http.ResponseWriter, r *http.Request) {
	roomID, err := parseID(chi.URLParam(r, "pid"), "room id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	categoryID, err := parseID(chi.URLParam(r, "cid"), "category id")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	rooms, err := h.Catalog.RelatedRooms(ctx, roomID, categoryID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "rooms": rooms})
}

func (h *CatalogHandler) roomsInCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	c, rooms, err := h.Catalog.RoomsInCategory(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Rooms for this category", "category": c, "rooms": rooms})
}

func newRoomForm(r *http.Request) (catalog.NewRoom, error) {
	var in catalog.NewRoom
	if err := parseForm(r, catalog.MaxPhotoCreate); err != nil {
		return in, err
	}
	for _, key := range []string{"name", "description", "price", "category"} {
		if v, _ := formValue(r, key); v == "" {
			return in, fmt.Errorf("%w: %s is required", apperr.ErrInvalidRequest, key)
		}
	}

	in.Name = r.PostFormValue("name")
	in.Description = r.PostFormValue("description")
	in.Category = r.PostFormValue("category")

	var err error
	if in.Price, err = formDecimal(r, "price"); err != nil {
		return in, err
	}
	if in.Quantity, err = formInt(r, "quantity"); err != nil {
		return in, err
	}
	if in.Shipping, err = formBool(r, "shipping"); err != nil {
		return in, err
	}
	in.Photo, err = formPhoto(r, catalog.MaxPhotoCreate, "5MB")
	return in, err
}

// roomPatchForm sets only the fields present in the form.
func roomPatchForm(r *http.Request) (catalog.RoomPatch, error) {
	var p catalog.RoomPatch
	if err := parseForm(r, catalog.MaxPhotoUpdate); err != nil {
		return p, err
	}

	if v, ok := formValue(r, "name"); ok {
		p.Name = &v
	}
	if v, ok := formValue(r, "description"); ok {
		p.Description = &v
	}
	if v, ok := formValue(r, "category"); ok {
		p.Category = &v
	}
	if _, ok := formValue(r, "price"); ok {
		d, err := formDecimal(r, "price")
		if err != nil {
			return p, err
		}
		p.Price = &d
	}
	if _, ok := formValue(r, "quantity"); ok {
		n, err := formInt(r, "quantity")
		if err != nil {
			return p, err
		}
		p.Quantity = &n
	}
	if _, ok := formValue(r, "shipping"); ok {
		b, err := formBool(r, "shipping")
		if err != nil {
			return p, err
		}
		p.Shipping = &b
	}

	var err error
	p.Photo, err = formPhoto(r, catalog.MaxPhotoUpdate, "1MB")
	return p, err
}

// parseForm accepts multipart and urlencoded bodies. maxPhoto bounds the
// upload; the rest of the form gets a little headroom on top.
func parseForm(r *http.Request, maxPhoto int64) error {
	err := r.ParseMultipartForm(maxPhoto + 1<<20)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%w: invalid form: %w", apperr.ErrInvalidRequest, err)
	}
	return nil
}

func formValue(r *http.Request, key string) (string, bool) {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func formDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(r.PostFormValue(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", apperr.ErrInvalidRequest, key)
	}
	return d, nil
}

// formInt returns 0 for an absent field.
func formInt(r *http.Request, key string) (int, error) {
	v, ok := formValue(r, key)
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", apperr.ErrInvalidRequest, key)
	}
	return n, nil
}

func formBool(r *http.Request, key string) (bool, error) {
	v, ok := formValue(r, key)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", apperr.ErrInvalidRequest, key)
	}
	return b, nil
}

// formPhoto returns nil when no photo was uploaded.
func formPhoto(r *http.Request, limit int64, human string) (*catalog.Photo, error) {
	f, fh, err := r.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: photo: %w", apperr.ErrInvalidRequest, err)
	}
	defer f.Close()

	if fh.Size > limit {
		return nil, fmt.Errorf("%w: photo should be less than %s", apperr.ErrInvalidRequest, human)
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read photo: %w", apperr.ErrInternal, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: photo should be less than %s", apperr.ErrInvalidRequest, human)
	}
	return &catalog.Photo{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}
