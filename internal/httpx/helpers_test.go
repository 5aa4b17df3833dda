package httpx_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/httpx"
	"github.com/ariefcatur/go-room-booking/internal/identity"
	"github.com/ariefcatur/go-room-booking/internal/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	buyer = identity.User{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"), Name: "Amel", Role: identity.RoleUser}
	admin = identity.User{ID: uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000002"), Name: "Root", Role: identity.RoleAdmin}
)

type api struct {
	router  http.Handler
	orders  *mocks.OrderService
	catalog *mocks.CatalogService
	users   *mocks.IdentityService
}

func newAPI(t *testing.T) *api {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := &api{
		orders:  mocks.NewOrderService(t),
		catalog: mocks.NewCatalogService(t),
		users:   mocks.NewIdentityService(t),
	}

	a.users.On("Authenticate", mock.Anything, "Bearer buyer-token").Return(buyer, nil).Maybe()
	a.users.On("Authenticate", mock.Anything, "admin-token").Return(admin, nil).Maybe()
	a.users.On("Authenticate", mock.Anything, mock.Anything).Return(identity.User{}, apperr.ErrUnauthorized).Maybe()

	r := httpx.NewRouter(log, []string{"https://rooms.example"})
	r.Route("/api/v1", func(v1 chi.Router) {
		(&httpx.OrdersHandler{Orders: a.orders, Auth: a.users, Log: log, PublishableKey: "pk_test_rooms"}).Register(v1)
		(&httpx.CatalogHandler{Catalog: a.catalog, Auth: a.users, Log: log}).Register(v1)
		(&httpx.AuthHandler{Users: a.users, Log: log}).Register(v1)
	})
	a.router = r
	return a
}

// do sends body to path; token is the raw Authorization header value.
func (a *api) do(method, path, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *api) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func apperrf(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}
