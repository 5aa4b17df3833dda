package mocks

import (
	"context"

	"github.com/ariefcatur/go-room-booking/internal/catalog"
	"github.com/ariefcatur/go-room-booking/internal/identity"
	"github.com/ariefcatur/go-room-booking/internal/orders"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type OrderService struct{ mock.Mock }

func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderService) ClientToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *OrderService) PlaceOnline(ctx context.Context, buyer uuid.UUID, req orders.PlaceRequest) (orders.Placement, error) {
	args := m.Called(ctx, buyer, req)
	return args.Get(0).(orders.Placement), args.Error(1)
}

func (m *OrderService) PlaceCash(ctx context.Context, buyer uuid.UUID, req orders.PlaceRequest) (orders.Order, error) {
	args := m.Called(ctx, buyer, req)
	return args.Get(0).(orders.Order), args.Error(1)
}

func (m *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (orders.Order, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(orders.Order), args.Error(1)
}

func (m *OrderService) ListForBuyer(ctx context.Context, buyer uuid.UUID) ([]orders.Order, error) {
	args := m.Called(ctx, buyer)
	out, _ := args.Get(0).([]orders.Order)
	return out, args.Error(1)
}

func (m *OrderService) ListAll(ctx context.Context) ([]orders.Order, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]orders.Order)
	return out, args.Error(1)
}

type IdentityService struct{ mock.Mock }

func NewIdentityService(t testingT) *IdentityService {
	m := &IdentityService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *IdentityService) Authenticate(ctx context.Context, header string) (identity.User, error) {
	args := m.Called(ctx, header)
	return args.Get(0).(identity.User), args.Error(1)
}

func (m *IdentityService) Register(ctx context.Context, in identity.Registration) (identity.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(identity.User), args.Error(1)
}

func (m *IdentityService) Login(ctx context.Context, in identity.Credentials) (identity.User, string, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(identity.User), args.String(1), args.Error(2)
}

func (m *IdentityService) ResetPassword(ctx context.Context, in identity.PasswordReset) error {
	return m.Called(ctx, in).Error(0)
}

func (m *IdentityService) UpdateProfile(ctx context.Context, id uuid.UUID, in identity.ProfileUpdate) (identity.User, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(identity.User), args.Error(1)
}

func (m *IdentityService) Users(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]identity.User)
	return out, args.Error(1)
}

type CatalogService struct{ mock.Mock }

func NewCatalogService(t testingT) *CatalogService {
	m := &CatalogService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogService) CreateCategory(ctx context.Context, name string) (catalog.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(catalog.Category), args.Error(1)
}

func (m *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (catalog.Category, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(catalog.Category), args.Error(1)
}

func (m *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CatalogService) Categories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]catalog.Category)
	return out, args.Error(1)
}

func (m *CatalogService) CategoryBySlug(ctx context.Context, slug string) (catalog.Category, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(catalog.Category), args.Error(1)
}

func (m *CatalogService) CreateRoom(ctx context.Context, in catalog.NewRoom) (catalog.Room, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(catalog.Room), args.Error(1)
}

func (m *CatalogService) UpdateRoom(ctx context.Context, id uuid.UUID, p catalog.RoomPatch) (catalog.Room, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(catalog.Room), args.Error(1)
}

func (m *CatalogService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CatalogService) LatestRooms(ctx context.Context) ([]catalog.Room, error) {
	return m.rooms(m.Called(ctx))
}

func (m *CatalogService) RoomBySlug(ctx context.Context, slug string) (catalog.Room, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(catalog.Room), args.Error(1)
}

func (m *CatalogService) RoomPhoto(ctx context.Context, id uuid.UUID) (catalog.Photo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Photo), args.Error(1)
}

func (m *CatalogService) FilterRooms(ctx context.Context, f catalog.Filter) ([]catalog.Room, error) {
	return m.rooms(m.Called(ctx, f))
}

func (m *CatalogService) CountRooms(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CatalogService) RoomPage(ctx context.Context, page int) ([]catalog.Room, error) {
	return m.rooms(m.Called(ctx, page))
}

func (m *CatalogService) SearchRooms(ctx context.Context, keyword string) ([]catalog.Room, error) {
	return m.rooms(m.Called(ctx, keyword))
}

func (m *CatalogService) RelatedRooms(ctx context.Context, roomID, categoryID uuid.UUID) ([]catalog.Room, error) {
	return m.rooms(m.Called(ctx, roomID, categoryID))
}

func (m *CatalogService) RoomsInCategory(ctx context.Context, slug string) (catalog.Category, []catalog.Room, error) {
	args := m.Called(ctx, slug)
	rooms, _ := args.Get(1).([]catalog.Room)
	return args.Get(0).(catalog.Category), rooms, args.Error(2)
}

func (m *CatalogService) rooms(args mock.Arguments) ([]catalog.Room, error) {
	out, _ := args.Get(0).([]catalog.Room)
	return out, args.Error(1)
}
