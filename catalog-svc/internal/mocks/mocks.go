package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"budget-bites/catalog-svc/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// Repository is a mock type for the service.Repository interface.
type Repository struct {
	mock.Mock
}

func (_m *Repository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	ret := _m.Called(ctx)

	var r0 []domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) ListGroceryShops(ctx context.Context) ([]domain.GroceryShop, error) {
	ret := _m.Called(ctx)

	var r0 []domain.GroceryShop
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.GroceryShop)
	}
	return r0, ret.Error(1)
}

func (_m *Repository) GetGroceryShop(ctx context.Context, id string) (*domain.GroceryShop, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.GroceryShop
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.GroceryShop)
	}
	return r0, ret.Error(1)
}

func NewRepository(t testingT) *Repository {
	m := &Repository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Cache is a mock type for the service.Cache interface.
type Cache struct {
	mock.Mock
}

func (_m *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	ret := _m.Called(ctx, key, dest)
	return ret.Bool(0), ret.Error(1)
}

func (_m *Cache) Set(ctx context.Context, key string, value interface{}) error {
	ret := _m.Called(ctx, key, value)
	return ret.Error(0)
}

func NewCache(t testingT) *Cache {
	m := &Cache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
