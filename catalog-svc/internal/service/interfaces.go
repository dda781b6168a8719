package service

import (
	"context"

	"budget-bites/catalog-svc/internal/domain"
)

type Repository interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	ListGroceryShops(ctx context.Context) ([]domain.GroceryShop, error)
	GetGroceryShop(ctx context.Context, id string) (*domain.GroceryShop, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

type CatalogServiceInterface interface {
	ListRestaurants(ctx context.Context, q RestaurantQuery) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	Menu(ctx context.Context, restaurantID string, q MenuQuery) ([]domain.MenuItem, error)
	Search(ctx context.Context, q string) (*SearchResult, error)
	ListGroceryShops(ctx context.Context) ([]domain.GroceryShop, error)
	GetGroceryShop(ctx context.Context, id, category string) (*domain.GroceryShop, error)
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
