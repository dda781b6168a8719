package storage

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"budget-bites/catalog-svc/internal/domain"
)

// FileCatalog serves the catalog from a YAML file loaded once at startup.
type FileCatalog struct {
	catalog domain.Catalog
}

func ParseCatalog(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	c.Link()
	return c, nil
}

func LoadFileCatalog(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	return NewFileCatalog(c), nil
}

func NewFileCatalog(c domain.Catalog) *FileCatalog {
	return &FileCatalog{catalog: c}
}

func (f *FileCatalog) Catalog() domain.Catalog {
	return f.catalog
}

func (f *FileCatalog) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	out := make([]domain.Restaurant, len(f.catalog.Restaurants))
	for i, r := range f.catalog.Restaurants {
		out[i] = copyRestaurant(r)
	}
	return out, nil
}

func (f *FileCatalog) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	for _, r := range f.catalog.Restaurants {
		if r.ID == id {
			rest := copyRestaurant(r)
			return &rest, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *FileCatalog) ListGroceryShops(ctx context.Context) ([]domain.GroceryShop, error) {
	out := make([]domain.GroceryShop, len(f.catalog.GroceryShops))
	for i, s := range f.catalog.GroceryShops {
		out[i] = copyShop(s)
	}
	return out, nil
}

func (f *FileCatalog) GetGroceryShop(ctx context.Context, id string) (*domain.GroceryShop, error) {
	for _, s := range f.catalog.GroceryShops {
		if s.ID == id {
			shop := copyShop(s)
			return &shop, nil
		}
	}
	return nil, domain.ErrNotFound
}

func copyRestaurant(r domain.Restaurant) domain.Restaurant {
	r.Cuisines = append([]string(nil), r.Cuisines...)
	r.Menu = append([]domain.MenuItem(nil), r.Menu...)
	return r
}

func copyShop(s domain.GroceryShop) domain.GroceryShop {
	s.Items = append([]domain.GroceryItem(nil), s.Items...)
	return s
}
