package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"budget-bites/catalog-svc/internal/domain"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrGroceryShopNotFound = errors.New("grocery shop not found")
	ErrInvalidFilter       = errors.New("unknown restaurant filter")
)

const (
	RestaurantsKey = "catalog:restaurants"
	GroceryKey     = "catalog:grocery"
)

func RestaurantKey(id string) string {
	return "catalog:restaurant:" + id
}

func GroceryShopKey(id string) string {
	return "catalog:grocery:" + id
}

type RestaurantQuery struct {
	Query  string
	Filter domain.RestaurantFilter
}

type MenuQuery struct {
	VegOnly  bool
	Category string
}

type SearchHit struct {
	RestaurantID   string          `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	Item           domain.MenuItem `json:"item"`
}

type SearchResult struct {
	Query       string              `json:"query"`
	Restaurants []domain.Restaurant `json:"restaurants"`
	Items       []SearchHit         `json:"items"`
}

// CatalogService reads through the cache when one is configured. Cache failures are logged
// and the repository answers instead.
type CatalogService struct {
	repo  Repository
	cache Cache
	log   logrus.FieldLogger
}

func NewCatalogService(repo Repository, cache Cache, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) ListRestaurants(ctx context.Context, q RestaurantQuery) ([]domain.Restaurant, error) {
	if !q.Filter.Valid() {
		return nil, ErrInvalidFilter
	}
	all, err := s.restaurants(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(q.Query)
	out := make([]domain.Restaurant, 0, len(all))
	for _, r := range all {
		if query != "" && !r.NameMatches(query) {
			continue
		}
		if !q.Filter.Match(r) {
			continue
		}
		r.Menu = nil
		out = append(out, r)
	}
	return out, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if s.cacheGet(ctx, RestaurantKey(id), &rest) {
		return &rest, nil
	}

	found, err := s.repo.GetRestaurant(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, RestaurantKey(id), found)
	return found, nil
}

func (s *CatalogService) Menu(ctx context.Context, restaurantID string, q MenuQuery) ([]domain.MenuItem, error) {
	rest, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}

	out := make([]domain.MenuItem, 0, len(rest.Menu))
	for _, item := range rest.Menu {
		if q.VegOnly && !item.IsVeg {
			continue
		}
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// Search matches restaurants by name, cuisine or dish, and lists the matching dishes separately.
func (s *CatalogService) Search(ctx context.Context, q string) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	result := &SearchResult{
		Query:       q,
		Restaurants: []domain.Restaurant{},
		Items:       []SearchHit{},
	}
	if q == "" {
		return result, nil
	}

	all, err := s.restaurants(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if !r.Matches(q) {
			continue
		}
		for _, item := range r.Menu {
			if item.NameMatches(q) {
				result.Items = append(result.Items, SearchHit{
					RestaurantID:   r.ID,
					RestaurantName: r.Name,
					Item:           item,
				})
			}
		}
		r.Menu = nil
		result.Restaurants = append(result.Restaurants, r)
	}
	return result, nil
}

func (s *CatalogService) ListGroceryShops(ctx context.Context) ([]domain.GroceryShop, error) {
	var shops []domain.GroceryShop
	if s.cacheGet(ctx, GroceryKey, &shops) {
		return shops, nil
	}
	shops, err := s.repo.ListGroceryShops(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, GroceryKey, shops)
	return shops, nil
}

func (s *CatalogService) GetGroceryShop(ctx context.Context, id, category string) (*domain.GroceryShop, error) {
	var shop domain.GroceryShop
	if !s.cacheGet(ctx, GroceryShopKey(id), &shop) {
		found, err := s.repo.GetGroceryShop(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrGroceryShopNotFound
		}
		if err != nil {
			return nil, err
		}
		s.cacheSet(ctx, GroceryShopKey(id), found)
		shop = *found
	}

	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	if category == "" {
		return &shop, nil
	}
	items := make([]domain.GroceryItem, 0, len(shop.Items))
	for _, item := range shop.Items {
		if strings.EqualFold(item.Category, category) {
			items = append(items, item)
		}
	}
	shop.Items = items
	return &shop, nil
}

func (s *CatalogService) restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var all []domain.Restaurant
	if s.cacheGet(ctx, RestaurantsKey, &all) {
		return all, nil
	}
	all, err := s.repo.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, RestaurantsKey, all)
	return all, nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	return hit
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}
