package tests

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"budget-bites/catalog-svc/internal/domain"
	"budget-bites/catalog-svc/internal/storage"
)

const catalogFile = "../../data/catalog.yaml"

func nullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func testCatalog() domain.Catalog {
	c := domain.Catalog{
		Restaurants: []domain.Restaurant{
			{
				ID: "r1", Name: "Sharma Kitchen", Rating: 4.5, Cuisines: []string{"Home-Made", "Thali"},
				DeliveryTime: "20-25 min", DeliveryFee: dec(20), IsHomeMade: true, PriceRange: 1,
				Menu: []domain.MenuItem{
					{ID: "r1-1", Name: "Veg Thali", Price: dec(120), IsVeg: true, Category: "Thali"},
					{ID: "r1-2", Name: "Egg Curry", Price: dec(140), Category: "Main Course"},
				},
			},
			{
				ID: "r2", Name: "Biryani House", Rating: 4.2, Cuisines: []string{"Mughlai"},
				DeliveryTime: "35-40 min", DeliveryFee: dec(25), PriceRange: 2,
				Menu: []domain.MenuItem{
					{ID: "r2-1", Name: "Chicken Biryani", Price: dec(220), Category: "Biryani"},
					{ID: "r2-2", Name: "Veg Biryani", Price: dec(180), IsVeg: true, Category: "Biryani"},
				},
			},
			{
				ID: "r3", Name: "Dosa Point", Rating: 4.7, Cuisines: []string{"South Indian"},
				DeliveryTime: "soon", PriceRange: 1,
				Menu: []domain.MenuItem{
					{ID: "r3-1", Name: "Masala Dosa", Price: dec(90), IsVeg: true, Category: "Dosa"},
				},
			},
		},
		GroceryShops: []domain.GroceryShop{
			{
				ID: "g1", Name: "Big Basket Express", Rating: 4.6, DeliveryTime: "20 min",
				Items: []domain.GroceryItem{
					{ID: "g1-1", Name: "Milk", Price: dec(50), Unit: "1L", Category: "Dairy"},
					{ID: "g1-2", Name: "Bread", Price: dec(35), Unit: "1 pack", Category: "Bakery"},
					{ID: "g1-3", Name: "Butter", Price: dec(55), Unit: "100g", Category: "Dairy"},
				},
			},
		},
	}
	c.Link()
	return c
}

func newFileCatalog() *storage.FileCatalog {
	return storage.NewFileCatalog(testCatalog())
}

func restaurantIDs(rs []domain.Restaurant) []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

func menuIDs(items []domain.MenuItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}
