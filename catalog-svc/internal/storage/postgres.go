package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"budget-bites/catalog-svc/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		position INT NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		emoji TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		review_count INT NOT NULL DEFAULT 0,
		cuisines TEXT[] NOT NULL DEFAULT '{}',
		delivery_time TEXT NOT NULL DEFAULT '',
		delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
		distance TEXT NOT NULL DEFAULT '',
		is_home_made BOOLEAN NOT NULL DEFAULT FALSE,
		price_range SMALLINT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		position INT NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL,
		is_veg BOOLEAN NOT NULL DEFAULT FALSE,
		is_popular BOOLEAN NOT NULL DEFAULT FALSE,
		category TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS grocery_shops (
		id TEXT PRIMARY KEY,
		position INT NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		emoji TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		delivery_time TEXT NOT NULL DEFAULT '',
		distance TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS grocery_items (
		id TEXT PRIMARY KEY,
		shop_id TEXT NOT NULL REFERENCES grocery_shops(id) ON DELETE CASCADE,
		position INT NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT ''
	)`,
}

const (
	restaurantColumns  = "id, name, emoji, rating, review_count, cuisines, delivery_time, delivery_fee, distance, is_home_made, price_range"
	menuItemColumns    = "id, restaurant_id, name, description, price, is_veg, is_popular, category"
	groceryShopColumns = "id, name, type, emoji, rating, delivery_time, distance"
	groceryItemColumns = "id, shop_id, name, price, unit, category"
)

type restaurantRow struct {
	domain.Restaurant
	Cuisines pq.StringArray `db:"cuisines"`
}

func (r restaurantRow) toDomain() domain.Restaurant {
	rest := r.Restaurant
	rest.Cuisines = []string(r.Cuisines)
	return rest
}

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Seed upserts the whole catalog in one transaction. Rows missing from c are left alone.
func (r *PostgresRepository) Seed(ctx context.Context, c domain.Catalog) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, rest := range c.Restaurants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO restaurants (id, position, name, emoji, rating, review_count, cuisines, delivery_time, delivery_fee, distance, is_home_made, price_range)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				position = EXCLUDED.position, name = EXCLUDED.name, emoji = EXCLUDED.emoji,
				rating = EXCLUDED.rating, review_count = EXCLUDED.review_count, cuisines = EXCLUDED.cuisines,
				delivery_time = EXCLUDED.delivery_time, delivery_fee = EXCLUDED.delivery_fee,
				distance = EXCLUDED.distance, is_home_made = EXCLUDED.is_home_made, price_range = EXCLUDED.price_range`,
			rest.ID, i, rest.Name, rest.Emoji, rest.Rating, rest.ReviewCount, pq.Array(rest.Cuisines),
			rest.DeliveryTime, rest.DeliveryFee, rest.Distance, rest.IsHomeMade, rest.PriceRange)
		if err != nil {
			return fmt.Errorf("seed restaurant %s: %w", rest.ID, err)
		}

		for j, item := range rest.Menu {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO menu_items (id, restaurant_id, position, name, description, price, is_veg, is_popular, category)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					restaurant_id = EXCLUDED.restaurant_id, position = EXCLUDED.position, name = EXCLUDED.name,
					description = EXCLUDED.description, price = EXCLUDED.price, is_veg = EXCLUDED.is_veg,
					is_popular = EXCLUDED.is_popular, category = EXCLUDED.category`,
				item.ID, rest.ID, j, item.Name, item.Description, item.Price, item.IsVeg, item.IsPopular, item.Category)
			if err != nil {
				return fmt.Errorf("seed menu item %s: %w", item.ID, err)
			}
		}
	}

	for i, shop := range c.GroceryShops {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO grocery_shops (id, position, name, type, emoji, rating, delivery_time, distance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				position = EXCLUDED.position, name = EXCLUDED.name, type = EXCLUDED.type, emoji = EXCLUDED.emoji,
				rating = EXCLUDED.rating, delivery_time = EXCLUDED.delivery_time, distance = EXCLUDED.distance`,
			shop.ID, i, shop.Name, shop.Type, shop.Emoji, shop.Rating, shop.DeliveryTime, shop.Distance)
		if err != nil {
			return fmt.Errorf("seed grocery shop %s: %w", shop.ID, err)
		}

		for j, item := range shop.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO grocery_items (id, shop_id, position, name, price, unit, category)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (id) DO UPDATE SET
					shop_id = EXCLUDED.shop_id, position = EXCLUDED.position, name = EXCLUDED.name,
					price = EXCLUDED.price, unit = EXCLUDED.unit, category = EXCLUDED.category`,
				item.ID, shop.ID, j, item.Name, item.Price, item.Unit, item.Category)
			if err != nil {
				return fmt.Errorf("seed grocery item %s: %w", item.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var rows []restaurantRow
	if err := r.DB.SelectContext(ctx, &rows, "SELECT "+restaurantColumns+" FROM restaurants ORDER BY position, id"); err != nil {
		return nil, err
	}
	var items []domain.MenuItem
	if err := r.DB.SelectContext(ctx, &items, "SELECT "+menuItemColumns+" FROM menu_items ORDER BY restaurant_id, position, id"); err != nil {
		return nil, err
	}

	menus := make(map[string][]domain.MenuItem)
	for _, item := range items {
		menus[item.RestaurantID] = append(menus[item.RestaurantID], item)
	}

	restaurants := make([]domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		rest := row.toDomain()
		rest.Menu = menus[rest.ID]
		restaurants = append(restaurants, rest)
	}
	return restaurants, nil
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	var row restaurantRow
	err := r.DB.GetContext(ctx, &row, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rest := row.toDomain()
	if err := r.DB.SelectContext(ctx, &rest.Menu, "SELECT "+menuItemColumns+" FROM menu_items WHERE restaurant_id = $1 ORDER BY position, id", id); err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) ListGroceryShops(ctx context.Context) ([]domain.GroceryShop, error) {
	var shops []domain.GroceryShop
	if err := r.DB.SelectContext(ctx, &shops, "SELECT "+groceryShopColumns+" FROM grocery_shops ORDER BY position, id"); err != nil {
		return nil, err
	}
	var items []domain.GroceryItem
	if err := r.DB.SelectContext(ctx, &items, "SELECT "+groceryItemColumns+" FROM grocery_items ORDER BY shop_id, position, id"); err != nil {
		return nil, err
	}

	byShop := make(map[string][]domain.GroceryItem)
	for _, item := range items {
		byShop[item.ShopID] = append(byShop[item.ShopID], item)
	}
	for i := range shops {
		shops[i].Items = byShop[shops[i].ID]
	}
	return shops, nil
}

func (r *PostgresRepository) GetGroceryShop(ctx context.Context, id string) (*domain.GroceryShop, error) {
	var shop domain.GroceryShop
	err := r.DB.GetContext(ctx, &shop, "SELECT "+groceryShopColumns+" FROM grocery_shops WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &shop.Items, "SELECT "+groceryItemColumns+" FROM grocery_items WHERE shop_id = $1 ORDER BY position, id", id); err != nil {
		return nil, err
	}
	return &shop, nil
}
