package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

var ErrNotFound = errors.New("not found")

type Restaurant struct {
	ID           string          `json:"id" yaml:"id" db:"id"`
	Name         string          `json:"name" yaml:"name" db:"name"`
	Emoji        string          `json:"emoji" yaml:"emoji" db:"emoji"`
	Rating       float64         `json:"rating" yaml:"rating" db:"rating"`
	ReviewCount  int             `json:"review_count" yaml:"review_count" db:"review_count"`
	Cuisines     []string        `json:"cuisines" yaml:"cuisines" db:"-"`
	DeliveryTime string          `json:"delivery_time" yaml:"delivery_time" db:"delivery_time"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee" yaml:"delivery_fee" db:"delivery_fee"`
	Distance     string          `json:"distance" yaml:"distance" db:"distance"`
	IsHomeMade   bool            `json:"is_home_made" yaml:"is_home_made" db:"is_home_made"`
	PriceRange   int             `json:"price_range" yaml:"price_range" db:"price_range"`
	Menu         []MenuItem      `json:"menu,omitempty" yaml:"menu" db:"-"`
}

type MenuItem struct {
	ID           string          `json:"id" yaml:"id" db:"id"`
	RestaurantID string          `json:"restaurant_id" yaml:"-" db:"restaurant_id"`
	Name         string          `json:"name" yaml:"name" db:"name"`
	Description  string          `json:"description" yaml:"description" db:"description"`
	Price        decimal.Decimal `json:"price" yaml:"price" db:"price"`
	IsVeg        bool            `json:"is_veg" yaml:"is_veg" db:"is_veg"`
	IsPopular    bool            `json:"is_popular" yaml:"is_popular" db:"is_popular"`
	Category     string          `json:"category" yaml:"category" db:"category"`
}

type GroceryShop struct {
	ID           string        `json:"id" yaml:"id" db:"id"`
	Name         string        `json:"name" yaml:"name" db:"name"`
	Type         string        `json:"type" yaml:"type" db:"type"`
	Emoji        string        `json:"emoji" yaml:"emoji" db:"emoji"`
	Rating       float64       `json:"rating" yaml:"rating" db:"rating"`
	DeliveryTime string        `json:"delivery_time" yaml:"delivery_time" db:"delivery_time"`
	Distance     string        `json:"distance" yaml:"distance" db:"distance"`
	Items        []GroceryItem `json:"items,omitempty" yaml:"items" db:"-"`
}

type GroceryItem struct {
	ID       string          `json:"id" yaml:"id" db:"id"`
	ShopID   string          `json:"shop_id" yaml:"-" db:"shop_id"`
	Name     string          `json:"name" yaml:"name" db:"name"`
	Price    decimal.Decimal `json:"price" yaml:"price" db:"price"`
	Unit     string          `json:"unit" yaml:"unit" db:"unit"`
	Category string          `json:"category" yaml:"category" db:"category"`
}

// Catalog is the full data set as stored in the catalog file.
type Catalog struct {
	Restaurants  []Restaurant  `yaml:"restaurants"`
	GroceryShops []GroceryShop `yaml:"grocery_shops"`
}

// Link fills the parent ids of menu and grocery items.
func (c *Catalog) Link() {
	for i := range c.Restaurants {
		for j := range c.Restaurants[i].Menu {
			c.Restaurants[i].Menu[j].RestaurantID = c.Restaurants[i].ID
		}
	}
	for i := range c.GroceryShops {
		for j := range c.GroceryShops[i].Items {
			c.GroceryShops[i].Items[j].ShopID = c.GroceryShops[i].ID
		}
	}
}
