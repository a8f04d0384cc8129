package domain

import "time"

// ID is the store-assigned numeric product identifier. It is immutable once
// assigned and unique within a single backend.
type ID int64

type Category string

const (
	CategoryMainItem Category = "Main Item"
	CategorySide     Category = "Side"
	CategoryDrink    Category = "Drink"
	CategoryDessert  Category = "Dessert"
)

func Categories() []Category {
	return []Category{CategoryMainItem, CategorySide, CategoryDrink, CategoryDessert}
}

// ParseCategory validates a category literal coming from the outside.
func ParseCategory(value string) (Category, bool) {
	switch c := Category(value); c {
	case CategoryMainItem, CategorySide, CategoryDrink, CategoryDessert:
		return c, true
	}
	return "", false
}

// Product is the identity-less value used to create or overwrite a record.
type Product struct {
	Name        string
	Description string
	Category    Category
	Price       float64
	Quantity    int
}

func NewProduct(name, description string, category Category, price float64, quantity int) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Quantity:    quantity,
	}
}

// StoredProduct is a Product as persisted by a backend: identifier plus audit
// timestamps. CreatedAt is set once, UpdatedAt refreshed on every mutation.
type StoredProduct struct {
	Product
	ID        ID
	CreatedAt time.Time
	UpdatedAt time.Time
}
