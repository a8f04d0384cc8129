package domain

import "testing"

func TestParseCategory(t *testing.T) {
	t.Run("accepts the four catalog literals", func(t *testing.T) {
		for _, literal := range []string{"Main Item", "Side", "Drink", "Dessert"} {
			category, ok := ParseCategory(literal)
			if !ok {
				t.Fatalf("expected %q to parse", literal)
			}
			if string(category) != literal {
				t.Fatalf("expected %q, got %q", literal, category)
			}
		}
	})

	t.Run("rejects unknown literals", func(t *testing.T) {
		for _, literal := range []string{"", "main item", "Starter", "MAIN ITEM", "Drinks"} {
			if _, ok := ParseCategory(literal); ok {
				t.Fatalf("expected %q to be rejected", literal)
			}
		}
	})
}

func TestCategories(t *testing.T) {
	categories := Categories()
	if len(categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(categories))
	}
	for _, c := range categories {
		if _, ok := ParseCategory(string(c)); !ok {
			t.Fatalf("category %q does not round-trip through ParseCategory", c)
		}
	}
}

func TestNewProduct(t *testing.T) {
	product := NewProduct("Test Burger", "Delicious test burger", CategoryMainItem, 10.5, 5)

	if product.Name != "Test Burger" {
		t.Fatalf("expected name %q, got %q", "Test Burger", product.Name)
	}
	if product.Category != CategoryMainItem {
		t.Fatalf("expected category %q, got %q", CategoryMainItem, product.Category)
	}
	if product.Price != 10.5 {
		t.Fatalf("expected price 10.5, got %v", product.Price)
	}
	if product.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", product.Quantity)
	}
}
