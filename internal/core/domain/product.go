package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     Category
	ImageURL     string
	Rating       float64
	Stock        int
	LastModified time.Time
}

// A ProductQuery narrows a local product read.
//
// Zero value matches every product.
type ProductQuery struct {
	Category     Category
	NameContains string
}

func (q ProductQuery) Match(p Product) bool {
	if !q.Category.IsAll() && p.Category != q.Category {
		return false
	}
	if q.NameContains == "" {
		return true
	}
	return strings.Contains(
		strings.ToLower(p.Name), strings.ToLower(q.NameContains),
	)
}

// A Category is a closed set of catalog sections.
//
// The string value is the wire and storage encoding.
type Category string

const (
	CategoryElectronics  Category = "Electronics"
	CategoryHousehold    Category = "Household"
	CategoryStationery   Category = "Stationery"
	CategoryPersonalCare Category = "Personal Care"
	CategoryFashion      Category = "Fashion"
	CategoryGroceries    Category = "Groceries"
	CategoryFruits       Category = "Fruits"
	CategoryVegetables   Category = "Vegetables"
	CategoryBeverages    Category = "Beverages"
	CategoryLaundry      Category = "Laundry"
	CategoryMilkAndEgg   Category = "Milk & Egg"
	CategoryOther        Category = "Other"

	// CategoryAll is a filter value only and never persisted.
	CategoryAll Category = "All"
)

var categories = []Category{
	CategoryElectronics,
	CategoryHousehold,
	CategoryStationery,
	CategoryPersonalCare,
	CategoryFashion,
	CategoryGroceries,
	CategoryFruits,
	CategoryVegetables,
	CategoryBeverages,
	CategoryLaundry,
	CategoryMilkAndEgg,
	CategoryOther,
}

// enum-style names written by older clients
var categoryAliases = map[string]Category{
	"ELECTRONICS":   CategoryElectronics,
	"HOUSEHOLD":     CategoryHousehold,
	"STATIONERY":    CategoryStationery,
	"PERSONAL_CARE": CategoryPersonalCare,
	"FASHION":       CategoryFashion,
	"GROCERIES":     CategoryGroceries,
	"FRUITS":        CategoryFruits,
	"VEGETABLES":    CategoryVegetables,
	"BEVERAGES":     CategoryBeverages,
	"LAUNDRY":       CategoryLaundry,
	"MILK_AND_EGG":  CategoryMilkAndEgg,
	"OTHER":         CategoryOther,
}

// Categories returns the persisted categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory never fails: unknown values decode as [CategoryOther].
func ParseCategory(s string) Category {
	for _, c := range categories {
		if string(c) == s {
			return c
		}
	}
	if c, ok := categoryAliases[s]; ok {
		return c
	}
	return CategoryOther
}

// ParseFilterCategory accepts the persisted categories, their legacy
// names and [CategoryAll], with the empty string meaning all. Unlike
// [ParseCategory] it rejects unknown values with [ErrValidation].
func ParseFilterCategory(s string) (Category, error) {
	if s == "" || s == string(CategoryAll) {
		return CategoryAll, nil
	}
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	if c, ok := categoryAliases[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q: %w", s, ErrValidation)
}

// Encodings lists every stored spelling of c: the display name first,
// then the legacy name when one exists.
func (c Category) Encodings() []string {
	out := []string{string(c)}
	for alias, v := range categoryAliases {
		if v == c {
			out = append(out, alias)
		}
	}
	return out
}

func (c Category) IsAll() bool {
	return c == CategoryAll || c == ""
}

func (c Category) String() string {
	return string(c)
}
