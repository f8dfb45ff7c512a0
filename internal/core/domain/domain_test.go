package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Fruits", CategoryFruits},
		{"Milk & Egg", CategoryMilkAndEgg},
		{"PERSONAL_CARE", CategoryPersonalCare},
		{"MILK_AND_EGG", CategoryMilkAndEgg},
		{"Toys", CategoryOther},
		{"", CategoryOther},
		{"All", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestParseFilterCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"", CategoryAll},
		{"All", CategoryAll},
		{"Fruits", CategoryFruits},
		{"MILK_AND_EGG", CategoryMilkAndEgg},
	}
	for _, tt := range tests {
		c, err := ParseFilterCategory(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c)
	}

	_, err := ParseFilterCategory("Toys")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCategoryEncodings(t *testing.T) {
	assert.Equal(t, []string{"Fruits", "FRUITS"}, CategoryFruits.Encodings())
	assert.Equal(t,
		[]string{"Personal Care", "PERSONAL_CARE"},
		CategoryPersonalCare.Encodings(),
	)
	assert.Equal(t, []string{"All"}, CategoryAll.Encodings())
}

func TestCategoriesExcludeAll(t *testing.T) {
	cs := Categories()
	assert.Len(t, cs, 12)
	assert.NotContains(t, cs, CategoryAll)

	cs[0] = "mutated"
	assert.Equal(t, CategoryElectronics, Categories()[0])
}

func TestProductQueryMatch(t *testing.T) {
	apple := Product{Name: "Red Apple", Category: CategoryFruits}

	assert.True(t, ProductQuery{}.Match(apple))
	assert.True(t, ProductQuery{Category: CategoryAll}.Match(apple))
	assert.True(t, ProductQuery{Category: CategoryFruits}.Match(apple))
	assert.False(t, ProductQuery{Category: CategoryVegetables}.Match(apple))
	assert.True(t, ProductQuery{NameContains: "APPLE"}.Match(apple))
	assert.False(t, ProductQuery{NameContains: "pear"}.Match(apple))
	assert.False(t, ProductQuery{
		Category: CategoryVegetables, NameContains: "apple",
	}.Match(apple))
}

func TestCartTotal(t *testing.T) {
	assert.True(t, CartTotal(nil).IsZero())

	items := []CartItem{
		{UnitPrice: decimal.RequireFromString("250"), Quantity: 3},
		{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
	}
	assert.Equal(t, "789.98", CartTotal(items).String())
}

func TestNewCartItem(t *testing.T) {
	p := Product{
		ID: "p1", Name: "Red Apple", ImageURL: "img",
		Price: decimal.RequireFromString("250"),
	}
	item := NewCartItem(p, 2)
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, "Red Apple", item.ProductName)
	assert.Equal(t, "img", item.ProductImage)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "500", item.Subtotal().String())
}

func TestKindOf(t *testing.T) {
	wrap := func(errs ...error) error {
		var err error = errors.New("cause")
		for _, e := range errs {
			err = fmt.Errorf("op: %w: %w", e, err)
		}
		return err
	}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"Nil", nil, ""},
		{"Network", wrap(ErrNetwork), KindNetwork},
		{"NotFound", wrap(ErrNotFound), KindNotFound},
		{"Timeout", wrap(ErrTimeout), KindTimeout},
		{"Deadline", fmt.Errorf("op: %w", context.DeadlineExceeded), KindTimeout},
		{"LocalStore", wrap(ErrLocalStore), KindLocalStore},
		{"Validation", wrap(ErrValidation), KindValidation},
		{"Unauthenticated", wrap(ErrUnauthenticated), KindUnauthenticated},
		{"NotFoundOverNetwork", wrap(ErrNotFound, ErrNetwork), KindNotFound},
		{"Unknown", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestNotificationChannel(t *testing.T) {
	assert.Equal(t, ChannelOrders, NotificationOrder.Channel())
	assert.Equal(t, ChannelOffers, NotificationOffers.Channel())
	assert.Equal(t, ChannelOffers, NotificationGeneral.Channel())
	assert.Equal(t, ChannelOffers, NotificationType("promo").Channel())
}
