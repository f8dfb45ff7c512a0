package schema

import "github.com/hamba/avro/v2"

const CartItemSchemaTextV1 = `{
	"type": "record",
	"namespace": "smartmart",
	"name": "cart_item",
	"fields" : [
		{"name": "cart_item_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "product_image", "type": "string"},
		{"name": "unit_price", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "user_id", "type": "string"},
		{"name": "added_at", "type": "long"}
	]
}`

const WishlistItemSchemaTextV1 = `{
	"type": "record",
	"namespace": "smartmart",
	"name": "wishlist_item",
	"fields" : [
		{"name": "wishlist_item_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "product_name", "type": "string"},
		{"name": "product_image", "type": "string"},
		{"name": "unit_price", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "added_at", "type": "long"}
	]
}`

type CartItemV1 struct {
	CartItemID   string `avro:"cart_item_id"`
	ProductID    string `avro:"product_id"`
	ProductName  string `avro:"product_name"`
	ProductImage string `avro:"product_image"`
	UnitPrice    string `avro:"unit_price"`
	Quantity     int    `avro:"quantity"`
	UserID       string `avro:"user_id"`
	AddedAt      int64  `avro:"added_at"`
}

type WishlistItemV1 struct {
	WishlistItemID string `avro:"wishlist_item_id"`
	ProductID      string `avro:"product_id"`
	ProductName    string `avro:"product_name"`
	ProductImage   string `avro:"product_image"`
	UnitPrice      string `avro:"unit_price"`
	UserID         string `avro:"user_id"`
	AddedAt        int64  `avro:"added_at"`
}

var (
	cartItemV1Avro     = avro.MustParse(CartItemSchemaTextV1)
	wishlistItemV1Avro = avro.MustParse(WishlistItemSchemaTextV1)
)

func CartItemV1Avro() avro.Schema {
	return cartItemV1Avro
}

func WishlistItemV1Avro() avro.Schema {
	return wishlistItemV1Avro
}
