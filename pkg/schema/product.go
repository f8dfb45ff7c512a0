package schema

import "github.com/hamba/avro/v2"

const ProductSchemaTextV1 = `{
	"type": "record",
	"namespace": "smartmart",
	"name": "product",
	"fields" : [
		{"name": "product_id", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "description", "type": "string"},
		{"name": "price", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "image_url", "type": "string"},
		{"name": "rating", "type": "double"},
		{"name": "stock", "type": "long"},
		{"name": "last_modified", "type": "long"}
	]
}`

// A ProductV1 is the local cache row of a product.
//
// Price is a decimal string, LastModified is unix milliseconds.
type ProductV1 struct {
	ProductID    string  `avro:"product_id"`
	Name         string  `avro:"name"`
	Description  string  `avro:"description"`
	Price        string  `avro:"price"`
	Category     string  `avro:"category"`
	ImageURL     string  `avro:"image_url"`
	Rating       float64 `avro:"rating"`
	Stock        int64   `avro:"stock"`
	LastModified int64   `avro:"last_modified"`
}

var productV1Avro = avro.MustParse(ProductSchemaTextV1)

func ProductV1Avro() avro.Schema {
	return productV1Avro
}
