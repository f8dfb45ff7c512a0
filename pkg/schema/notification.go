package schema

import "github.com/hamba/avro/v2"

const NotificationSchemaTextV1 = `{
	"type": "record",
	"namespace": "smartmart",
	"name": "notification",
	"fields" : [
		{"name": "type", "type": "string"},
		{"name": "title", "type": "string"},
		{"name": "body", "type": "string"},
		{"name": "user_id", "type": "string"}
	]
}`

type NotificationV1 struct {
	Type   string `avro:"type"`
	Title  string `avro:"title"`
	Body   string `avro:"body"`
	UserID string `avro:"user_id"`
}

var notificationV1Avro = avro.MustParse(NotificationSchemaTextV1)

func NotificationV1Avro() avro.Schema {
	return notificationV1Avro
}
