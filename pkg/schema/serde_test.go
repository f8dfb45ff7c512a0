package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/smartmart/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeNotificationV1(t *testing.T) {

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeNotificationV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeNotificationV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeNotificationV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
	})

	t.Run("RegistryUnavailable", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		subject := "notifications-value"
		errRegistry := errors.New("registry unavailable")

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.NotificationSchemaTextV1,
		).Return(0, errRegistry)

		_, err := schema.NewSerdeNotificationV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.ErrorIs(t, err, errRegistry)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "notifications-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.NotificationSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeNotificationV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		v1 := schema.NotificationV1{
			Type:   "order",
			Title:  "Order shipped",
			Body:   "Your order is on the way",
			UserID: "u1",
		}

		encodedData, err := serde.Encode(v1)
		require.NoError(t, err)

		var v2 schema.NotificationV1
		err = serde.Decode(encodedData, &v2)
		require.NoError(t, err)

		assert.Equal(t, v1, v2)
		schemaIdentifier.AssertExpectations(t)
	})
}
