package resource_test

import (
	"testing"

	"github.com/niksmo/smartmart/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource(t *testing.T) {
	t.Run("Loading", func(t *testing.T) {
		r := resource.Loading[[]string]()
		assert.True(t, r.IsLoading())
		assert.Equal(t, resource.StateLoading, r.State())

		_, ok := r.Data()
		assert.False(t, ok)
		_, ok = r.Err()
		assert.False(t, ok)
	})

	t.Run("Success", func(t *testing.T) {
		r := resource.Success([]string{"p1"})
		require.True(t, r.IsSuccess())

		data, ok := r.Data()
		require.True(t, ok)
		assert.Equal(t, []string{"p1"}, data)
	})

	t.Run("Failure", func(t *testing.T) {
		r := resource.Failure[int]("not_found", "product not found")
		require.True(t, r.IsError())

		e, ok := r.Err()
		require.True(t, ok)
		assert.Equal(t, "not_found", e.Kind)
		assert.Equal(t, "not_found: product not found", e.Error())
	})
}

func TestResourceMatch(t *testing.T) {
	var got []string
	record := func(r resource.Resource[int]) {
		r.Match(
			func() { got = append(got, "loading") },
			func(int) { got = append(got, "success") },
			func(resource.Error) { got = append(got, "error") },
		)
	}

	record(resource.Loading[int]())
	record(resource.Success(1))
	record(resource.Failure[int]("network", "down"))

	assert.Equal(t, []string{"loading", "success", "error"}, got)
}
