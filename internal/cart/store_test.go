package cart

import (
	"testing"

	"sabores-app/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(id string, price float64) product.Product {
	return product.Product{ID: id, Name: "Producto " + id, Price: price}
}

func TestStore_Add(t *testing.T) {
	t.Run("New line starts at quantity 1", func(t *testing.T) {
		s := NewStore()

		err := s.Add(newTestProduct("p-1", 50), nil, nil)

		assert.NoError(t, err)
		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Quantity)
	})

	t.Run("Adding same product twice merges into one line", func(t *testing.T) {
		s := NewStore()
		p := newTestProduct("p-1", 50)

		assert.NoError(t, s.Add(p, nil, nil))
		assert.NoError(t, s.Add(p, nil, nil))

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, 2, s.Count())
	})

	t.Run("Repeat add ignores new discount and image", func(t *testing.T) {
		s := NewStore()
		p := newTestProduct("p-1", 50)
		discount := 0.25
		img := "https://cdn/img.png"

		assert.NoError(t, s.Add(p, nil, nil))
		assert.NoError(t, s.Add(p, &img, &discount))

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Nil(t, lines[0].Discount)
		assert.Nil(t, lines[0].ImageURL)
	})

	t.Run("Empty product id rejected", func(t *testing.T) {
		s := NewStore()

		err := s.Add(product.Product{}, nil, nil)

		assert.ErrorIs(t, err, ErrInvalidProduct)
	})
}

func TestStore_Quantity(t *testing.T) {
	t.Run("Increase always adds one", func(t *testing.T) {
		s := NewStore()
		assert.NoError(t, s.Add(newTestProduct("p-1", 10), nil, nil))

		assert.NoError(t, s.Increase("p-1"))
		assert.NoError(t, s.Increase("p-1"))

		assert.Equal(t, 3, s.Count())
	})

	t.Run("Decrease never drops below one", func(t *testing.T) {
		s := NewStore()
		assert.NoError(t, s.Add(newTestProduct("p-1", 10), nil, nil))

		assert.NoError(t, s.Decrease("p-1"))
		assert.NoError(t, s.Decrease("p-1"))

		lines := s.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Quantity)
	})

	t.Run("Unknown line reported", func(t *testing.T) {
		s := NewStore()

		assert.ErrorIs(t, s.Increase("nope"), ErrLineNotFound)
		assert.ErrorIs(t, s.Decrease("nope"), ErrLineNotFound)
		assert.ErrorIs(t, s.Remove("nope"), ErrLineNotFound)
	})
}

func TestStore_Totals(t *testing.T) {
	t.Run("Discounted line subtotal", func(t *testing.T) {
		s := NewStore()
		discount := 0.1

		assert.NoError(t, s.Add(newTestProduct("p-1", 100), nil, &discount))
		assert.NoError(t, s.Increase("p-1"))

		// 100 * 2 * (1 - 0.1)
		assert.InDelta(t, 180.00, s.Total(), 1e-9)
	})

	t.Run("Count equals sum of quantities across any op sequence", func(t *testing.T) {
		s := NewStore()

		assert.NoError(t, s.Add(newTestProduct("p-1", 10), nil, nil))
		assert.NoError(t, s.Add(newTestProduct("p-2", 20), nil, nil))
		assert.NoError(t, s.Increase("p-1"))
		assert.NoError(t, s.Increase("p-2"))
		assert.NoError(t, s.Decrease("p-2"))
		assert.NoError(t, s.Add(newTestProduct("p-3", 5), nil, nil))
		assert.NoError(t, s.Remove("p-1"))

		sum := 0
		for _, line := range s.Lines() {
			assert.GreaterOrEqual(t, line.Quantity, 1)
			sum += line.Quantity
		}
		assert.Equal(t, sum, s.Count())
		assert.Equal(t, 2, s.Count())
	})

	t.Run("Remove drops line regardless of quantity", func(t *testing.T) {
		s := NewStore()
		assert.NoError(t, s.Add(newTestProduct("p-1", 10), nil, nil))
		assert.NoError(t, s.Increase("p-1"))
		assert.NoError(t, s.Increase("p-1"))

		assert.NoError(t, s.Remove("p-1"))

		assert.Empty(t, s.Lines())
		assert.Equal(t, 0, s.Count())
	})

	t.Run("Clear empties everything", func(t *testing.T) {
		s := NewStore()
		assert.NoError(t, s.Add(newTestProduct("p-1", 10), nil, nil))
		assert.NoError(t, s.Add(newTestProduct("p-2", 20), nil, nil))

		s.Clear()

		assert.Equal(t, 0, s.Count())
		assert.Zero(t, s.Total())
	})
}

func TestStore_LinesOrder(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Add(newTestProduct("p-2", 20), nil, nil))
	assert.NoError(t, s.Add(newTestProduct("p-1", 10), nil, nil))
	assert.NoError(t, s.Add(newTestProduct("p-3", 5), nil, nil))

	lines := s.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "p-2", lines[0].Product.ID)
	assert.Equal(t, "p-1", lines[1].Product.ID)
	assert.Equal(t, "p-3", lines[2].Product.ID)
}
