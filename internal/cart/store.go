package cart

import (
	"sort"
	"sync"

	"sabores-app/internal/product"
)

// Store holds the authoritative client-side cart. It is process-lifetime,
// in-memory state; persistence belongs to a collaborator, not here. All
// mutation goes through Store methods, derived values are computed on read.
type Store struct {
	mu    sync.Mutex
	lines map[string]*Line
	seq   int
}

func NewStore() *Store {
	return &Store{lines: make(map[string]*Line)}
}

// Add inserts a new line with quantity 1, or bumps the quantity of the
// existing line for the same product. The image and discount arguments only
// apply on first insert; repeats of an already-carted product keep the
// original line untouched apart from quantity.
func (s *Store) Add(p product.Product, imageURL *string, discount *float64) error {
	if p.ID == "" {
		return ErrInvalidProduct
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[p.ID]; ok {
		line.Quantity++
		return nil
	}

	s.seq++
	s.lines[p.ID] = &Line{
		Product:  p,
		ImageURL: imageURL,
		Discount: discount,
		Quantity: 1,
		seq:      s.seq,
	}
	return nil
}

// Remove drops the line entirely, whatever its quantity.
func (s *Store) Remove(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[productID]; !ok {
		return ErrLineNotFound
	}
	delete(s.lines, productID)
	return nil
}

func (s *Store) Increase(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productID]
	if !ok {
		return ErrLineNotFound
	}
	line.Quantity++
	return nil
}

// Decrease subtracts 1 from the line's quantity but never below 1; at the
// floor it is a no-op, not a removal.
func (s *Store) Decrease(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productID]
	if !ok {
		return ErrLineNotFound
	}
	if line.Quantity > 1 {
		line.Quantity--
	}
	return nil
}

// Clear empties all lines.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[string]*Line)
}

// Count is the sum of quantities across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total is the sum of discounted line subtotals.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
