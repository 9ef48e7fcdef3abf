package cart

import (
	"sync"

	"github.com/Aviraj0403/grocery-checkout/internal/domain"
)

// Store owns the process-wide cart state. It is shared with the rest of the
// application; the checkout state machine is the sole caller of Clear, and
// only on confirmed order success.
type Store struct {
	mu    sync.RWMutex
	lines []domain.CartLine
}

// NewStore creates an empty cart store
func NewStore() *Store {
	return &Store{}
}

// Lines returns a snapshot of the cart lines in insertion order
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Add appends a line, merging quantity into an existing line for the same
// product and variant
func (s *Store) Add(line domain.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID && sameVariant(s.lines[i].SelectedVariant, line.SelectedVariant) {
			s.lines[i].Quantity += line.Quantity
			return
		}
	}
	s.lines = append(s.lines, line)
}

// SetQuantity updates the quantity of the line for productID; quantity < 1
// removes the line
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			if quantity < 1 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			} else {
				s.lines[i].Quantity = quantity
			}
			return
		}
	}
}

// TotalQuantity returns the sum of line quantities
func (s *Store) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalAmount returns the sum of line subtotals
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

// Clear removes every line from the cart
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

func sameVariant(a, b *domain.ProductVariant) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
