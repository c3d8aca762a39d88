// Package store persists catalog products. The memory flavor backs tests and
// local development; postgres is the production store.
package store

import (
	"context"
	"sync"
	"time"

	"sellarte/internal/catalog"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
)

// Memory is a mutex-guarded in-memory product store.
type Memory struct {
	mu       sync.RWMutex
	products map[id.ProductID]*catalog.Product
	order    []id.ProductID
}

func NewMemory() *Memory {
	return &Memory{products: make(map[id.ProductID]*catalog.Product)}
}

func (s *Memory) Create(_ context.Context, product *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := clone(product)
	s.products[product.ID] = cp
	s.order = append(s.order, product.ID)
	return nil
}

func (s *Memory) Get(_ context.Context, productID id.ProductID) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(product), nil
}

func (s *Memory) List(_ context.Context) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*catalog.Product, 0, len(s.order))
	for _, productID := range s.order {
		out = append(out, clone(s.products[productID]))
	}
	return out, nil
}

func (s *Memory) Update(_ context.Context, product *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := clone(product)
	cp.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = cp
	return nil
}

func clone(product *catalog.Product) *catalog.Product {
	cp := *product
	if product.Stamp != nil {
		stamp := *product.Stamp
		cp.Stamp = &stamp
	}
	if product.Customization != nil {
		custom := *product.Customization
		custom.Colors.Available = append([]string(nil), product.Customization.Colors.Available...)
		cp.Customization = &custom
	}
	return &cp
}
