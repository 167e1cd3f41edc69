// Package memory provides in-memory repository implementations used for
// ephemeral deployments and tests
package memory

import (
	"context"
	"sync"

	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// PantryRepository keeps the pantry in a map guarded by one lock
type PantryRepository struct {
	data  pantry.Snapshot
	mutex sync.RWMutex
}

// NewPantryRepository creates a new in-memory pantry repository
func NewPantryRepository() *PantryRepository {
	return &PantryRepository{data: make(pantry.Snapshot)}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Load returns a copy of the pantry
func (r *PantryRepository) Load(ctx context.Context) (pantry.Snapshot, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.data.Clone(), nil
}

// Save replaces the pantry
func (r *PantryRepository) Save(ctx context.Context, snapshot pantry.Snapshot) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.data = snapshot.Clone()
	return nil
}

// Find returns one product
func (r *PantryRepository) Find(ctx context.Context, name string) (*pantry.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.data[name]
	if !ok {
		return nil, pantry.ErrProductNotFound
	}
	return &p, nil
}

// Insert adds a product that must not exist yet
func (r *PantryRepository) Insert(ctx context.Context, product pantry.Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.data[product.Name]; ok {
		return pantry.ErrProductExists
	}
	r.data[product.Name] = product
	return nil
}

// IncrementOrInsert merges a purchase into the pantry
func (r *PantryRepository) IncrementOrInsert(ctx context.Context, add pantry.Addition) (pantry.Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var existing *pantry.Product
	if p, ok := r.data[add.Name]; ok {
		existing = &p
	}
	product := pantry.AddOrIncrement(existing, add)
	r.data[product.Name] = product
	return product, nil
}

// SetQuantity overwrites a product's quantity
func (r *PantryRepository) SetQuantity(ctx context.Context, name string, quantity float64) (bool, error) {
	return r.modify(name, func(p *pantry.Product) { p.SetQuantity(quantity) })
}

// SetExpiration overwrites a product's expiration date
func (r *PantryRepository) SetExpiration(ctx context.Context, name string, expiration string) (bool, error) {
	return r.modify(name, func(p *pantry.Product) { p.SetExpiration(expiration) })
}

// Delete removes a product
func (r *PantryRepository) Delete(ctx context.Context, name string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.data[name]; !ok {
		return false, nil
	}
	delete(r.data, name)
	return true, nil
}

// Update applies fn to a working copy and keeps it only when fn succeeds
func (r *PantryRepository) Update(ctx context.Context, fn func(snapshot pantry.Snapshot) error) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	working := r.data.Clone()
	if err := fn(working); err != nil {
		return err
	}
	r.data = working
	return nil
}

func (r *PantryRepository) modify(name string, fn func(p *pantry.Product)) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.data[name]
	if !ok {
		return false, nil
	}
	fn(&p)
	r.data[name] = p
	return true, nil
}
