package memory

import (
	"context"
	"sync"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// MenuRepository keeps the current menu as an encoded blob
type MenuRepository struct {
	blob  []byte
	mutex sync.RWMutex
}

// NewMenuRepository creates a new in-memory menu repository
func NewMenuRepository() *MenuRepository {
	return &MenuRepository{}
}

var _ outbound.MenuRepository = (*MenuRepository)(nil)

// Load decodes the stored menu, nil when there is none
func (r *MenuRepository) Load(ctx context.Context) (*menu.CurrentMenu, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.decode()
}

// Save stores the menu, replacing any previous one
func (r *MenuRepository) Save(ctx context.Context, m *menu.CurrentMenu) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.store(m)
}

// Clear removes the stored menu
func (r *MenuRepository) Clear(ctx context.Context) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existed := r.blob != nil
	r.blob = nil
	return existed, nil
}

// Update runs fn under the write lock
func (r *MenuRepository) Update(ctx context.Context, fn outbound.MenuMutation) (*menu.CurrentMenu, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	current, err := r.decode()
	if err != nil {
		return nil, err
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}
	if err := r.store(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *MenuRepository) decode() (*menu.CurrentMenu, error) {
	if r.blob == nil {
		return nil, nil
	}
	return menu.Decode(r.blob)
}

func (r *MenuRepository) store(m *menu.CurrentMenu) error {
	blob, err := menu.Encode(m)
	if err != nil {
		return err
	}
	r.blob = blob
	return nil
}
