package gorm

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/multivarka/kitchen/internal/domain/menu"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// MenuRepository stores the current menu as one serialized row
type MenuRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

var _ outbound.MenuRepository = (*MenuRepository)(nil)

// Load returns the stored menu or nil when there is none
func (r *MenuRepository) Load(ctx context.Context) (*menu.CurrentMenu, error) {
	return loadMenu(r.db.WithContext(ctx))
}

// Save replaces the stored menu
func (r *MenuRepository) Save(ctx context.Context, m *menu.CurrentMenu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return saveMenu(r.db.WithContext(ctx), m)
}

// Clear deletes the stored menu
func (r *MenuRepository) Clear(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.db.WithContext(ctx).Delete(&CurrentMenuModel{}, "id = ?", currentMenuID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update runs fn inside a transaction under the store lock
func (r *MenuRepository) Update(ctx context.Context, fn outbound.MenuMutation) (*menu.CurrentMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stored *menu.CurrentMenu
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadMenu(tx)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			stored = current
			return nil
		}
		if err := saveMenu(tx, next); err != nil {
			return err
		}
		stored = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func loadMenu(db *gorm.DB) (*menu.CurrentMenu, error) {
	var model CurrentMenuModel
	err := db.First(&model, "id = ?", currentMenuID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return menu.Decode([]byte(model.Payload))
}

func saveMenu(db *gorm.DB, m *menu.CurrentMenu) error {
	payload, err := menu.Encode(m)
	if err != nil {
		return err
	}
	return db.Save(&CurrentMenuModel{
		ID:        currentMenuID,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}).Error
}
