package gorm

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/multivarka/kitchen/internal/domain/pantry"
	"github.com/multivarka/kitchen/internal/ports/outbound"
)

// PantryRepository implements the pantry repository interface using GORM.
// Mutations are serialized by one lock and run in a transaction each.
type PantryRepository struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) *PantryRepository {
	return &PantryRepository{db: db}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Load returns every product
func (r *PantryRepository) Load(ctx context.Context) (pantry.Snapshot, error) {
	return loadSnapshot(r.db.WithContext(ctx))
}

// Save replaces the whole pantry
func (r *PantryRepository) Save(ctx context.Context, snapshot pantry.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ProductModel{}).Error; err != nil {
			return err
		}
		if len(snapshot) == 0 {
			return nil
		}
		models := make([]*ProductModel, 0, len(snapshot))
		for _, p := range snapshot.Sorted() {
			models = append(models, ProductToModel(p))
		}
		return tx.CreateInBatches(models, 100).Error
	})
}

// Find returns one product
func (r *PantryRepository) Find(ctx context.Context, name string) (*pantry.Product, error) {
	p, err := findProduct(r.db.WithContext(ctx), name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, pantry.ErrProductNotFound
	}
	return p, nil
}

// Insert adds a product that must not exist yet
func (r *PantryRepository) Insert(ctx context.Context, product pantry.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findProduct(tx, product.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return pantry.ErrProductExists
		}
		return tx.Create(ProductToModel(product)).Error
	})
}

// IncrementOrInsert merges a purchase into the pantry
func (r *PantryRepository) IncrementOrInsert(ctx context.Context, add pantry.Addition) (pantry.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result pantry.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findProduct(tx, add.Name)
		if err != nil {
			return err
		}
		result = pantry.AddOrIncrement(existing, add)
		if existing == nil {
			return tx.Create(ProductToModel(result)).Error
		}
		return saveProduct(tx, result)
	})
	return result, err
}

// SetQuantity overwrites a product's quantity
func (r *PantryRepository) SetQuantity(ctx context.Context, name string, quantity float64) (bool, error) {
	return r.modify(ctx, name, func(p *pantry.Product) { p.SetQuantity(quantity) })
}

// SetExpiration overwrites a product's expiration date
func (r *PantryRepository) SetExpiration(ctx context.Context, name string, expiration string) (bool, error) {
	return r.modify(ctx, name, func(p *pantry.Product) { p.SetExpiration(expiration) })
}

// Delete removes a product
func (r *PantryRepository) Delete(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.db.WithContext(ctx).Delete(&ProductModel{}, "name = ?", name)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update applies fn to the current pantry and writes the difference
func (r *PantryRepository) Update(ctx context.Context, fn func(snapshot pantry.Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := loadSnapshot(tx)
		if err != nil {
			return err
		}

		after := before.Clone()
		if err := fn(after); err != nil {
			return err
		}

		for name := range before {
			if _, ok := after[name]; !ok {
				if err := tx.Delete(&ProductModel{}, "name = ?", name).Error; err != nil {
					return err
				}
			}
		}
		for name, p := range after {
			old, ok := before[name]
			switch {
			case !ok:
				if err := tx.Create(ProductToModel(p)).Error; err != nil {
					return err
				}
			case old != p:
				if err := saveProduct(tx, p); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *PantryRepository) modify(ctx context.Context, name string, fn func(p *pantry.Product)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, name)
		if err != nil || p == nil {
			return err
		}
		found = true
		fn(p)
		return saveProduct(tx, *p)
	})
	return found, err
}

func loadSnapshot(db *gorm.DB) (pantry.Snapshot, error) {
	var models []ProductModel
	if err := db.Find(&models).Error; err != nil {
		return nil, err
	}

	snapshot := make(pantry.Snapshot, len(models))
	for i := range models {
		p := ModelToProduct(&models[i])
		snapshot[p.Name] = p
	}
	return snapshot, nil
}

// findProduct returns nil without error when the product is absent
func findProduct(db *gorm.DB, name string) (*pantry.Product, error) {
	var model ProductModel
	err := db.Where("name = ?", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := ModelToProduct(&model)
	return &p, nil
}

// saveProduct writes every column of an existing product, NULL included
func saveProduct(db *gorm.DB, p pantry.Product) error {
	model := ProductToModel(p)
	return db.Model(&ProductModel{}).
		Where("name = ?", p.Name).
		Select("quantity", "unit", "kind", "expiration_date", "updated_at").
		Updates(model).Error
}
