// Package pantry models the household store of food products
package pantry

import (
	"sort"
	"strings"
)

// Kind tells how a product or ingredient is tracked
type Kind string

const (
	// KindQuantity products are tracked by a numeric amount in a unit
	KindQuantity Kind = "quantity"
	// KindAvailability products are either present or absent
	KindAvailability Kind = "availability"
)

// IsValid reports whether the kind is one of the known kinds
func (k Kind) IsValid() bool {
	return k == KindQuantity || k == KindAvailability
}

// ParseKind parses a kind, treating an empty value as quantity
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindQuantity:
		return KindQuantity, nil
	case KindAvailability:
		return KindAvailability, nil
	default:
		return "", ErrInvalidKind
	}
}

// EffectiveKind resolves the kind used when an ingredient meets a pantry
// product: availability wins if either side declares it.
func EffectiveKind(ingredientKind, productKind Kind) Kind {
	if ingredientKind == KindAvailability || productKind == KindAvailability {
		return KindAvailability
	}
	return KindQuantity
}

// Product is a single pantry entry keyed by name
type Product struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Kind       Kind    `json:"kind"`
	Expiration string  `json:"expiration_date,omitempty"`
}

// NewProduct creates a validated, normalized product
func NewProduct(name string, quantity float64, unit string, kind Kind, expiration string) (Product, error) {
	p := Product{
		Name:       strings.TrimSpace(name),
		Quantity:   quantity,
		Unit:       strings.TrimSpace(unit),
		Kind:       kind,
		Expiration: strings.TrimSpace(expiration),
	}
	if p.Kind == "" {
		p.Kind = KindQuantity
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	p.normalize()
	return p, nil
}

// Validate checks the product invariants
func (p Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Unit == "" {
		return ErrUnitRequired
	}
	if !p.Kind.IsValid() {
		return ErrInvalidKind
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if p.Expiration != "" {
		if _, ok := ParseDate(p.Expiration); !ok {
			return ErrInvalidExpiration
		}
	}
	return nil
}

// InStock reports whether any of the product is left
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// SetQuantity overwrites the quantity; an emptied product loses its date
func (p *Product) SetQuantity(quantity float64) {
	p.Quantity = quantity
	p.normalize()
	if p.Quantity == 0 {
		p.Expiration = ""
	}
}

// SetExpiration overwrites the expiration date; empty clears it
func (p *Product) SetExpiration(expiration string) {
	p.Expiration = strings.TrimSpace(expiration)
}

// Consume removes amount from the pantry following the effective kind
// the ingredient resolves to. Availability products are used up entirely.
func (p *Product) Consume(amount float64, ingredientKind Kind) {
	if EffectiveKind(ingredientKind, p.Kind) == KindAvailability {
		p.Quantity = 0
		p.Expiration = ""
		return
	}
	p.Quantity -= amount
	p.normalize()
	if p.Quantity == 0 {
		p.Expiration = ""
	}
}

// normalize clamps quantity at zero and keeps availability products at 0 or 1
func (p *Product) normalize() {
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	if p.Kind != KindAvailability {
		return
	}
	if p.Quantity > 0 {
		p.Quantity = 1
		return
	}
	p.Quantity = 0
	p.Expiration = ""
}

// Addition describes a purchase or manual correction of a product
type Addition struct {
	Name       string
	Amount     float64
	Unit       string
	Kind       Kind
	Expiration string
}

// AddOrIncrement merges an addition into an existing product, or creates
// the product when existing is nil.
func AddOrIncrement(existing *Product, add Addition) Product {
	kind := add.Kind
	if kind == "" {
		kind = KindQuantity
	}

	if existing == nil {
		p := Product{
			Name:       add.Name,
			Quantity:   add.Amount,
			Unit:       add.Unit,
			Kind:       kind,
			Expiration: add.Expiration,
		}
		p.normalize()
		return p
	}

	p := *existing
	if p.Unit == "" {
		p.Unit = add.Unit
	}
	if kind == KindAvailability || p.Kind == KindAvailability {
		p.Kind = KindAvailability
		p.Quantity = 1
		p.Expiration = add.Expiration
		return p
	}

	p.Quantity += add.Amount
	p.Expiration = add.Expiration
	p.normalize()
	if add.Amount < 0 && p.Quantity == 0 {
		p.Expiration = ""
	}
	return p
}

// Snapshot is a point-in-time view of the pantry keyed by product name
type Snapshot map[string]Product

// Lookup returns the named product if present
func (s Snapshot) Lookup(name string) (Product, bool) {
	p, ok := s[name]
	return p, ok
}

// Sorted returns the products ordered case-insensitively by name
func (s Snapshot) Sorted() []Product {
	products := make([]Product, 0, len(s))
	for _, p := range s {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products
}

// Clone returns an independent copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
