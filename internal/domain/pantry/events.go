package pantry

import "time"

// ProductChanged is raised after a pantry product is written or removed
type ProductChanged struct {
	Product    string  `json:"product"`
	Action     string  `json:"action"`
	Quantity   float64 `json:"quantity"`
	occurredAt time.Time
}

// Product change actions
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionConsumed = "consumed"
	ActionSynced   = "synced"
)

// NewProductChanged creates a product change event
func NewProductChanged(product, action string, quantity float64) ProductChanged {
	return ProductChanged{
		Product:    product,
		Action:     action,
		Quantity:   quantity,
		occurredAt: time.Now(),
	}
}

func (e ProductChanged) EventName() string     { return "pantry.product_changed" }
func (e ProductChanged) OccurredAt() time.Time { return e.occurredAt }
