package pantry

import "errors"

// Domain errors for pantry operations

var (
	// Product validation errors
	ErrNameRequired      = errors.New("product name is required")
	ErrUnitRequired      = errors.New("product unit is required")
	ErrInvalidKind       = errors.New("product kind must be quantity or availability")
	ErrNegativeQuantity  = errors.New("product quantity cannot be negative")
	ErrInvalidExpiration = errors.New("expiration date must use the YYYY-MM-DD format")

	// Lookup errors
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)
