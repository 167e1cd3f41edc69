package menu

import "errors"

// Domain errors for menu operations

var (
	ErrNoCurrentMenu = errors.New("no current menu")
	ErrSlotNotFound  = errors.New("meal slot is not in the current menu")
	ErrNoCandidates  = errors.New("no recipes to choose from")
	ErrCorruptMenu   = errors.New("stored menu cannot be decoded")
)
