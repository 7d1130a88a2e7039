package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidProduct = errors.New("invalid cart product")

	// -- Resource State --
	ErrLineNotFound = errors.New("cart line not found")
)
