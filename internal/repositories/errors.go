package repositories

import "errors"

// Domain errors shared by the pre-checks in the service layer and the
// database constraint translation in the repositories, so both paths surface
// the same conflict to handlers.
var (
	ErrDuplicateSKU  = errors.New("product with this SKU already exists")
	ErrDuplicateSlug = errors.New("category with this slug already exists")
)
