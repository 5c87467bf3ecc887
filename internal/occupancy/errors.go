package occupancy

import "errors"

var (
	ErrUnitNotFound      = errors.New("residence unit not found")
	ErrInvalidRole       = errors.New("invalid occupancy role")
	ErrTransactionFailed = errors.New("occupancy transaction failed")
	ErrInvariant         = errors.New("occupancy invariant violated")
)
