package services

import "errors"

var (
	// ErrInvalidSpan rejects malformed date spans before any storage access.
	ErrInvalidSpan = errors.New("check-in must be strictly before check-out")

	// ErrBookingConflict is a business-rule failure: the requested span
	// intersects existing occupancy. Distinct from storage failures so routes
	// can answer 409 instead of 500.
	ErrBookingConflict = errors.New("requested dates are no longer available")

	// ErrUnpricedNights rejects booking spans whose quote contains nights no
	// season period prices. The engine never substitutes a fallback price.
	ErrUnpricedNights = errors.New("span contains nights without a valid price")

	// ErrOverlappingPeriods rejects season tables with truly overlapping
	// day-month ranges. Overlap is forbidden at write time so first-match
	// resolution stays deterministic.
	ErrOverlappingPeriods = errors.New("season periods overlap")

	// ErrInvalidPeriod rejects a season period that fails field validation.
	ErrInvalidPeriod = errors.New("invalid season period")
)
