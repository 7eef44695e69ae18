// Package quantity clips requested order quantities into the range allowed
// by a product's ordering constraints and its current availability.
package quantity

import (
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/types"
)

const (
	// DefaultMinQty applies when a product declares no minimum order quantity.
	DefaultMinQty = 1
	// DefaultMaxQty applies when a product declares no maximum order quantity.
	DefaultMaxQty = 99
)

// Clip returns the requested quantity clipped to
// [effectiveMin, min(effectiveMax, availability.MaxOrderable)].
//
// When availability caps the range below the effective minimum the result is
// the availability cap itself, even though it violates the nominal minimum:
// stock is the hard physical constraint and wins over the product's stated
// minimum order quantity. A nil availability is a programmer error, not a
// user error, and fails with an invalid-argument error.
func Clip(requested int, minQty, maxQty *int, avail *types.Availability) (int, error) {
	if avail == nil {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidArgument, "availability is required")
	}

	effectiveMin := DefaultMinQty
	if minQty != nil {
		effectiveMin = *minQty
	}
	effectiveMax := DefaultMaxQty
	if maxQty != nil {
		effectiveMax = *maxQty
	}

	upperBound := effectiveMax
	if avail.MaxOrderable < upperBound {
		upperBound = avail.MaxOrderable
	}

	clipped := requested
	if clipped < effectiveMin {
		clipped = effectiveMin
	}
	if clipped > upperBound {
		clipped = upperBound
	}
	return clipped, nil
}

// IsValid reports whether quantity already lies within the allowed range.
func IsValid(quantity int, minQty, maxQty *int, avail *types.Availability) (bool, error) {
	if avail == nil {
		return false, pkgerrors.New(pkgerrors.CodeInvalidArgument, "availability is required")
	}

	effectiveMin := DefaultMinQty
	if minQty != nil {
		effectiveMin = *minQty
	}
	effectiveMax := DefaultMaxQty
	if maxQty != nil {
		effectiveMax = *maxQty
	}

	upperBound := effectiveMax
	if avail.MaxOrderable < upperBound {
		upperBound = avail.MaxOrderable
	}

	return quantity >= effectiveMin && quantity <= upperBound, nil
}
