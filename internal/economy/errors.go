package economy

import "errors"

var (
	ErrInsufficientBalance       = errors.New("insufficient balance")
	ErrNoPrizesAvailable         = errors.New("no prizes available")
	ErrInvalidWeightDistribution = errors.New("total weight must be positive")
	ErrDirectPurchaseNotAllowed  = errors.New("direct purchase not allowed")
	ErrDirectPriceNotSet         = errors.New("direct price not set")
	ErrPrizeUnavailable          = errors.New("prize is not available")
	ErrZeroAmount                = errors.New("adjustment amount must not be zero")
)
