package mining

import "errors"

// Every operation either fully completes or fails with one of these and no
// partial state change.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotOwner            = errors.New("not owner of asset")
	ErrNotApproved         = errors.New("asset not approved")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyStaked       = errors.New("already staked")
	ErrNotStaked           = errors.New("not staked")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInsufficientFunds   = errors.New("insufficient balance or allowance")
	ErrMaxLevelReached     = errors.New("max level reached")
	ErrSupplyExhausted     = errors.New("supply exhausted")
	ErrInvalidAmount       = errors.New("invalid amount")
)
