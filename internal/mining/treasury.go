package mining

import (
	"math/big"
	"sync"
)

// Treasury routes mint payments to a configurable payout address. It holds a
// transferrer capability on the native ledger so attached payments can be
// moved without an allowance. Forwarding failure fails the whole mint.
type Treasury struct {
	addr   string
	acl    *AccessList
	native ResourceLedger

	mu     sync.RWMutex
	payout string
}

// NewTreasury creates a router identified by addr, paying out to payout.
func NewTreasury(addr, owner, payout string, native ResourceLedger) *Treasury {
	return &Treasury{
		addr:   addr,
		acl:    NewAccessList(owner),
		native: native,
		payout: payout,
	}
}

// Access exposes the access list for role administration.
func (t *Treasury) Access() *AccessList { return t.acl }

// Address returns the current payout address.
func (t *Treasury) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.payout
}

// UpdateAddress changes the payout address. Owner-only.
func (t *Treasury) UpdateAddress(caller, payout string) error {
	if !t.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.payout = payout
	return nil
}

// Forward moves an attached native payment from the payer to the payout
// address, synchronously.
func (t *Treasury) Forward(from string, amount *big.Int) error {
	t.mu.RLock()
	payout := t.payout
	t.mu.RUnlock()
	return t.native.TransferFrom(t.addr, from, payout, amount)
}
