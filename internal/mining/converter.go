package mining

import (
	"math/big"
	"sync"
)

// Converter exchanges a resource token for CosmicCash at an owner-configured
// rate. The resource is forwarded to the treasury; CosmicCash is minted to
// the caller, so the converter must hold a transferrer capability on it.
type Converter struct {
	addr     string
	acl      *AccessList
	cash     ResourceLedger
	treasury *Treasury

	mu    sync.RWMutex
	pairs map[string]*convertPair
}

type convertPair struct {
	resource ResourceLedger
	// rate = resource units per 1 unit of CosmicCash
	rate *big.Int
}

func NewConverter(addr, owner string, cash ResourceLedger, treasury *Treasury) *Converter {
	return &Converter{
		addr:     addr,
		acl:      NewAccessList(owner),
		cash:     cash,
		treasury: treasury,
		pairs:    make(map[string]*convertPair),
	}
}

func (c *Converter) Address() string     { return c.addr }
func (c *Converter) Access() *AccessList { return c.acl }

// SetRate registers or updates a conversion pair. Owner-only.
func (c *Converter) SetRate(caller, symbol string, resource ResourceLedger, rate *big.Int) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if rate == nil || rate.Sign() <= 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs[symbol] = &convertPair{resource: resource, rate: new(big.Int).Set(rate)}
	return nil
}

// Rate returns the configured rate for a resource symbol.
func (c *Converter) Rate(symbol string) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pairs[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return new(big.Int).Set(p.rate), nil
}

// Convert debits amount of the resource from the caller (allowance required)
// and mints amount/rate CosmicCash back. Returns the minted amount.
func (c *Converter) Convert(caller, symbol string, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pairs[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	out := new(big.Int).Div(amount, p.rate)
	if out.Sign() == 0 {
		return nil, ErrInvalidAmount
	}
	if err := p.resource.TransferFrom(c.addr, caller, c.treasury.Address(), amount); err != nil {
		return nil, err
	}
	if err := c.cash.Mint(c.addr, caller, out); err != nil {
		return nil, err
	}
	return out, nil
}
