package mining

import (
	"math/big"
	"sync"
)

// ResourceLedger is the fungible-token surface the engine needs: resource
// payouts, upgrade payments and alternative-mint debits all go through it.
type ResourceLedger interface {
	BalanceOf(addr string) *big.Int
	Mint(caller, to string, amount *big.Int) error
	Burn(caller, from string, amount *big.Int) error
	Transfer(caller, to string, amount *big.Int) error
	TransferFrom(caller, from, to string, amount *big.Int) error
	Approve(caller, spender string, amount *big.Int) error
	Allowance(owner, spender string) *big.Int
}

// Token is an in-process ResourceLedger. With restricted set, only addresses
// on the transferrer allowlist may mint, burn or move funds (Energy-token
// semantics); resource tokens like Coal and Iron are unrestricted.
type Token struct {
	name       string
	symbol     string
	restricted bool
	acl        *AccessList

	mu         sync.RWMutex
	balances   map[string]*big.Int
	allowances map[string]map[string]*big.Int
}

func NewToken(name, symbol, owner string, restricted bool) *Token {
	return &Token{
		name:       name,
		symbol:     symbol,
		restricted: restricted,
		acl:        NewAccessList(owner),
		balances:   make(map[string]*big.Int),
		allowances: make(map[string]map[string]*big.Int),
	}
}

func (t *Token) Name() string   { return t.name }
func (t *Token) Symbol() string { return t.symbol }

// Access exposes the role table so deployments can grant transferrers.
func (t *Token) Access() *AccessList { return t.acl }

func (t *Token) privileged(caller string) bool {
	return t.acl.Has(RoleOwner, caller) || t.acl.Has(RoleTransferrer, caller)
}

func (t *Token) BalanceOf(addr string) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if b, ok := t.balances[addr]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (t *Token) Mint(caller, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if !t.privileged(caller) {
		return ErrUnauthorized
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
	return nil
}

func (t *Token) Burn(caller, from string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if !t.privileged(caller) {
		return ErrUnauthorized
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.debit(from, amount)
}

func (t *Token) Transfer(caller, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if t.restricted && !t.privileged(caller) {
		return ErrUnauthorized
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.debit(caller, amount); err != nil {
		return err
	}
	t.credit(to, amount)
	return nil
}

// TransferFrom moves funds out of from's balance. A privileged caller may
// move anyone's funds; otherwise the caller spends its allowance.
func (t *Token) TransferFrom(caller, from, to string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.privileged(caller) {
		if t.restricted {
			return ErrUnauthorized
		}
		allowed := t.allowances[from][caller]
		if allowed == nil || allowed.Cmp(amount) < 0 {
			return ErrInsufficientFunds
		}
		if err := t.debit(from, amount); err != nil {
			return err
		}
		allowed.Sub(allowed, amount)
		t.credit(to, amount)
		return nil
	}
	if err := t.debit(from, amount); err != nil {
		return err
	}
	t.credit(to, amount)
	return nil
}

func (t *Token) Approve(caller, spender string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allowances[caller] == nil {
		t.allowances[caller] = make(map[string]*big.Int)
	}
	t.allowances[caller][spender] = new(big.Int).Set(amount)
	return nil
}

func (t *Token) Allowance(owner, spender string) *big.Int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if a, ok := t.allowances[owner][spender]; ok {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

// callers must hold t.mu
func (t *Token) credit(addr string, amount *big.Int) {
	b, ok := t.balances[addr]
	if !ok {
		b = new(big.Int)
		t.balances[addr] = b
	}
	b.Add(b, amount)
}

// callers must hold t.mu
func (t *Token) debit(addr string, amount *big.Int) error {
	b, ok := t.balances[addr]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	b.Sub(b, amount)
	return nil
}
