package mining

import (
	"math/big"
	"sync"

	"mine_empire/internal/domain"
)

// PowerSource resolves the mining power of a staked asset at its current
// level. The catalog implements it.
type PowerSource interface {
	MiningPower(drillID uint64) (*big.Int, error)
}

var hundred = big.NewInt(100)

// MineConfig wires one resource mine.
type MineConfig struct {
	Name     string
	Addr     string
	Owner    string
	Resource ResourceLedger // token paid out on collect/unstake
	Upgrades ResourceLedger // currency for account-level upgrades
	Registry AssetRegistry
	Power    PowerSource
	Treasury *Treasury
	Clock    Clock

	// BaseProduction is resource units per second per 1.00x mining power
	// (a power table entry of 100 means 1.00x).
	BaseProduction *big.Int
	// CapacityAtLevel[userLevel] caps unclaimed reward; its length fixes the
	// max user level.
	CapacityAtLevel []*big.Int
	// UpgradeCostAtLevel[userLevel] is the price of leaving userLevel;
	// length = len(CapacityAtLevel)-1.
	UpgradeCostAtLevel []*big.Int
}

// Mine is the staking/accrual engine: one active stake per account, reward
// recomputed from the stored timestamp on every read and clamped by the
// account's capacity. There is no ticking counter to keep consistent.
type Mine struct {
	name     string
	addr     string
	acl      *AccessList
	resource ResourceLedger
	upgrades ResourceLedger
	registry AssetRegistry
	power    PowerSource
	treasury *Treasury
	clock    Clock

	mu         sync.RWMutex
	base       *big.Int
	capacity   []*big.Int
	costs      []*big.Int
	stakes     map[string]*domain.Stake
	userLevels map[string]int
}

func NewMine(cfg MineConfig) *Mine {
	return &Mine{
		name:       cfg.Name,
		addr:       cfg.Addr,
		acl:        NewAccessList(cfg.Owner),
		resource:   cfg.Resource,
		upgrades:   cfg.Upgrades,
		registry:   cfg.Registry,
		power:      cfg.Power,
		treasury:   cfg.Treasury,
		clock:      cfg.Clock,
		base:       new(big.Int).Set(cfg.BaseProduction),
		capacity:   copyAmounts(cfg.CapacityAtLevel),
		costs:      copyAmounts(cfg.UpgradeCostAtLevel),
		stakes:     make(map[string]*domain.Stake),
		userLevels: make(map[string]int),
	}
}

func (m *Mine) Name() string        { return m.name }
func (m *Mine) Address() string     { return m.addr }
func (m *Mine) Access() *AccessList { return m.acl }

// MaxUserLevel is the highest reachable account upgrade level.
func (m *Mine) MaxUserLevel() int { return len(m.capacity) - 1 }

// Stake locks the caller's drill in the mine and starts accrual from now.
// No reward is granted retroactively.
func (m *Mine) Stake(caller string, drillID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, err := m.registry.OwnerOf(drillID)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	approved, err := m.registry.GetApproved(drillID)
	if err != nil {
		return err
	}
	if approved != m.addr {
		return ErrNotApproved
	}
	if m.stakes[caller].Active() {
		return ErrAlreadyStaked
	}
	if err := m.registry.TransferFrom(m.addr, caller, m.addr, drillID); err != nil {
		return err
	}
	m.stakes[caller] = &domain.Stake{
		Account:   caller,
		Mine:      m.name,
		DrillID:   drillID,
		Timestamp: m.clock.Now(),
	}
	return nil
}

// Accumulated returns the pending reward: elapsed time times the drill's
// rate, clamped by the account's capacity. Pure read.
func (m *Mine) Accumulated(account string) *big.Int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accumulated(account)
}

// caller must hold m.mu
func (m *Mine) accumulated(account string) *big.Int {
	s := m.stakes[account]
	if !s.Active() {
		return new(big.Int)
	}
	elapsed := m.clock.Now() - s.Timestamp
	if elapsed <= 0 {
		return new(big.Int)
	}
	power, err := m.power.MiningPower(s.DrillID)
	if err != nil {
		return new(big.Int)
	}
	// base * power * elapsed / 100; a power entry of 100 is a 1.00x rate
	raw := new(big.Int).Mul(m.base, power)
	raw.Mul(raw, big.NewInt(elapsed))
	raw.Div(raw, hundred)
	capacity := m.capacity[m.userLevels[account]]
	if raw.Cmp(capacity) > 0 {
		return new(big.Int).Set(capacity)
	}
	return raw
}

// Collect pays out the accumulated reward and restarts the counter. Time
// already spent at the cap is not carried over. Collecting zero is not an
// error; the timestamp still resets.
func (m *Mine) Collect(caller string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stakes[caller]
	if !s.Active() {
		return nil, ErrNotStaked
	}
	amount := m.accumulated(caller)
	if amount.Sign() > 0 {
		if err := m.resource.Transfer(m.addr, caller, amount); err != nil {
			return nil, err
		}
	}
	s.Timestamp = m.clock.Now()
	return amount, nil
}

// Unstake settles the reward exactly like Collect, returns the drill to the
// caller and clears the slot to the sentinel.
func (m *Mine) Unstake(caller string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stakes[caller]
	if !s.Active() {
		return nil, ErrNotStaked
	}
	amount := m.accumulated(caller)
	if amount.Sign() > 0 {
		if err := m.resource.Transfer(m.addr, caller, amount); err != nil {
			return nil, err
		}
	}
	// cannot fail: the mine owns the staked drill
	_ = m.registry.TransferFrom(m.addr, m.addr, caller, s.DrillID)
	delete(m.stakes, caller)
	return amount, nil
}

// Upgrade raises the account's user level, paying the schedule price to the
// treasury. It only changes future Accumulated reads: a stake sitting at its
// old cap gains headroom from the current elapsed baseline, not from the
// stake timestamp.
func (m *Mine) Upgrade(caller string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	level := m.userLevels[caller]
	if level >= len(m.capacity)-1 {
		return level, ErrMaxLevelReached
	}
	cost := m.costs[level]
	if err := m.upgrades.TransferFrom(m.addr, caller, m.treasury.Address(), cost); err != nil {
		return level, err
	}
	m.userLevels[caller] = level + 1
	return level + 1, nil
}

// GetStake returns a copy of the account's slot. A zero DrillID means the
// account is not staked.
func (m *Mine) GetStake(account string) domain.Stake {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s := m.stakes[account]; s != nil {
		return *s
	}
	return domain.Stake{Account: account, Mine: m.name}
}

func (m *Mine) UserLevel(account string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userLevels[account]
}

// Capacity returns the cap applied to the account at its current user level.
func (m *Mine) Capacity(account string) *big.Int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return new(big.Int).Set(m.capacity[m.userLevels[account]])
}

// UpgradeCost returns the price of the account's next user level.
func (m *Mine) UpgradeCost(account string) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	level := m.userLevels[account]
	if level >= len(m.capacity)-1 {
		return nil, ErrMaxLevelReached
	}
	return new(big.Int).Set(m.costs[level]), nil
}

func (m *Mine) BaseProduction() *big.Int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return new(big.Int).Set(m.base)
}

// SetBaseProduction changes the per-second base rate. Owner-only.
func (m *Mine) SetBaseProduction(caller string, base *big.Int) error {
	if !m.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if base == nil || base.Sign() < 0 {
		return ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = new(big.Int).Set(base)
	return nil
}

// RestoreStake re-creates a persisted stake slot on boot. Owner-only. The
// drill must already be in the mine's custody.
func (m *Mine) RestoreStake(caller string, s *domain.Stake) error {
	if !m.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stakes[s.Account].Active() {
		return ErrAlreadyStaked
	}
	owner, err := m.registry.OwnerOf(s.DrillID)
	if err != nil {
		return err
	}
	if owner != m.addr {
		return ErrNotOwner
	}
	cp := *s
	cp.Mine = m.name
	m.stakes[s.Account] = &cp
	return nil
}

// RestoreUserLevel re-applies a persisted account upgrade level on boot.
func (m *Mine) RestoreUserLevel(caller, account string, level int) error {
	if !m.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if level < 0 || level > len(m.capacity)-1 {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userLevels[account] = level
	return nil
}
