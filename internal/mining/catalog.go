package mining

import (
	"math/big"
	"sync"

	"mine_empire/internal/domain"
)

// Catalog registers drill types, mints instances and applies paid drill
// upgrades. Instance ids are allocated monotonically starting at 1;
// ownership of minted drills lives in the asset registry.
type Catalog struct {
	addr     string
	acl      *AccessList
	registry *DrillRegistry
	treasury *Treasury
	upgrades ResourceLedger // currency for drill level upgrades

	mu            sync.RWMutex
	types         map[uint64]*domain.DrillType
	drills        map[uint64]*domain.Drill
	configs       map[uint64]*domain.MintConfig
	ledgers       map[string]ResourceLedger // alt-mint currencies by symbol
	nextID        uint64
	minted        uint64
	maxDrills     uint64 // 0 = unlimited
	mintedAtLevel map[uint64]map[int]uint64
	capAtLevel    map[uint64]map[int]uint64
}

func NewCatalog(addr, owner string, registry *DrillRegistry, treasury *Treasury, upgrades ResourceLedger) *Catalog {
	return &Catalog{
		addr:          addr,
		acl:           NewAccessList(owner),
		registry:      registry,
		treasury:      treasury,
		upgrades:      upgrades,
		types:         make(map[uint64]*domain.DrillType),
		drills:        make(map[uint64]*domain.Drill),
		configs:       make(map[uint64]*domain.MintConfig),
		ledgers:       make(map[string]ResourceLedger),
		nextID:        1,
		mintedAtLevel: make(map[uint64]map[int]uint64),
		capAtLevel:    make(map[uint64]map[int]uint64),
	}
}

func (c *Catalog) Address() string    { return c.addr }
func (c *Catalog) Access() *AccessList { return c.acl }

// RegisterLedger makes a fungible token usable as an alternative-mint
// currency. Owner-only.
func (c *Catalog) RegisterLedger(caller, symbol string, ledger ResourceLedger) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledgers[symbol] = ledger
	return nil
}

// AddType registers a drill type. MiningPower and Capacity carry one entry
// per level 0..MaxLevel; UpgradeCost[i] is the price of reaching level i+1.
// Token-priced types (UseNativeCurrency false) must name a registered
// alt-mint currency.
func (c *Catalog) AddType(caller string, t *domain.DrillType) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if t.MintPrice == nil || t.MintPrice.Sign() < 0 {
		return ErrInvalidAmount
	}
	if len(t.MiningPower) != t.MaxLevel+1 || len(t.Capacity) != t.MaxLevel+1 || len(t.UpgradeCost) != t.MaxLevel {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.types[t.TypeID]; ok {
		return ErrAlreadyExists
	}
	if !t.UseNativeCurrency {
		if _, ok := c.ledgers[t.CurrencyToken]; !ok {
			return ErrNotFound
		}
	}
	cp := *t
	cp.MintPrice = new(big.Int).Set(t.MintPrice)
	cp.MiningPower = copyAmounts(t.MiningPower)
	cp.Capacity = copyAmounts(t.Capacity)
	cp.UpgradeCost = copyAmounts(t.UpgradeCost)
	c.types[t.TypeID] = &cp
	return nil
}

// AddMintConfig registers an alternative mint path paid in a designated
// fungible token, optionally starting above level 0. Owner-only.
func (c *Catalog) AddMintConfig(caller string, cfg *domain.MintConfig) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if cfg.Price == nil || cfg.Price.Sign() < 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.configs[cfg.ConfigID]; ok {
		return ErrAlreadyExists
	}
	t, ok := c.types[cfg.TypeID]
	if !ok {
		return ErrNotFound
	}
	if cfg.StartingLevel < 0 || cfg.StartingLevel > t.MaxLevel {
		return ErrNotFound
	}
	if _, ok := c.ledgers[cfg.CurrencyToken]; !ok {
		return ErrNotFound
	}
	cp := *cfg
	cp.Price = new(big.Int).Set(cfg.Price)
	cp.Minted = 0
	c.configs[cfg.ConfigID] = &cp
	return nil
}

// Mint assigns a fresh drill at level 0 to the caller. Native-currency
// types forward the full attached payment to the treasury; token-priced
// types ignore the attached payment and debit the exact price through the
// type's currency ledger instead.
func (c *Catalog) Mint(caller string, typeID uint64, payment *big.Int) (*domain.Drill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.types[typeID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.maxDrills > 0 && c.minted >= c.maxDrills {
		return nil, ErrSupplyExhausted
	}
	if err := c.checkSupply(typeID, 0); err != nil {
		return nil, err
	}
	if t.UseNativeCurrency {
		if payment == nil || payment.Sign() < 0 {
			return nil, ErrInvalidAmount
		}
		if payment.Cmp(t.MintPrice) < 0 {
			return nil, ErrInsufficientPayment
		}
		if err := c.treasury.Forward(caller, payment); err != nil {
			return nil, err
		}
	} else {
		ledger := c.ledgers[t.CurrencyToken]
		if ledger == nil {
			return nil, ErrNotFound
		}
		if err := ledger.TransferFrom(c.addr, caller, c.treasury.Address(), t.MintPrice); err != nil {
			return nil, err
		}
	}
	return c.assign(caller, typeID, 0), nil
}

// AlternativeMint pays the config's token price via transferFrom and assigns
// a drill at the config's starting level.
func (c *Catalog) AlternativeMint(caller string, configID uint64) (*domain.Drill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, ok := c.configs[configID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.maxDrills > 0 && c.minted >= c.maxDrills {
		return nil, ErrSupplyExhausted
	}
	if cfg.MaxSupply > 0 && cfg.Minted >= cfg.MaxSupply {
		return nil, ErrSupplyExhausted
	}
	if err := c.checkSupply(cfg.TypeID, cfg.StartingLevel); err != nil {
		return nil, err
	}
	ledger := c.ledgers[cfg.CurrencyToken]
	if ledger == nil {
		return nil, ErrNotFound
	}
	if err := ledger.TransferFrom(c.addr, caller, c.treasury.Address(), cfg.Price); err != nil {
		return nil, err
	}
	cfg.Minted++
	return c.assign(caller, cfg.TypeID, cfg.StartingLevel), nil
}

// UpgradeDrill raises the drill one level, debiting the upgrade requirement
// from the caller to the treasury.
func (c *Catalog) UpgradeDrill(caller string, drillID uint64) (*domain.Drill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.drills[drillID]
	if !ok {
		return nil, ErrNotFound
	}
	owner, err := c.registry.OwnerOf(drillID)
	if err != nil {
		return nil, err
	}
	if owner != caller {
		return nil, ErrNotOwner
	}
	t := c.types[d.TypeID]
	if d.Level >= t.MaxLevel {
		return nil, ErrMaxLevelReached
	}
	cost := t.UpgradeCost[d.Level]
	if err := c.upgrades.TransferFrom(c.addr, caller, c.treasury.Address(), cost); err != nil {
		return nil, err
	}
	d.Level++
	cp := *d
	return &cp, nil
}

// UpdateMintPrice changes a type's native mint price. Owner-only.
func (c *Catalog) UpdateMintPrice(caller string, typeID uint64, price *big.Int) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if price == nil || price.Sign() < 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.types[typeID]
	if !ok {
		return ErrNotFound
	}
	t.MintPrice = new(big.Int).Set(price)
	return nil
}

// UpdateUpgradeRequirement changes the cost of reaching level (1..MaxLevel).
func (c *Catalog) UpdateUpgradeRequirement(caller string, typeID uint64, level int, amount *big.Int) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.types[typeID]
	if !ok {
		return ErrNotFound
	}
	if level < 1 || level > t.MaxLevel {
		return ErrNotFound
	}
	t.UpgradeCost[level-1] = new(big.Int).Set(amount)
	return nil
}

// UpdateMaxDrills changes the global mint ceiling (0 = unlimited).
func (c *Catalog) UpdateMaxDrills(caller string, n uint64) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxDrills = n
	return nil
}

// UpdateSupplyCap sets the max units mintable at (type, level).
func (c *Catalog) UpdateSupplyCap(caller string, typeID uint64, level int, limit uint64) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.types[typeID]
	if !ok {
		return ErrNotFound
	}
	if level < 0 || level > t.MaxLevel {
		return ErrNotFound
	}
	if c.capAtLevel[typeID] == nil {
		c.capAtLevel[typeID] = make(map[int]uint64)
	}
	c.capAtLevel[typeID][level] = limit
	return nil
}

// UpdateMintConfigSupply changes an alt-mint config's max supply.
func (c *Catalog) UpdateMintConfigSupply(caller string, configID uint64, maxSupply uint64) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, ok := c.configs[configID]
	if !ok {
		return ErrNotFound
	}
	cfg.MaxSupply = maxSupply
	return nil
}

func (c *Catalog) GetDrill(drillID uint64) (*domain.Drill, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drills[drillID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (c *Catalog) GetType(typeID uint64) (*domain.DrillType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[typeID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	cp.MintPrice = new(big.Int).Set(t.MintPrice)
	cp.MiningPower = copyAmounts(t.MiningPower)
	cp.Capacity = copyAmounts(t.Capacity)
	cp.UpgradeCost = copyAmounts(t.UpgradeCost)
	return &cp, nil
}

func (c *Catalog) Types() []*domain.DrillType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.DrillType, 0, len(c.types))
	for id := range c.types {
		t := c.types[id]
		cp := *t
		cp.MintPrice = new(big.Int).Set(t.MintPrice)
		cp.MiningPower = copyAmounts(t.MiningPower)
		cp.Capacity = copyAmounts(t.Capacity)
		cp.UpgradeCost = copyAmounts(t.UpgradeCost)
		out = append(out, &cp)
	}
	return out
}

func (c *Catalog) GetMintPrice(typeID uint64) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[typeID]
	if !ok {
		return nil, ErrNotFound
	}
	return new(big.Int).Set(t.MintPrice), nil
}

func (c *Catalog) GetUpgradeRequirement(typeID uint64, level int) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[typeID]
	if !ok {
		return nil, ErrNotFound
	}
	if level < 1 || level > t.MaxLevel {
		return nil, ErrNotFound
	}
	return new(big.Int).Set(t.UpgradeCost[level-1]), nil
}

// MiningPower returns the power of a drill at its current level.
func (c *Catalog) MiningPower(drillID uint64) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drills[drillID]
	if !ok {
		return nil, ErrNotFound
	}
	return new(big.Int).Set(c.types[d.TypeID].MiningPower[d.Level]), nil
}

// DrillCapacity returns the drill-level capacity table entry for a drill.
func (c *Catalog) DrillCapacity(drillID uint64) (*big.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drills[drillID]
	if !ok {
		return nil, ErrNotFound
	}
	return new(big.Int).Set(c.types[d.TypeID].Capacity[d.Level]), nil
}

// DrillsAvailableAtLevel returns how many more drills may be minted at
// (type, level). capped is false when no cap is configured.
func (c *Catalog) DrillsAvailableAtLevel(typeID uint64, level int) (available uint64, capped bool, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[typeID]
	if !ok {
		return 0, false, ErrNotFound
	}
	if level < 0 || level > t.MaxLevel {
		return 0, false, ErrNotFound
	}
	limit, ok := c.capAtLevel[typeID][level]
	if !ok {
		return 0, false, nil
	}
	minted := c.mintedAtLevel[typeID][level]
	if minted >= limit {
		return 0, true, nil
	}
	return limit - minted, true, nil
}

func (c *Catalog) TotalMinted() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minted
}

// RestoreDrill re-registers a persisted drill on boot. Owner-only; the asset
// registry entry is restored separately by the caller.
func (c *Catalog) RestoreDrill(caller string, d *domain.Drill) error {
	if !c.acl.Has(RoleOwner, caller) {
		return ErrUnauthorized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.types[d.TypeID]
	if !ok {
		return ErrNotFound
	}
	if d.Level < 0 || d.Level > t.MaxLevel {
		return ErrNotFound
	}
	if _, ok := c.drills[d.DrillID]; ok {
		return ErrAlreadyExists
	}
	cp := *d
	c.drills[d.DrillID] = &cp
	c.minted++
	if d.DrillID >= c.nextID {
		c.nextID = d.DrillID + 1
	}
	return nil
}

// caller must hold c.mu; all checks and transfers already done
func (c *Catalog) assign(to string, typeID uint64, level int) *domain.Drill {
	id := c.nextID
	c.nextID++
	// cannot fail: the catalog holds the minter role and ids are fresh
	_ = c.registry.Mint(c.addr, to, id)
	d := &domain.Drill{DrillID: id, TypeID: typeID, Level: level}
	c.drills[id] = d
	c.minted++
	if c.mintedAtLevel[typeID] == nil {
		c.mintedAtLevel[typeID] = make(map[int]uint64)
	}
	c.mintedAtLevel[typeID][level]++
	cp := *d
	return &cp
}

// caller must hold c.mu
func (c *Catalog) checkSupply(typeID uint64, level int) error {
	caps, ok := c.capAtLevel[typeID]
	if !ok {
		return nil
	}
	limit, ok := caps[level]
	if !ok {
		return nil
	}
	if c.mintedAtLevel[typeID][level] >= limit {
		return ErrSupplyExhausted
	}
	return nil
}

func copyAmounts(in []*big.Int) []*big.Int {
	out := make([]*big.Int, len(in))
	for i, v := range in {
		out[i] = new(big.Int).Set(v)
	}
	return out
}
