package mining

import (
	"math/big"
	"testing"

	"mine_empire/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	deployer = "0xdeployer"
	payout   = "0xpayout"
	alice    = "0xalice"
	bob      = "0xbob"
)

func amt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad amount %s", s)
	return v
}

// world wires a native token, resource token, CosmicCash, registry, treasury,
// catalog and one mine around a manual clock.
type world struct {
	clock    *ManualClock
	native   *Token
	resource *Token
	cash     *Token
	registry *DrillRegistry
	treasury *Treasury
	catalog  *Catalog
	mine     *Mine
}

type worldConfig struct {
	baseProduction string
	capacity       []string
	upgradeCosts   []string
}

func newWorld(t *testing.T, cfg worldConfig) *world {
	t.Helper()
	w := &world{
		clock:    NewManualClock(1_000_000),
		native:   NewToken("Fantom", "FTM", deployer, false),
		resource: NewToken("Coal", "COAL", deployer, false),
		cash:     NewToken("Cosmic Cash", "CSC", deployer, false),
		registry: NewDrillRegistry(deployer),
	}
	w.treasury = NewTreasury("0xrouter", deployer, payout, w.native)
	require.NoError(t, w.native.Access().Grant(deployer, RoleTransferrer, "0xrouter"))

	w.catalog = NewCatalog("0xcatalog", deployer, w.registry, w.treasury, w.cash)
	require.NoError(t, w.registry.Access().Grant(deployer, RoleMinter, "0xcatalog"))

	capacity := make([]*big.Int, len(cfg.capacity))
	for i, s := range cfg.capacity {
		capacity[i] = amt(t, s)
	}
	costs := make([]*big.Int, len(cfg.upgradeCosts))
	for i, s := range cfg.upgradeCosts {
		costs[i] = amt(t, s)
	}
	w.mine = NewMine(MineConfig{
		Name:               "coal",
		Addr:               "0xcoalmine",
		Owner:              deployer,
		Resource:           w.resource,
		Upgrades:           w.cash,
		Registry:           w.registry,
		Power:              w.catalog,
		Treasury:           w.treasury,
		Clock:              w.clock,
		BaseProduction:     amt(t, cfg.baseProduction),
		CapacityAtLevel:    capacity,
		UpgradeCostAtLevel: costs,
	})
	return w
}

// registers the canonical basic drill type: power [100,110,121], price 2e18
func (w *world) addBasicType(t *testing.T) {
	t.Helper()
	require.NoError(t, w.catalog.AddType(deployer, &domain.DrillType{
		TypeID:            1,
		Name:              "Basic Drill",
		MintPrice:         amt(t, "2000000000000000000"),
		UseNativeCurrency: true,
		MaxLevel:          2,
		MiningPower:       []*big.Int{big.NewInt(100), big.NewInt(110), big.NewInt(121)},
		Capacity:          []*big.Int{amt(t, "6000000000000000000"), amt(t, "7000000000000000000"), amt(t, "8000000000000000000")},
		UpgradeCost:       []*big.Int{big.NewInt(1000), big.NewInt(1500)},
	}))
}

// mints a drill for account and stakes it
func (w *world) mintAndStake(t *testing.T, account string) *domain.Drill {
	t.Helper()
	price := amt(t, "2000000000000000000")
	require.NoError(t, w.native.Mint(deployer, account, price))
	d, err := w.catalog.Mint(account, 1, price)
	require.NoError(t, err)
	require.NoError(t, w.registry.Approve(account, w.mine.Address(), d.DrillID))
	require.NoError(t, w.mine.Stake(account, d.DrillID))
	return d
}

func defaultConfig() worldConfig {
	return worldConfig{
		// 1e16 per second per 1.00x power, capacity 6e18 at level 0
		baseProduction: "10000000000000000",
		capacity:       []string{"6000000000000000000", "12000000000000000000"},
		upgradeCosts:   []string{"25000000000000000000"},
	}
}

func TestMine_AccrualAndCollect(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)
	w.mintAndStake(t, alice)

	// fund the mine with payout reserves
	require.NoError(t, w.resource.Mint(deployer, w.mine.Address(), amt(t, "1000000000000000000000")))

	// 500 seconds at 1e16/sec and 1.00x power = 5e18
	w.clock.Advance(500)
	assert.Equal(t, amt(t, "5000000000000000000"), w.mine.Accumulated(alice))

	got, err := w.mine.Collect(alice)
	require.NoError(t, err)
	assert.Equal(t, amt(t, "5000000000000000000"), got)
	assert.Equal(t, amt(t, "5000000000000000000"), w.resource.BalanceOf(alice))

	// counter restarts from zero
	assert.Zero(t, w.mine.Accumulated(alice).Sign())
}

func TestMine_CapacityClamp(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)
	w.mintAndStake(t, alice)
	require.NoError(t, w.resource.Mint(deployer, w.mine.Address(), amt(t, "1000000000000000000000")))

	// capacity 6e18 fills in exactly 600 seconds
	w.clock.Advance(599)
	assert.Equal(t, amt(t, "5990000000000000000"), w.mine.Accumulated(alice))

	w.clock.Advance(1)
	assert.Equal(t, amt(t, "6000000000000000000"), w.mine.Accumulated(alice))

	// past the boundary the bucket stops filling
	w.clock.Advance(1)
	assert.Equal(t, amt(t, "6000000000000000000"), w.mine.Accumulated(alice))

	w.clock.Advance(10000)
	assert.Equal(t, amt(t, "6000000000000000000"), w.mine.Accumulated(alice))

	got, err := w.mine.Collect(alice)
	require.NoError(t, err)
	assert.Equal(t, amt(t, "6000000000000000000"), got)
	assert.Equal(t, amt(t, "6000000000000000000"), w.resource.BalanceOf(alice))
}

func TestMine_ZeroElapsedAccruesNothing(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)
	w.mintAndStake(t, alice)
	assert.Zero(t, w.mine.Accumulated(alice).Sign())
}

func TestMine_SettlementConservation(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)
	w.mintAndStake(t, alice)
	require.NoError(t, w.resource.Mint(deployer, w.mine.Address(), amt(t, "1000000000000000000000")))

	w.clock.Advance(200)
	first, err := w.mine.Collect(alice)
	require.NoError(t, err)

	w.clock.Advance(300)
	second, err := w.mine.Unstake(alice)
	require.NoError(t, err)

	// no reward created or lost across the settlement boundary
	total := new(big.Int).Add(first, second)
	assert.Equal(t, amt(t, "5000000000000000000"), total)
	assert.Equal(t, total, w.resource.BalanceOf(alice))
}

func TestMine_CollectZeroAndFailedPayout(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)
	w.mintAndStake(t, alice)
	before := w.mine.GetStake(alice).Timestamp

	// zero-amount collect is not an error and must not touch the ledger
	got, err := w.mine.Collect(alice)
	require.NoError(t, err)
	assert.Zero(t, got.Sign())
	assert.Equal(t, before, w.mine.GetStake(alice).Timestamp)

	// unfunded mine: payout fails and the whole operation aborts,
	// leaving the timestamp as it was
	w.clock.Advance(50)
	_, err = w.mine.Collect(alice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, before, w.mine.GetStake(alice).Timestamp)
	assert.Equal(t, amt(t, "500000000000000000"), w.mine.Accumulated(alice))
}

func TestMine_StakeStateMachine(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)

	// collect/unstake while unstaked
	_, err := w.mine.Collect(alice)
	assert.ErrorIs(t, err, ErrNotStaked)
	_, err = w.mine.Unstake(alice)
	assert.ErrorIs(t, err, ErrNotStaked)

	d := w.mintAndStake(t, alice)

	// custody moved to the mine
	owner, err := w.registry.OwnerOf(d.DrillID)
	require.NoError(t, err)
	assert.Equal(t, w.mine.Address(), owner)
	assert.Equal(t, d.DrillID, w.mine.GetStake(alice).DrillID)

	// a second drill cannot be staked on the same slot
	price := amt(t, "2000000000000000000")
	require.NoError(t, w.native.Mint(deployer, alice, price))
	d2, err := w.catalog.Mint(alice, 1, price)
	require.NoError(t, err)
	require.NoError(t, w.registry.Approve(alice, w.mine.Address(), d2.DrillID))
	assert.ErrorIs(t, w.mine.Stake(alice, d2.DrillID), ErrAlreadyStaked)
	assert.Equal(t, d.DrillID, w.mine.GetStake(alice).DrillID)

	// unstake returns the asset and clears the slot
	_, err = w.mine.Unstake(alice)
	require.NoError(t, err)
	owner, err = w.registry.OwnerOf(d.DrillID)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	cleared := w.mine.GetStake(alice)
	assert.False(t, cleared.Active())
	assert.Zero(t, w.mine.GetStake(alice).DrillID)
	assert.Zero(t, w.mine.GetStake(alice).Timestamp)
}

func TestMine_StakeRequiresOwnershipAndApproval(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)

	price := amt(t, "2000000000000000000")
	require.NoError(t, w.native.Mint(deployer, alice, price))
	d, err := w.catalog.Mint(alice, 1, price)
	require.NoError(t, err)

	// not approved yet
	assert.ErrorIs(t, w.mine.Stake(alice, d.DrillID), ErrNotApproved)

	require.NoError(t, w.registry.Approve(alice, w.mine.Address(), d.DrillID))

	// someone else's drill
	assert.ErrorIs(t, w.mine.Stake(bob, d.DrillID), ErrNotOwner)
	bobStake := w.mine.GetStake(bob)
	assert.False(t, bobStake.Active())

	// unknown drill
	assert.ErrorIs(t, w.mine.Stake(alice, 999), ErrNotFound)

	require.NoError(t, w.mine.Stake(alice, d.DrillID))
}

// Replays the iron-mine numbers: base 3.941e16/sec, level-0 capacity
// 10215e18 (filled in 259200 s), upgrades opening headroom from the current
// elapsed baseline.
func TestMine_UserLevelUpgradeOpensHeadroom(t *testing.T) {
	w := newWorld(t, worldConfig{
		baseProduction: "39410000000000000",
		capacity:       []string{"10215000000000000000000", "11747000000000000000000", "13509000000000000000000"},
		upgradeCosts:   []string{"25000000000000000000", "25000000000000000000"},
	})
	w.addBasicType(t)
	w.mintAndStake(t, alice)
	require.NoError(t, w.resource.Mint(deployer, w.mine.Address(), amt(t, "100000000000000000000000")))

	w.clock.Advance(500)
	assert.Equal(t, amt(t, "19705000000000000000"), w.mine.Accumulated(alice))

	// fill past the level-0 cap
	w.clock.Advance(259500)
	assert.Equal(t, amt(t, "10215000000000000000000"), w.mine.Accumulated(alice))

	// pay 25e18 CSC, level 0 -> 1
	require.NoError(t, w.cash.Mint(deployer, alice, amt(t, "100000000000000000000")))
	require.NoError(t, w.cash.Approve(alice, w.mine.Address(), amt(t, "100000000000000000000")))
	level, err := w.mine.Upgrade(alice)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
	assert.Equal(t, amt(t, "75000000000000000000"), w.cash.BalanceOf(alice))
	assert.Equal(t, amt(t, "25000000000000000000"), w.cash.BalanceOf(payout))

	// the stake keeps its original timestamp; raw accrual already exceeds
	// the new cap, so the reward jumps straight to it
	w.clock.Advance(40000)
	assert.Equal(t, amt(t, "11747000000000000000000"), w.mine.Accumulated(alice))

	level, err = w.mine.Upgrade(alice)
	require.NoError(t, err)
	assert.Equal(t, 2, level)

	w.clock.Advance(100000)
	assert.Equal(t, amt(t, "13509000000000000000000"), w.mine.Accumulated(alice))

	// ceiling
	_, err = w.mine.Upgrade(alice)
	assert.ErrorIs(t, err, ErrMaxLevelReached)
	assert.Equal(t, 2, w.mine.UserLevel(alice))
}

func TestMine_UpgradeRequiresAllowanceAndBalance(t *testing.T) {
	w := newWorld(t, defaultConfig())

	// no allowance
	_, err := w.mine.Upgrade(alice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 0, w.mine.UserLevel(alice))

	// allowance without balance
	require.NoError(t, w.cash.Approve(alice, w.mine.Address(), amt(t, "25000000000000000000")))
	_, err = w.mine.Upgrade(alice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 0, w.mine.UserLevel(alice))
}

func TestMine_MiningPowerFollowsDrillLevel(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)

	price := amt(t, "2000000000000000000")
	require.NoError(t, w.native.Mint(deployer, alice, price))
	d, err := w.catalog.Mint(alice, 1, price)
	require.NoError(t, err)

	// raise the drill to level 1: power 110
	require.NoError(t, w.cash.Mint(deployer, alice, big.NewInt(1000)))
	require.NoError(t, w.cash.Approve(alice, w.catalog.Address(), big.NewInt(1000)))
	_, err = w.catalog.UpgradeDrill(alice, d.DrillID)
	require.NoError(t, err)

	require.NoError(t, w.registry.Approve(alice, w.mine.Address(), d.DrillID))
	require.NoError(t, w.mine.Stake(alice, d.DrillID))
	require.NoError(t, w.resource.Mint(deployer, w.mine.Address(), amt(t, "1000000000000000000000")))

	// 100 seconds at 1e16 and 1.10x = 1.1e18
	w.clock.Advance(100)
	assert.Equal(t, amt(t, "1100000000000000000"), w.mine.Accumulated(alice))
}

func TestMine_SetBaseProduction(t *testing.T) {
	w := newWorld(t, defaultConfig())

	assert.ErrorIs(t, w.mine.SetBaseProduction(alice, big.NewInt(1)), ErrUnauthorized)
	require.NoError(t, w.mine.SetBaseProduction(deployer, amt(t, "20000000000000000")))
	assert.Equal(t, amt(t, "20000000000000000"), w.mine.BaseProduction())
}

func TestMine_RestoreStake(t *testing.T) {
	w := newWorld(t, defaultConfig())
	w.addBasicType(t)
	d := w.mintAndStake(t, alice)
	staked := w.mine.GetStake(alice)

	// a fresh mine over the same registry picks the slot back up
	m2 := NewMine(MineConfig{
		Name:               "coal",
		Addr:               w.mine.Address(),
		Owner:              deployer,
		Resource:           w.resource,
		Upgrades:           w.cash,
		Registry:           w.registry,
		Power:              w.catalog,
		Treasury:           w.treasury,
		Clock:              w.clock,
		BaseProduction:     w.mine.BaseProduction(),
		CapacityAtLevel:    []*big.Int{amt(t, "6000000000000000000"), amt(t, "12000000000000000000")},
		UpgradeCostAtLevel: []*big.Int{amt(t, "25000000000000000000")},
	})
	require.NoError(t, m2.RestoreStake(deployer, &staked))
	require.NoError(t, m2.RestoreUserLevel(deployer, alice, 1))

	assert.Equal(t, d.DrillID, m2.GetStake(alice).DrillID)
	assert.Equal(t, 1, m2.UserLevel(alice))
	assert.ErrorIs(t, m2.RestoreStake(alice, &staked), ErrUnauthorized)
}
