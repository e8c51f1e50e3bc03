package service

import (
	"math/big"

	"mine_empire/internal/config"
	"mine_empire/internal/domain"
	"mine_empire/internal/mining"
)

// Component addresses. These are opaque identifiers in the engine's role
// tables, not network endpoints.
const (
	AddrTreasuryRouter = "0xtreasury-router"
	AddrCatalog        = "0xdrill-catalog"
	AddrConverter      = "0xconverter"
)

// Seed economy parameters, 1e18 scale.
var (
	reserveAmount = mustAmt("1000000000000000000000000000000") // 1e12 whole units per mine

	basicMintPrice   = mustAmt("2000000000000000000") // 2 FTM
	basicUpgradeCost = []*big.Int{
		mustAmt("25000000000000000000"), // level 1: 25 CSC
		mustAmt("50000000000000000000"), // level 2: 50 CSC
	}

	coalCapacity = []*big.Int{
		mustAmt("6000000000000000000"),
		mustAmt("12000000000000000000"),
		mustAmt("24000000000000000000"),
	}

	ironBase     = mustAmt("39410000000000000") // 3.941e16 per second at 1.00x
	ironCapacity = []*big.Int{
		mustAmt("10215000000000000000000"),
		mustAmt("11747000000000000000000"),
		mustAmt("13509000000000000000000"),
	}

	userUpgradeCost = []*big.Int{
		mustAmt("25000000000000000000"),
		mustAmt("25000000000000000000"),
	}
)

// World is the deployed set of engine components: tokens, the drill
// registry and catalog, the treasury router, the converter and the mines.
type World struct {
	Deployer string
	Clock    mining.Clock

	Native    *mining.Token
	Cash      *mining.Token
	Energy    *mining.Token
	Resources map[string]*mining.Token

	Registry  *mining.DrillRegistry
	Treasury  *mining.Treasury
	Catalog   *mining.Catalog
	Converter *mining.Converter

	Mines     map[string]*mining.Mine
	MineOrder []string
}

// NewWorld deploys all components and wires their roles: the treasury
// router moves native payments, the catalog mints registry assets, the
// converter mints CosmicCash.
func NewWorld(cfg *config.Config, clock mining.Clock) *World {
	deployer := cfg.DeployerAddress

	native := mining.NewToken("Fantom", "FTM", deployer, false)
	cash := mining.NewToken("Cosmic Cash", "CSC", deployer, false)
	energy := mining.NewToken("Energy", "NRG", deployer, true)
	coal := mining.NewToken("Coal", "COAL", deployer, false)
	iron := mining.NewToken("Iron", "IRON", deployer, false)

	registry := mining.NewDrillRegistry(deployer)
	treasury := mining.NewTreasury(AddrTreasuryRouter, deployer, cfg.TreasuryAddress, native)
	catalog := mining.NewCatalog(AddrCatalog, deployer, registry, treasury, cash)
	converter := mining.NewConverter(AddrConverter, deployer, cash, treasury)

	mustGrant(native.Access().Grant(deployer, mining.RoleTransferrer, AddrTreasuryRouter))
	mustGrant(registry.Access().Grant(deployer, mining.RoleMinter, AddrCatalog))
	mustGrant(cash.Access().Grant(deployer, mining.RoleTransferrer, AddrConverter))
	mustGrant(energy.Access().Grant(deployer, mining.RoleTransferrer, AddrCatalog))

	w := &World{
		Deployer:  deployer,
		Clock:     clock,
		Native:    native,
		Cash:      cash,
		Energy:    energy,
		Resources: map[string]*mining.Token{"COAL": coal, "IRON": iron},
		Registry:  registry,
		Treasury:  treasury,
		Catalog:   catalog,
		Converter: converter,
		Mines:     make(map[string]*mining.Mine),
	}

	w.addMine(mining.MineConfig{
		Name:               "coal",
		Addr:               "0xmine-coal",
		Owner:              deployer,
		Resource:           coal,
		Upgrades:           cash,
		Registry:           registry,
		Power:              catalog,
		Treasury:           treasury,
		Clock:              clock,
		BaseProduction:     cfg.BaseProduction,
		CapacityAtLevel:    coalCapacity,
		UpgradeCostAtLevel: userUpgradeCost,
	})
	w.addMine(mining.MineConfig{
		Name:               "iron",
		Addr:               "0xmine-iron",
		Owner:              deployer,
		Resource:           iron,
		Upgrades:           cash,
		Registry:           registry,
		Power:              catalog,
		Treasury:           treasury,
		Clock:              clock,
		BaseProduction:     ironBase,
		CapacityAtLevel:    ironCapacity,
		UpgradeCostAtLevel: userUpgradeCost,
	})

	w.seedCatalog()

	for _, admin := range cfg.AdminAddresses {
		w.GrantAdmin(admin)
	}

	return w
}

func (w *World) addMine(cfg mining.MineConfig) {
	w.Mines[cfg.Name] = mining.NewMine(cfg)
	w.MineOrder = append(w.MineOrder, cfg.Name)
}

// seedCatalog registers the launch drill types, mint paths and conversion
// rates.
func (w *World) seedCatalog() {
	d := w.Deployer

	mustGrant(w.Catalog.RegisterLedger(d, "CSC", w.Cash))
	mustGrant(w.Catalog.RegisterLedger(d, "NRG", w.Energy))

	basic := newDrillType(1, "Basic Drill", basicMintPrice, 2,
		[]int64{100, 110, 121}, coalCapacity, basicUpgradeCost)
	mustGrant(w.Catalog.AddType(d, basic))

	titan := newDrillType(2, "Titan Drill", mustAmt("8000000000000000000"), 2,
		[]int64{200, 220, 242}, ironCapacity, basicUpgradeCost)
	mustGrant(w.Catalog.AddType(d, titan))

	// alt-mint: a Basic Drill starting at level 1 for 30 CSC
	mustGrant(w.Catalog.AddMintConfig(d, &mintConfigCSC))
	// alt-mint: a limited Energy-paid run of Basic Drills
	mustGrant(w.Catalog.AddMintConfig(d, &mintConfigNRG))

	mustGrant(w.Converter.SetRate(d, "COAL", w.Resources["COAL"], big.NewInt(4)))
	mustGrant(w.Converter.SetRate(d, "IRON", w.Resources["IRON"], big.NewInt(2)))
}

// Seed funds every mine with its payout reserve. Called once on a fresh
// deployment; restored deployments carry balances in the database.
func (w *World) Seed() {
	for _, name := range w.MineOrder {
		m := w.Mines[name]
		resource := w.Resources[w.ResourceSymbol(name)]
		mustGrant(resource.Mint(w.Deployer, m.Address(), reserveAmount))
	}
}

// GrantAdmin gives an address the owner role on every component.
func (w *World) GrantAdmin(addr string) {
	d := w.Deployer
	mustGrant(w.Catalog.Access().Grant(d, mining.RoleOwner, addr))
	mustGrant(w.Converter.Access().Grant(d, mining.RoleOwner, addr))
	mustGrant(w.Treasury.Access().Grant(d, mining.RoleOwner, addr))
	mustGrant(w.Native.Access().Grant(d, mining.RoleOwner, addr))
	mustGrant(w.Cash.Access().Grant(d, mining.RoleOwner, addr))
	mustGrant(w.Energy.Access().Grant(d, mining.RoleOwner, addr))
	for _, m := range w.Mines {
		mustGrant(m.Access().Grant(d, mining.RoleOwner, addr))
	}
	for _, t := range w.Resources {
		mustGrant(t.Access().Grant(d, mining.RoleOwner, addr))
	}
}

// ResourceSymbol maps a mine name to the symbol of the token it pays out.
func (w *World) ResourceSymbol(mineName string) string {
	switch mineName {
	case "coal":
		return "COAL"
	case "iron":
		return "IRON"
	}
	return ""
}

// TokenBySymbol resolves any deployed token, nil if unknown.
func (w *World) TokenBySymbol(symbol string) *mining.Token {
	switch symbol {
	case "FTM":
		return w.Native
	case "CSC":
		return w.Cash
	case "NRG":
		return w.Energy
	}
	return w.Resources[symbol]
}

// Tokens returns every deployed token in a stable order.
func (w *World) Tokens() []*mining.Token {
	out := []*mining.Token{w.Native, w.Cash, w.Energy}
	for _, sym := range []string{"COAL", "IRON"} {
		out = append(out, w.Resources[sym])
	}
	return out
}

var mintConfigCSC = domain.MintConfig{
	ConfigID:      1,
	TypeID:        1,
	StartingLevel: 1,
	Price:         mustAmt("30000000000000000000"),
	CurrencyToken: "CSC",
}

var mintConfigNRG = domain.MintConfig{
	ConfigID:      2,
	TypeID:        1,
	StartingLevel: 0,
	Price:         mustAmt("10000000000000000000"),
	CurrencyToken: "NRG",
	MaxSupply:     100,
}

func newDrillType(id uint64, name string, price *big.Int, maxLevel int, power []int64, capacity, upgradeCost []*big.Int) *domain.DrillType {
	powers := make([]*big.Int, len(power))
	for i, p := range power {
		powers[i] = big.NewInt(p)
	}
	return &domain.DrillType{
		TypeID:            id,
		Name:              name,
		MintPrice:         price,
		UseNativeCurrency: true,
		MaxLevel:          maxLevel,
		MiningPower:       powers,
		Capacity:          capacity,
		UpgradeCost:       upgradeCost,
	}
}

func mustAmt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("malformed amount: " + s)
	}
	return n
}

// deployment wiring happens once at boot with the deployer as caller, so
// role and seed errors are programming mistakes
func mustGrant(err error) {
	if err != nil {
		panic(err)
	}
}
