package service

import (
	"context"
	"math/big"
	"time"

	"mine_empire/internal/domain"
	"mine_empire/internal/logger"
	"mine_empire/internal/mining"
	"mine_empire/internal/repository"
)

// EventSink receives every journal event for live delivery. The websocket
// hub implements it.
type EventSink interface {
	PublishEvent(ev *domain.MiningEvent)
}

// Repos bundles the persistence mirrors. A nil Repos runs the service
// purely in memory (tests, dev tools).
type Repos struct {
	Accounts *repository.AccountRepository
	Drills   *repository.DrillRepository
	Stakes   *repository.StakeRepository
	Balances *repository.BalanceRepository
	Events   *repository.EventRepository
}

// MiningService is the application facade over the engine. The in-memory
// world is authoritative; database writes are best-effort mirrors replayed
// at boot, so a failed mirror write logs and moves on instead of failing
// the operation.
type MiningService struct {
	world *World
	repos *Repos
	sink  EventSink
}

func NewMiningService(world *World, repos *Repos, sink EventSink) *MiningService {
	return &MiningService{world: world, repos: repos, sink: sink}
}

func (s *MiningService) World() *World { return s.world }

func (s *MiningService) mine(name string) (*mining.Mine, error) {
	m, ok := s.world.Mines[name]
	if !ok {
		return nil, mining.ErrNotFound
	}
	return m, nil
}

// Mint buys a drill with an attached native payment.
func (s *MiningService) Mint(ctx context.Context, caller string, typeID uint64, payment *big.Int) (*domain.Drill, error) {
	d, err := s.world.Catalog.Mint(caller, typeID, payment)
	trackOp("mint", err)
	if err != nil {
		return nil, err
	}

	s.mirrorDrill(ctx, d.DrillID)
	s.mirrorBalances(ctx, s.world.Native, caller, s.world.Treasury.Address())
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventMinted,
		DrillID: d.DrillID,
		Amount:  payment.String(),
		Details: map[string]interface{}{"type_id": typeID},
	})
	return d, nil
}

// AlternativeMint buys a drill through a token-priced mint config.
func (s *MiningService) AlternativeMint(ctx context.Context, caller string, configID uint64) (*domain.Drill, error) {
	d, err := s.world.Catalog.AlternativeMint(caller, configID)
	trackOp("alt_mint", err)
	if err != nil {
		return nil, err
	}

	s.mirrorDrill(ctx, d.DrillID)
	s.mirrorAllBalances(ctx, caller, s.world.Treasury.Address())
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventMinted,
		DrillID: d.DrillID,
		Details: map[string]interface{}{"config_id": configID},
	})
	return d, nil
}

// ApproveForMine approves a mine to take custody of the caller's drill.
func (s *MiningService) ApproveForMine(ctx context.Context, caller, mineName string, drillID uint64) error {
	m, err := s.mine(mineName)
	if err != nil {
		return err
	}
	if err := s.world.Registry.Approve(caller, m.Address(), drillID); err != nil {
		return err
	}
	s.mirrorDrill(ctx, drillID)
	return nil
}

// Stake locks the caller's drill into a mine.
func (s *MiningService) Stake(ctx context.Context, caller, mineName string, drillID uint64) error {
	m, err := s.mine(mineName)
	if err != nil {
		return err
	}
	err = m.Stake(caller, drillID)
	trackOp("stake", err)
	if err != nil {
		return err
	}

	s.mirrorDrill(ctx, drillID)
	s.mirrorStake(ctx, m, caller)
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventStaked,
		Mine:    mineName,
		DrillID: drillID,
	})
	return nil
}

// Collect pays out the accumulated resource and restarts accrual.
func (s *MiningService) Collect(ctx context.Context, caller, mineName string) (*big.Int, error) {
	m, err := s.mine(mineName)
	if err != nil {
		return nil, err
	}
	amount, err := m.Collect(caller)
	trackOp("collect", err)
	if err != nil {
		return nil, err
	}

	resource := s.world.Resources[s.world.ResourceSymbol(mineName)]
	s.mirrorBalances(ctx, resource, caller, m.Address())
	s.mirrorStake(ctx, m, caller)
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventCollected,
		Mine:    mineName,
		Amount:  amount.String(),
	})
	return amount, nil
}

// Unstake settles the reward and returns the drill.
func (s *MiningService) Unstake(ctx context.Context, caller, mineName string) (*big.Int, error) {
	m, err := s.mine(mineName)
	if err != nil {
		return nil, err
	}
	st := m.GetStake(caller)
	amount, err := m.Unstake(caller)
	trackOp("unstake", err)
	if err != nil {
		return nil, err
	}

	resource := s.world.Resources[s.world.ResourceSymbol(mineName)]
	s.mirrorBalances(ctx, resource, caller, m.Address())
	s.mirrorDrill(ctx, st.DrillID)
	if s.repos != nil {
		if err := s.repos.Stakes.Delete(ctx, mineName, caller); err != nil {
			logger.Warn("stake mirror delete failed", "mine", mineName, "account", caller, "error", err)
		}
	}
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventUnstaked,
		Mine:    mineName,
		DrillID: st.DrillID,
		Amount:  amount.String(),
	})
	return amount, nil
}

// UpgradeDrill raises a drill one level for its CosmicCash price.
func (s *MiningService) UpgradeDrill(ctx context.Context, caller string, drillID uint64) (*domain.Drill, error) {
	d, err := s.world.Catalog.UpgradeDrill(caller, drillID)
	trackOp("upgrade_drill", err)
	if err != nil {
		return nil, err
	}

	s.mirrorDrill(ctx, drillID)
	s.mirrorBalances(ctx, s.world.Cash, caller, s.world.Treasury.Address())
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventUpgraded,
		DrillID: drillID,
		Details: map[string]interface{}{"scope": "drill", "level": d.Level},
	})
	return d, nil
}

// UpgradeUser raises the caller's account level in a mine, widening the
// unclaimed-reward capacity.
func (s *MiningService) UpgradeUser(ctx context.Context, caller, mineName string) (int, error) {
	m, err := s.mine(mineName)
	if err != nil {
		return 0, err
	}
	level, err := m.Upgrade(caller)
	trackOp("upgrade_user", err)
	if err != nil {
		return level, err
	}

	s.mirrorBalances(ctx, s.world.Cash, caller, s.world.Treasury.Address())
	if s.repos != nil {
		if err := s.repos.Stakes.UpsertUserLevel(ctx, mineName, caller, level); err != nil {
			logger.Warn("user level mirror failed", "mine", mineName, "account", caller, "error", err)
		}
	}
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventUpgraded,
		Mine:    mineName,
		Details: map[string]interface{}{"scope": "account", "level": level},
	})
	return level, nil
}

// Convert exchanges a mined resource for CosmicCash at the configured rate.
func (s *MiningService) Convert(ctx context.Context, caller, symbol string, amount *big.Int) (*big.Int, error) {
	out, err := s.world.Converter.Convert(caller, symbol, amount)
	trackOp("convert", err)
	if err != nil {
		return nil, err
	}

	if resource := s.world.TokenBySymbol(symbol); resource != nil {
		s.mirrorBalances(ctx, resource, caller, s.world.Treasury.Address())
	}
	s.mirrorBalances(ctx, s.world.Cash, caller)
	s.record(ctx, &domain.MiningEvent{
		Account: caller,
		Kind:    domain.EventConverted,
		Amount:  amount.String(),
		Details: map[string]interface{}{"resource": symbol, "received": out.String()},
	})
	return out, nil
}

// ApproveSpending sets the caller's token allowance for one of the paying
// components: "catalog", "converter" or a mine name.
func (s *MiningService) ApproveSpending(ctx context.Context, caller, symbol, component string, amount *big.Int) error {
	token := s.world.TokenBySymbol(symbol)
	if token == nil {
		return mining.ErrNotFound
	}
	spender, err := s.componentAddress(component)
	if err != nil {
		return err
	}
	if err := token.Approve(caller, spender, amount); err != nil {
		return err
	}
	return nil
}

func (s *MiningService) componentAddress(component string) (string, error) {
	switch component {
	case "catalog":
		return s.world.Catalog.Address(), nil
	case "converter":
		return s.world.Converter.Address(), nil
	}
	if m, ok := s.world.Mines[component]; ok {
		return m.Address(), nil
	}
	return "", mining.ErrNotFound
}

// Accumulated returns the pending reward in a mine without settling it.
func (s *MiningService) Accumulated(caller, mineName string) (*big.Int, error) {
	m, err := s.mine(mineName)
	if err != nil {
		return nil, err
	}
	return m.Accumulated(caller), nil
}

// BalanceView is one token balance of an account.
type BalanceView struct {
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// Balances reads every token balance of an account from the ledgers.
func (s *MiningService) Balances(account string) []BalanceView {
	var out []BalanceView
	for _, t := range s.world.Tokens() {
		out = append(out, BalanceView{
			Symbol:  t.Symbol(),
			Name:    t.Name(),
			Balance: t.BalanceOf(account).String(),
		})
	}
	return out
}

// DrillView is a drill with its current custody and level-derived stats.
type DrillView struct {
	Drill       domain.Drill `json:"drill"`
	Owner       string       `json:"owner"`
	Approved    string       `json:"approved,omitempty"`
	Staked      bool         `json:"staked"`
	MiningPower string       `json:"mining_power"`
	Capacity    string       `json:"capacity"`
}

// DrillsOf lists the drills an account owns, including drills currently in
// mine custody that the account staked.
func (s *MiningService) DrillsOf(account string) []DrillView {
	staked := make(map[uint64]bool)
	for _, name := range s.world.MineOrder {
		if st := s.world.Mines[name].GetStake(account); st.Active() {
			staked[st.DrillID] = true
		}
	}

	var out []DrillView
	total := s.world.Catalog.TotalMinted()
	for id := uint64(1); id <= total; id++ {
		owner, err := s.world.Registry.OwnerOf(id)
		if err != nil {
			continue
		}
		if owner != account && !staked[id] {
			continue
		}
		d, err := s.world.Catalog.GetDrill(id)
		if err != nil {
			continue
		}
		approved, _ := s.world.Registry.GetApproved(id)
		v := DrillView{
			Drill:    *d,
			Owner:    owner,
			Approved: approved,
			Staked:   staked[id],
		}
		if power, err := s.world.Catalog.MiningPower(id); err == nil {
			v.MiningPower = power.String()
		}
		if capacity, err := s.world.Catalog.DrillCapacity(id); err == nil {
			v.Capacity = capacity.String()
		}
		out = append(out, v)
	}
	return out
}

// MineView is the caller-facing state of one mine.
type MineView struct {
	Name           string       `json:"name"`
	Resource       string       `json:"resource"`
	BaseProduction string       `json:"base_production"`
	UserLevel      int          `json:"user_level"`
	MaxUserLevel   int          `json:"max_user_level"`
	Capacity       string       `json:"capacity"`
	UpgradeCost    string       `json:"upgrade_cost,omitempty"`
	Accumulated    string       `json:"accumulated"`
	Stake          domain.Stake `json:"stake"`
}

// MineInfo assembles the full view of one mine for an account.
func (s *MiningService) MineInfo(account, mineName string) (*MineView, error) {
	m, err := s.mine(mineName)
	if err != nil {
		return nil, err
	}
	v := &MineView{
		Name:           mineName,
		Resource:       s.world.ResourceSymbol(mineName),
		BaseProduction: m.BaseProduction().String(),
		UserLevel:      m.UserLevel(account),
		MaxUserLevel:   m.MaxUserLevel(),
		Capacity:       m.Capacity(account).String(),
		Accumulated:    m.Accumulated(account).String(),
		Stake:          m.GetStake(account),
	}
	if cost, err := m.UpgradeCost(account); err == nil {
		v.UpgradeCost = cost.String()
	}
	return v, nil
}

// Mines lists every mine view for an account.
func (s *MiningService) MinesInfo(account string) []*MineView {
	out := make([]*MineView, 0, len(s.world.MineOrder))
	for _, name := range s.world.MineOrder {
		if v, err := s.MineInfo(account, name); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Events returns the account's recent journal entries, newest first. Empty
// without a database.
func (s *MiningService) Events(ctx context.Context, account string, limit int) ([]*domain.MiningEvent, error) {
	if s.repos == nil {
		return nil, nil
	}
	return s.repos.Events.GetByAccount(ctx, account, limit)
}

// RegisterAccount records the address on first login.
func (s *MiningService) RegisterAccount(ctx context.Context, address string) error {
	if s.repos == nil {
		return nil
	}
	_, err := s.repos.Accounts.GetOrCreate(ctx, address)
	return err
}

// FundNative mints native currency to an address. Owner-gated by the
// ledger; exposed for dev deployments and admin top-ups.
func (s *MiningService) FundNative(ctx context.Context, caller, to string, amount *big.Int) error {
	if err := s.world.Native.Mint(caller, to, amount); err != nil {
		return err
	}
	s.mirrorBalances(ctx, s.world.Native, to)
	return nil
}

// --- mirror and journal plumbing ---

func (s *MiningService) mirrorDrill(ctx context.Context, drillID uint64) {
	if s.repos == nil {
		return
	}
	d, err := s.world.Catalog.GetDrill(drillID)
	if err != nil {
		return
	}
	owner, err := s.world.Registry.OwnerOf(drillID)
	if err != nil {
		return
	}
	approved, _ := s.world.Registry.GetApproved(drillID)
	rec := &repository.DrillRecord{Drill: *d, Owner: owner, Approved: approved}
	if err := s.repos.Drills.Upsert(ctx, rec); err != nil {
		logger.Warn("drill mirror failed", "drill_id", drillID, "error", err)
	}
}

func (s *MiningService) mirrorStake(ctx context.Context, m *mining.Mine, account string) {
	if s.repos == nil {
		return
	}
	st := m.GetStake(account)
	if !st.Active() {
		return
	}
	if err := s.repos.Stakes.Upsert(ctx, &st); err != nil {
		logger.Warn("stake mirror failed", "mine", st.Mine, "account", account, "error", err)
	}
}

func (s *MiningService) mirrorBalances(ctx context.Context, token *mining.Token, addrs ...string) {
	if s.repos == nil || token == nil {
		return
	}
	for _, addr := range addrs {
		if err := s.repos.Balances.Set(ctx, token.Symbol(), addr, token.BalanceOf(addr)); err != nil {
			logger.Warn("balance mirror failed", "token", token.Symbol(), "address", addr, "error", err)
		}
	}
}

func (s *MiningService) mirrorAllBalances(ctx context.Context, addrs ...string) {
	for _, t := range s.world.Tokens() {
		s.mirrorBalances(ctx, t, addrs...)
	}
}

func (s *MiningService) record(ctx context.Context, ev *domain.MiningEvent) {
	ev.CreatedAt = time.Now()
	if s.repos != nil {
		if err := s.repos.Events.Create(ctx, ev); err != nil {
			logger.Warn("event journal write failed", "kind", ev.Kind, "account", ev.Account, "error", err)
		}
	}
	if s.sink != nil {
		s.sink.PublishEvent(ev)
		EventsPublished.Inc()
	}
}
