package service

import (
	"context"
	"math/big"

	"mine_empire/internal/domain"
	"mine_empire/internal/mining"
)

// Admin operations pass the caller through to the engine, which enforces
// the owner role on each component. Admin addresses receive that role at
// deployment.

func (s *MiningService) AddDrillType(ctx context.Context, caller string, t *domain.DrillType) error {
	err := s.world.Catalog.AddType(caller, t)
	trackOp("admin_add_type", err)
	return err
}

func (s *MiningService) AddMintConfig(ctx context.Context, caller string, cfg *domain.MintConfig) error {
	err := s.world.Catalog.AddMintConfig(caller, cfg)
	trackOp("admin_add_mint_config", err)
	return err
}

func (s *MiningService) UpdateMintPrice(ctx context.Context, caller string, typeID uint64, price *big.Int) error {
	return s.world.Catalog.UpdateMintPrice(caller, typeID, price)
}

func (s *MiningService) UpdateUpgradeRequirement(ctx context.Context, caller string, typeID uint64, level int, amount *big.Int) error {
	return s.world.Catalog.UpdateUpgradeRequirement(caller, typeID, level, amount)
}

func (s *MiningService) UpdateMaxDrills(ctx context.Context, caller string, n uint64) error {
	return s.world.Catalog.UpdateMaxDrills(caller, n)
}

func (s *MiningService) UpdateSupplyCap(ctx context.Context, caller string, typeID uint64, level int, limit uint64) error {
	return s.world.Catalog.UpdateSupplyCap(caller, typeID, level, limit)
}

func (s *MiningService) UpdateMintConfigSupply(ctx context.Context, caller string, configID, maxSupply uint64) error {
	return s.world.Catalog.UpdateMintConfigSupply(caller, configID, maxSupply)
}

// SetConvertRate changes how many resource units buy one unit of CosmicCash.
func (s *MiningService) SetConvertRate(ctx context.Context, caller, symbol string, rate *big.Int) error {
	resource := s.world.Resources[symbol]
	if resource == nil {
		return mining.ErrNotFound
	}
	return s.world.Converter.SetRate(caller, symbol, resource, rate)
}

func (s *MiningService) SetBaseProduction(ctx context.Context, caller, mineName string, base *big.Int) error {
	m, err := s.mine(mineName)
	if err != nil {
		return err
	}
	return m.SetBaseProduction(caller, base)
}

// UpdateTreasuryAddress points mint payments at a new payout address.
func (s *MiningService) UpdateTreasuryAddress(ctx context.Context, caller, payout string) error {
	return s.world.Treasury.UpdateAddress(caller, payout)
}
