package service

import (
	"context"

	"mine_empire/internal/logger"
)

// Restore replays the database mirrors into the in-memory world at boot.
// On a fresh database it seeds the mine reserves instead and mirrors them
// back, so both paths leave memory and database in agreement.
func (s *MiningService) Restore(ctx context.Context) error {
	if s.repos == nil {
		s.world.Seed()
		return nil
	}

	rows, err := s.repos.Balances.List(ctx)
	if err != nil {
		return err
	}

	d := s.world.Deployer

	if len(rows) == 0 {
		s.world.Seed()
		for _, name := range s.world.MineOrder {
			m := s.world.Mines[name]
			s.mirrorBalances(ctx, s.world.Resources[s.world.ResourceSymbol(name)], m.Address())
		}
	} else {
		for _, row := range rows {
			token := s.world.TokenBySymbol(row.Token)
			if token == nil {
				logger.Warn("skipping balance for unknown token", "token", row.Token)
				continue
			}
			if err := token.Mint(d, row.Address, row.Amount); err != nil {
				return err
			}
		}
	}

	drills, err := s.repos.Drills.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range drills {
		if err := s.world.Catalog.RestoreDrill(d, &rec.Drill); err != nil {
			return err
		}
		if err := s.world.Registry.Mint(d, rec.Owner, rec.Drill.DrillID); err != nil {
			return err
		}
		if rec.Approved != "" {
			if err := s.world.Registry.Approve(rec.Owner, rec.Approved, rec.Drill.DrillID); err != nil {
				return err
			}
		}
	}

	stakes, err := s.repos.Stakes.List(ctx)
	if err != nil {
		return err
	}
	for _, st := range stakes {
		m, ok := s.world.Mines[st.Mine]
		if !ok {
			logger.Warn("skipping stake for unknown mine", "mine", st.Mine, "account", st.Account)
			continue
		}
		if err := m.RestoreStake(d, st); err != nil {
			return err
		}
	}

	levels, err := s.repos.Stakes.ListUserLevels(ctx)
	if err != nil {
		return err
	}
	for _, ul := range levels {
		m, ok := s.world.Mines[ul.Mine]
		if !ok {
			continue
		}
		if err := m.RestoreUserLevel(d, ul.Account, ul.Level); err != nil {
			return err
		}
	}

	logger.Info("state restored",
		"drills", len(drills),
		"stakes", len(stakes),
		"balances", len(rows),
	)
	return nil
}
