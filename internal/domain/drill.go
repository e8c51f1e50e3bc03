package domain

import "math/big"

// DrillType is a catalog entry describing a mintable drill family. A type
// either charges its MintPrice in native currency or, with
// UseNativeCurrency false, in the fungible CurrencyToken via allowance.
// MintConfig below covers the remaining cases: non-zero starting levels
// and capped promotional runs.
type DrillType struct {
	TypeID            uint64     `db:"type_id" json:"type_id"`
	Name              string     `db:"name" json:"name"`
	MintPrice         *big.Int   `db:"mint_price" json:"mint_price"`
	UseNativeCurrency bool       `db:"use_native_currency" json:"use_native_currency"`
	CurrencyToken     string     `db:"currency_token" json:"currency_token,omitempty"`
	MaxLevel          int        `db:"max_level" json:"max_level"`
	MiningPower       []*big.Int `json:"mining_power"` // one entry per level 0..MaxLevel
	Capacity          []*big.Int `json:"capacity"`     // same shape as MiningPower
	UpgradeCost       []*big.Int `json:"upgrade_cost"` // UpgradeCost[i] = cost to reach level i+1
}

// Drill is a minted instance. Ownership lives in the asset registry, not here.
type Drill struct {
	DrillID uint64 `db:"drill_id" json:"drill_id"`
	TypeID  uint64 `db:"type_id" json:"type_id"`
	Level   int    `db:"level" json:"level"`
}

// MintConfig is an alternative mint path: pay a designated fungible token
// instead of the native currency, optionally starting above level 0.
type MintConfig struct {
	ConfigID      uint64   `db:"config_id" json:"config_id"`
	TypeID        uint64   `db:"type_id" json:"type_id"`
	StartingLevel int      `db:"starting_level" json:"starting_level"`
	Price         *big.Int `db:"price" json:"price"`
	CurrencyToken string   `db:"currency_token" json:"currency_token"`
	MaxSupply     uint64   `db:"max_supply" json:"max_supply"` // 0 = unlimited
	Minted        uint64   `db:"minted" json:"minted"`
}
