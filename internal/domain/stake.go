package domain

// Stake is the single active stake slot of an account in one mine.
// DrillID 0 together with Timestamp 0 means "never staked / fully unstaked".
type Stake struct {
	Account   string `db:"account" json:"account"`
	Mine      string `db:"mine" json:"mine"`
	DrillID   uint64 `db:"drill_id" json:"drill_id"`
	Timestamp int64  `db:"staked_at" json:"timestamp"` // epoch seconds at last settlement
}

// Active reports whether the slot holds a staked drill.
func (s *Stake) Active() bool {
	return s != nil && s.DrillID != 0
}
