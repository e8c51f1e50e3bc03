package domain

import "time"

// EventKind - what happened to an account's mining position
type EventKind string

const (
	EventMinted    EventKind = "minted"
	EventStaked    EventKind = "staked"
	EventCollected EventKind = "collected"
	EventUnstaked  EventKind = "unstaked"
	EventUpgraded  EventKind = "upgraded"
	EventConverted EventKind = "converted"
)

// MiningEvent is one row of the append-only journal and the payload
// broadcast on the websocket feed. Amount is a decimal string because
// resource amounts are 1e18-scale.
type MiningEvent struct {
	ID        int64                  `db:"id" json:"id"`
	Account   string                 `db:"account" json:"account"`
	Kind      EventKind              `db:"kind" json:"kind"`
	Mine      string                 `db:"mine" json:"mine,omitempty"`
	DrillID   uint64                 `db:"drill_id" json:"drill_id,omitempty"`
	Amount    string                 `db:"amount" json:"amount,omitempty"`
	Details   map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
