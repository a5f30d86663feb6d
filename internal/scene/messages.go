package scene

import (
	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/toys"
)

// Replication events published on the scene bus.
const (
	EventToySpawned    = "toy.spawned"
	EventToyUnspawned  = "toy.unspawned"
	EventToyDestroyed  = toys.EventToyDestroyed
	EventTargetInfo    = "target.info"
	EventTargetSync    = "target.sync"
	EventTargetHit     = "target.hit"
	EventTargetCleared = "target.cleared"
)

const eventSource = "scene"

type SpawnMessage struct {
	ID       toys.NativeID `json:"id"`
	NetID    string        `json:"net_id"`
	Name     string        `json:"name"`
	AssetID  uint32        `json:"asset_id"`
	Position mathx.Vector3 `json:"position"`
	Rotation mathx.Vector3 `json:"rotation"`
	Scale    mathx.Vector3 `json:"scale"`
}

type UnspawnMessage struct {
	ID    toys.NativeID `json:"id"`
	NetID string        `json:"net_id"`
}

// InfoMessage carries what a client needs to render the target panel.
type InfoMessage struct {
	ID            toys.NativeID `json:"id"`
	NetID         string        `json:"net_id"`
	MaxHealth     int           `json:"max_health"`
	AutoResetTime int           `json:"auto_reset_time"`
}

type SyncMessage struct {
	ID       toys.NativeID `json:"id"`
	NetID    string        `json:"net_id"`
	SyncMode bool          `json:"sync_mode"`
}

type HitMessage struct {
	ID       toys.NativeID `json:"id"`
	NetID    string        `json:"net_id"`
	Attacker string        `json:"attacker,omitempty"`
	Damage   float32       `json:"damage"`
	Point    mathx.Vector3 `json:"point"`
	Health   float32       `json:"health"`
	Bullseye bool          `json:"bullseye"`
}

type ClearMessage struct {
	ID    toys.NativeID `json:"id"`
	NetID string        `json:"net_id"`
}
