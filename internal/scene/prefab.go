package scene

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/toys"
)

// Prefab is a template the scene can instantiate.
type Prefab struct {
	Name string
	// Target is false for plain scene objects without a target component.
	Target bool

	// BullseyeOffset is relative to the object origin before scaling. It is
	// not rotated: targets stand upright.
	BullseyeOffset mathx.Vector3
	BullseyeRadius float32
	// BoundsRadius is the distance from the origin within which hits land.
	BoundsRadius float32

	MaxHP         int
	AutoResetTime int
}

// AssetID is a stable id for the prefab shared with clients.
func (p Prefab) AssetID() uint32 {
	return uint32(xxhash.Sum64String(p.Name))
}

func (p Prefab) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPrefab)
	}
	if p.Target && (p.MaxHP <= 0 || p.BoundsRadius <= 0) {
		return fmt.Errorf("%w: %s: target prefabs need positive max hp and bounds", ErrInvalidPrefab, p.Name)
	}
	return nil
}

// DefaultPrefabs returns the three stock shooting target prefabs.
func DefaultPrefabs() []Prefab {
	return []Prefab{
		{
			Name:           toys.SportPrefab,
			Target:         true,
			BullseyeOffset: mathx.Vec3(0, 1.2, 0),
			BullseyeRadius: 0.08,
			BoundsRadius:   1.5,
			MaxHP:          1000,
		},
		{
			Name:           toys.ClassDPrefab,
			Target:         true,
			BullseyeOffset: mathx.Vec3(0, 1.5, 0),
			BullseyeRadius: 0.1,
			BoundsRadius:   2,
			MaxHP:          1000,
		},
		{
			Name:           toys.BinaryPrefab,
			Target:         true,
			BullseyeOffset: mathx.Vec3(0, 1.1, 0),
			BullseyeRadius: 0.12,
			BoundsRadius:   1.5,
			MaxHP:          1000,
		},
	}
}
