package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/toys"
	"github.com/zeusync/toyfacade/internal/scene"
)

// Service is what the feed needs from the world: a state snapshot for new
// observers and a handler for control messages.
type Service interface {
	Snapshot(ctx context.Context) ([]TargetState, error)
	Handle(ctx context.Context, msg ControlMessage) (any, error)
}

var _ Service = (*TargetService)(nil)

// TargetState is a point-in-time view of one shooting target.
type TargetState struct {
	ID             toys.NativeID   `json:"id"`
	Type           toys.TargetType `json:"type"`
	Name           string          `json:"name"`
	Position       mathx.Vector3   `json:"position"`
	Rotation       mathx.Vector3   `json:"rotation"`
	Scale          mathx.Vector3   `json:"scale"`
	Spawned        bool            `json:"spawned"`
	Synced         bool            `json:"synced"`
	MaxHealth      int             `json:"max_health"`
	Health         float32         `json:"health"`
	AutoResetTime  int             `json:"auto_reset_time"`
	Bullseye       mathx.Vector3   `json:"bullseye"`
	BullseyeRadius float32         `json:"bullseye_radius"`
}

// ControlMessage is sent by observers to act on a target.
type ControlMessage struct {
	Action string        `json:"action"`
	ID     toys.NativeID `json:"id"`
	Actor  string        `json:"actor,omitempty"`
	Amount float32       `json:"amount,omitempty"`
	Point  mathx.Vector3 `json:"point,omitempty"`
	Synced bool          `json:"synced,omitempty"`
}

const (
	ActionClear  = "clear"
	ActionDamage = "damage"
	ActionSync   = "sync"
)

// DamageResult is returned for ActionDamage.
type DamageResult struct {
	Accepted bool    `json:"accepted"`
	Health   float32 `json:"health"`
}

// TargetService reads and drives targets on the scene goroutine.
type TargetService struct {
	scene    *scene.Scene
	registry *toys.Registry
}

func NewTargetService(s *scene.Scene, registry *toys.Registry) *TargetService {
	return &TargetService{scene: s, registry: registry}
}

func (s *TargetService) Snapshot(ctx context.Context) ([]TargetState, error) {
	var states []TargetState
	err := s.scene.Do(ctx, func() {
		for _, st := range s.registry.ShootingTargets() {
			state, err := describe(st)
			if err != nil {
				// Destroyed between listing and reading.
				continue
			}
			states = append(states, state)
		}
	})
	return states, err
}

func (s *TargetService) Handle(ctx context.Context, msg ControlMessage) (any, error) {
	var (
		result any
		err    error
	)
	doErr := s.scene.Do(ctx, func() {
		result, err = s.handle(msg)
	})
	if doErr != nil {
		return nil, doErr
	}
	return result, err
}

func (s *TargetService) handle(msg ControlMessage) (any, error) {
	toy, ok := s.registry.Get(msg.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTargetNotFound, msg.ID)
	}
	st, ok := toy.(*toys.ShootingTarget)
	if !ok {
		return nil, fmt.Errorf("%w: %d is a %s", ErrTargetNotFound, msg.ID, toy.Kind())
	}

	rule, err := st.VerificationRule()
	if err != nil {
		return nil, err
	}
	if rule != nil && !rule.CanInteract(msg.Actor) {
		return nil, fmt.Errorf("%w: %q on %d", ErrForbidden, msg.Actor, msg.ID)
	}

	switch msg.Action {
	case ActionClear:
		return nil, st.Clear()
	case ActionSync:
		return nil, st.SetSynced(msg.Synced)
	case ActionDamage:
		accepted, err := st.Damage(msg.Amount, scene.Firearm{Shooter: msg.Actor}, msg.Point)
		if err != nil {
			return nil, err
		}
		health, err := st.Health()
		if err != nil {
			return nil, err
		}
		return DamageResult{Accepted: accepted, Health: health}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}
}

func describe(st *toys.ShootingTarget) (TargetState, error) {
	state := TargetState{ID: st.ID(), Type: st.Type()}
	var errs []error
	read := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	state.Name, err = st.Name()
	read(err)
	state.Position, err = st.Position()
	read(err)
	state.Rotation, err = st.Rotation()
	read(err)
	state.Scale, err = st.Scale()
	read(err)
	state.Spawned, err = st.IsSpawned()
	read(err)
	state.Synced, err = st.IsSynced()
	read(err)
	state.MaxHealth, err = st.MaxHealth()
	read(err)
	state.Health, err = st.Health()
	read(err)
	state.AutoResetTime, err = st.AutoResetTime()
	read(err)
	state.Bullseye, err = st.BullseyePosition()
	read(err)
	state.BullseyeRadius, err = st.BullseyeRadius()
	read(err)

	return state, errors.Join(errs...)
}
