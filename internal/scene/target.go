package scene

import (
	"math"
	"time"

	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/core/toys"
)

var _ toys.NativeTarget = (*Target)(nil)

// Hit is one accepted shot kept in the target's history.
type Hit struct {
	Attacker string
	Damage   float32
	Point    mathx.Vector3
	At       time.Duration
}

// Target is the scene's shooting target component.
type Target struct {
	*Object

	maxHP         int
	hp            float32
	autoResetTime int
	syncMode      bool
	rule          toys.VerificationRule

	hits       []Hit
	lastHitAt  time.Duration
	resetArmed bool
}

func newTarget(obj *Object) *Target {
	return &Target{
		Object:        obj,
		maxHP:         obj.prefab.MaxHP,
		hp:            float32(obj.prefab.MaxHP),
		autoResetTime: obj.prefab.AutoResetTime,
		rule:          AllowAll{},
	}
}

func (t *Target) BullseyePosition() mathx.Vector3 {
	return t.position.Add(t.prefab.BullseyeOffset.Mul(t.scale))
}

func (t *Target) BullseyeRadius() float32 {
	return t.prefab.BullseyeRadius * t.scale.MaxComponent()
}

func (t *Target) MaxHP() int         { return t.maxHP }
func (t *Target) SetMaxHP(v int)     { t.maxHP = v }
func (t *Target) HP() float32        { return t.hp }
func (t *Target) SetHP(v float32)    { t.hp = v }
func (t *Target) AutoResetTime() int { return t.autoResetTime }

func (t *Target) SetAutoResetTime(v int) { t.autoResetTime = v }

func (t *Target) SyncMode() bool { return t.syncMode }

// SetSyncMode replicates the flag whenever it changes.
func (t *Target) SetSyncMode(v bool) {
	if t.syncMode == v {
		return
	}
	t.syncMode = v
	t.scene.replicate(t.Object, EventTargetSync, SyncMessage{ID: t.id, NetID: t.netID, SyncMode: v})
}

func (t *Target) VerificationRule() toys.VerificationRule { return t.rule }

// SetVerificationRule replaces who may interact with the target.
func (t *Target) SetVerificationRule(rule toys.VerificationRule) { t.rule = rule }

func (t *Target) SendInfo(maxHP, autoResetTime int) {
	t.scene.replicate(t.Object, EventTargetInfo, InfoMessage{
		ID:            t.id,
		NetID:         t.netID,
		MaxHealth:     maxHP,
		AutoResetTime: autoResetTime,
	})
}

// ClearTarget restores full health and drops the hit history.
func (t *Target) ClearTarget() {
	t.hp = float32(t.maxHP)
	t.hits = nil
	t.resetArmed = false
	t.scene.replicate(t.Object, EventTargetCleared, ClearMessage{ID: t.id, NetID: t.netID})
}

// Damage records a hit. It is rejected for targets that are destroyed or not
// spawned, for amounts that are not positive and finite, for non-finite
// points and for points outside the bounds radius. Health only drops in sync
// mode.
func (t *Target) Damage(amount float32, source toys.DamageSource, hit mathx.Vector3) bool {
	if t.destroyed || !t.spawned {
		return false
	}
	if !(amount > 0) || math.IsInf(float64(amount), 0) || !hit.IsFinite() {
		t.scene.logger.Debug("Malformed hit rejected",
			log.Uint64("id", uint64(t.id)),
			log.Float32("damage", amount))
		return false
	}
	if !(hit.Distance(t.position) <= t.prefab.BoundsRadius*t.scale.MaxComponent()) {
		return false
	}

	var attacker string
	if source != nil {
		attacker = source.Attacker()
	}
	now := t.scene.Now()
	t.hits = append(t.hits, Hit{Attacker: attacker, Damage: amount, Point: hit, At: now})
	if t.syncMode {
		t.hp = max(0, t.hp-amount)
		t.lastHitAt = now
		t.resetArmed = true
	}

	t.scene.replicate(t.Object, EventTargetHit, HitMessage{
		ID:       t.id,
		NetID:    t.netID,
		Attacker: attacker,
		Damage:   amount,
		Point:    hit,
		Health:   t.hp,
		Bullseye: hit.Distance(t.BullseyePosition()) <= t.BullseyeRadius(),
	})
	return true
}

// Hits returns a copy of the hit history.
func (t *Target) Hits() []Hit {
	out := make([]Hit, len(t.hits))
	copy(out, t.hits)
	return out
}

func (t *Target) tick(now time.Duration) {
	if !t.resetArmed || !t.syncMode || t.autoResetTime <= 0 {
		return
	}
	if now-t.lastHitAt >= time.Duration(t.autoResetTime)*time.Second {
		t.ClearTarget()
	}
}
