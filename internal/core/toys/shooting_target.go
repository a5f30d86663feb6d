package toys

import "github.com/zeusync/toyfacade/internal/core/mathx"

var _ Toy = (*ShootingTarget)(nil)

// ShootingTarget wraps a native shooting target.
//
// Max health, health and auto reset time may only be written while the target
// is in sync mode; outside it a write would diverge from what clients show,
// so the setters fail with a *PreconditionError and leave the value alone.
// Reads, Clear and Damage are always allowed.
type ShootingTarget struct {
	AdminToy

	base NativeTarget
	typ  TargetType
}

func newShootingTarget(engine Engine, target NativeTarget) *ShootingTarget {
	return &ShootingTarget{
		AdminToy: newAdminToy(engine, target, KindShootingTarget),
		base:     target,
		typ:      Classify(target.Name()),
	}
}

// Type is fixed when the facade is built.
func (t *ShootingTarget) Type() TargetType {
	return t.typ
}

// Base exposes the native target for host code that needs engine access.
func (t *ShootingTarget) Base() NativeTarget {
	return t.base
}

func (t *ShootingTarget) VerificationRule() (VerificationRule, error) {
	if err := t.alive(); err != nil {
		return nil, err
	}
	return t.base.VerificationRule(), nil
}

func (t *ShootingTarget) BullseyePosition() (mathx.Vector3, error) {
	if err := t.alive(); err != nil {
		return mathx.Zero, err
	}
	return t.base.BullseyePosition(), nil
}

func (t *ShootingTarget) BullseyeRadius() (float32, error) {
	if err := t.alive(); err != nil {
		return 0, err
	}
	return t.base.BullseyeRadius(), nil
}

func (t *ShootingTarget) IsSynced() (bool, error) {
	if err := t.alive(); err != nil {
		return false, err
	}
	return t.base.SyncMode(), nil
}

// SetSynced toggles sync mode. It is the gate itself, so it has no
// precondition.
func (t *ShootingTarget) SetSynced(synced bool) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.base.SetSyncMode(synced)
	return nil
}

func (t *ShootingTarget) MaxHealth() (int, error) {
	if err := t.alive(); err != nil {
		return 0, err
	}
	return t.base.MaxHP(), nil
}

func (t *ShootingTarget) SetMaxHealth(maxHealth int) error {
	if err := t.requireSynced("MaxHealth"); err != nil {
		return err
	}
	t.base.SetMaxHP(maxHealth)
	t.base.SendInfo(t.base.MaxHP(), t.base.AutoResetTime())
	return nil
}

func (t *ShootingTarget) Health() (float32, error) {
	if err := t.alive(); err != nil {
		return 0, err
	}
	return t.base.HP(), nil
}

// SetHealth does not notify clients; health rides the regular state sync.
func (t *ShootingTarget) SetHealth(health float32) error {
	if err := t.requireSynced("Health"); err != nil {
		return err
	}
	t.base.SetHP(health)
	return nil
}

// AutoResetTime is in seconds; zero disables the auto reset.
func (t *ShootingTarget) AutoResetTime() (int, error) {
	if err := t.alive(); err != nil {
		return 0, err
	}
	return t.base.AutoResetTime(), nil
}

// SetAutoResetTime clamps negative values to zero.
func (t *ShootingTarget) SetAutoResetTime(seconds int) error {
	if err := t.requireSynced("AutoResetTime"); err != nil {
		return err
	}
	t.base.SetAutoResetTime(max(0, seconds))
	t.base.SendInfo(t.base.MaxHP(), t.base.AutoResetTime())
	return nil
}

// Clear restores full health and wipes the hit history.
func (t *ShootingTarget) Clear() error {
	if err := t.alive(); err != nil {
		return err
	}
	t.base.ClearTarget()
	return nil
}

// Damage applies damage at hit and reports whether the engine accepted it.
func (t *ShootingTarget) Damage(amount float32, source DamageSource, hit mathx.Vector3) (bool, error) {
	if err := t.alive(); err != nil {
		return false, err
	}
	return t.base.Damage(amount, source, hit), nil
}

func (t *ShootingTarget) requireSynced(field string) error {
	if err := t.alive(); err != nil {
		return err
	}
	if !t.base.SyncMode() {
		return &PreconditionError{ID: t.id, Field: field}
	}
	return nil
}
