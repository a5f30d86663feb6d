package toys

import "github.com/zeusync/toyfacade/internal/core/mathx"

// NativeObject is an engine-owned scene object. Facades hold it without
// owning it and must check IsValid before every access.
type NativeObject interface {
	ID() NativeID
	Name() string
	IsValid() bool

	Position() mathx.Vector3
	SetPosition(mathx.Vector3)
	EulerAngles() mathx.Vector3
	SetEulerAngles(mathx.Vector3)
	LocalScale() mathx.Vector3
	SetLocalScale(mathx.Vector3)
}

// NativeTarget is the engine's shooting target component.
type NativeTarget interface {
	NativeObject

	BullseyePosition() mathx.Vector3
	BullseyeRadius() float32

	MaxHP() int
	SetMaxHP(int)
	HP() float32
	SetHP(float32)
	AutoResetTime() int
	SetAutoResetTime(int)

	// SyncMode is the replicated flag that gates the guarded setters.
	SyncMode() bool
	SetSyncMode(bool)

	// SendInfo pushes max health and auto reset time to every client.
	SendInfo(maxHP, autoResetTime int)
	ClearTarget()
	Damage(amount float32, source DamageSource, hit mathx.Vector3) bool

	VerificationRule() VerificationRule
}

// Engine is the slice of the host engine the factory and facades need.
type Engine interface {
	Instantiate(prefab string) (NativeObject, error)
	Spawn(NativeObject) error
	UnSpawn(NativeObject) error
	IsSpawned(NativeObject) bool
	Destroy(NativeObject) error
}

// DamageSource describes what dealt damage. It is passed through untouched.
type DamageSource interface {
	// Attacker is empty for environmental damage.
	Attacker() string
}

// VerificationRule decides who may interact with a toy. It is passed
// through untouched.
type VerificationRule interface {
	CanInteract(actor string) bool
}
