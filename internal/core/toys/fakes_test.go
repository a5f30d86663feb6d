package toys

import (
	"errors"

	"github.com/zeusync/toyfacade/internal/core/mathx"
)

type fakeObject struct {
	id    NativeID
	name  string
	valid bool

	pos, rot, scale mathx.Vector3
}

func (o *fakeObject) ID() NativeID                   { return o.id }
func (o *fakeObject) Name() string                   { return o.name }
func (o *fakeObject) IsValid() bool                  { return o.valid }
func (o *fakeObject) Position() mathx.Vector3        { return o.pos }
func (o *fakeObject) SetPosition(v mathx.Vector3)    { o.pos = v }
func (o *fakeObject) EulerAngles() mathx.Vector3     { return o.rot }
func (o *fakeObject) SetEulerAngles(v mathx.Vector3) { o.rot = v }
func (o *fakeObject) LocalScale() mathx.Vector3      { return o.scale }
func (o *fakeObject) SetLocalScale(v mathx.Vector3)  { o.scale = v }

type infoCall struct {
	maxHP, autoReset int
}

type fakeTarget struct {
	*fakeObject

	maxHP     int
	hp        float32
	autoReset int
	sync      bool

	infos        []infoCall
	clears       int
	damageResult bool
	damages      []float32
	rule         VerificationRule
}

func newFakeTarget(id NativeID, name string) *fakeTarget {
	return &fakeTarget{
		fakeObject:   &fakeObject{id: id, name: name, valid: true, scale: mathx.One},
		maxHP:        100,
		hp:           100,
		autoReset:    3,
		damageResult: true,
	}
}

func (t *fakeTarget) BullseyePosition() mathx.Vector3 { return t.pos.Add(mathx.Vec3(0, 1, 0)) }
func (t *fakeTarget) BullseyeRadius() float32         { return 0.25 }
func (t *fakeTarget) MaxHP() int                      { return t.maxHP }
func (t *fakeTarget) SetMaxHP(v int)                  { t.maxHP = v }
func (t *fakeTarget) HP() float32                     { return t.hp }
func (t *fakeTarget) SetHP(v float32)                 { t.hp = v }
func (t *fakeTarget) AutoResetTime() int              { return t.autoReset }
func (t *fakeTarget) SetAutoResetTime(v int)          { t.autoReset = v }
func (t *fakeTarget) SyncMode() bool                  { return t.sync }
func (t *fakeTarget) SetSyncMode(v bool)              { t.sync = v }
func (t *fakeTarget) VerificationRule() VerificationRule {
	return t.rule
}

func (t *fakeTarget) SendInfo(maxHP, autoResetTime int) {
	t.infos = append(t.infos, infoCall{maxHP: maxHP, autoReset: autoResetTime})
}

func (t *fakeTarget) ClearTarget() {
	t.clears++
	t.hp = float32(t.maxHP)
}

func (t *fakeTarget) Damage(amount float32, _ DamageSource, _ mathx.Vector3) bool {
	t.damages = append(t.damages, amount)
	if t.damageResult {
		t.hp -= amount
	}
	return t.damageResult
}

type fakeEngine struct {
	next      NativeID
	spawned   map[NativeID]bool
	prefabs   []string
	destroyed []NativeID
	failWith  error
	spawnErr  error
	plain     bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{spawned: make(map[NativeID]bool)}
}

var errFakeEngine = errors.New("engine exploded")

func (e *fakeEngine) Instantiate(prefab string) (NativeObject, error) {
	if e.failWith != nil {
		return nil, e.failWith
	}
	e.next++
	e.prefabs = append(e.prefabs, prefab)
	if e.plain {
		return &fakeObject{id: e.next, name: prefab + "(Clone)", valid: true, scale: mathx.One}, nil
	}
	// Placement must come from the factory, not the prefab.
	t := newFakeTarget(e.next, prefab+"(Clone)")
	t.pos = mathx.Vec3(9, 9, 9)
	t.rot = mathx.Vec3(9, 9, 9)
	t.scale = mathx.Vec3(9, 9, 9)
	return t, nil
}

func (e *fakeEngine) Spawn(obj NativeObject) error {
	if e.spawnErr != nil {
		return e.spawnErr
	}
	e.spawned[obj.ID()] = true
	return nil
}

func (e *fakeEngine) UnSpawn(obj NativeObject) error {
	e.spawned[obj.ID()] = false
	return nil
}

func (e *fakeEngine) IsSpawned(obj NativeObject) bool {
	return e.spawned[obj.ID()]
}

func (e *fakeEngine) Destroy(obj NativeObject) error {
	e.destroyed = append(e.destroyed, obj.ID())
	delete(e.spawned, obj.ID())
	switch o := obj.(type) {
	case *fakeTarget:
		o.valid = false
	case *fakeObject:
		o.valid = false
	}
	return nil
}

type fakeSource struct{ attacker string }

func (s fakeSource) Attacker() string { return s.attacker }

type denyAll struct{}

func (denyAll) CanInteract(string) bool { return false }
