package scene

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/toyfacade/internal/core/events/bus"
	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/core/toys"
)

type recorder struct {
	mu     sync.Mutex
	events []bus.Event
}

func (r *recorder) handle(e bus.Event) error {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

func (r *recorder) ofType(eventType string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, e := range r.events {
		if e.Type() == eventType {
			out = append(out, e.Data())
		}
	}
	return out
}

type fixture struct {
	scene    *Scene
	registry *toys.Registry
	factory  *toys.Factory
	events   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := bus.New()
	rec := &recorder{}
	_, err := b.Subscribe(bus.Wildcard, rec.handle)
	require.NoError(t, err)

	s := New(b, log.NewNop())
	r := toys.NewRegistry(s)
	require.NoError(t, r.Attach(b))
	t.Cleanup(func() { _ = r.Detach() })

	return &fixture{
		scene:    s,
		registry: r,
		factory:  toys.NewFactory(s, r, log.NewNop()),
		events:   rec,
	}
}

func TestInstantiateNamesClones(t *testing.T) {
	s := New(bus.New(), log.NewNop())

	obj, err := s.Instantiate(toys.BinaryPrefab)
	require.NoError(t, err)
	assert.Equal(t, "binaryTargetPrefab(Clone)", obj.Name())
	assert.Equal(t, toys.TargetBinary, toys.Classify(obj.Name()))

	other, err := s.Instantiate(toys.BinaryPrefab)
	require.NoError(t, err)
	assert.NotEqual(t, obj.ID(), other.ID())

	_, err = s.Instantiate("missingPrefab")
	assert.ErrorIs(t, err, ErrUnknownPrefab)
}

func TestRegisterPrefab(t *testing.T) {
	s := New(bus.New(), log.NewNop())

	assert.ErrorIs(t, s.RegisterPrefab(Prefab{}), ErrInvalidPrefab)
	assert.ErrorIs(t, s.RegisterPrefab(Prefab{Name: "broken", Target: true}), ErrInvalidPrefab)

	require.NoError(t, s.RegisterPrefab(Prefab{Name: "crate"}))
	p, ok := s.Prefab("crate")
	require.True(t, ok)
	assert.NotZero(t, p.AssetID())

	obj, err := s.Instantiate("crate")
	require.NoError(t, err)
	_, isTarget := obj.(toys.NativeTarget)
	assert.False(t, isTarget)
}

func TestFactoryCreatesClassifiedTargets(t *testing.T) {
	f := newFixture(t)

	for _, typ := range []toys.TargetType{toys.TargetSport, toys.TargetClassD, toys.TargetBinary} {
		st, err := f.factory.Create(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, st.Type())
	}
	st, err := f.factory.Create(toys.TargetUnknown)
	require.NoError(t, err)
	assert.Equal(t, toys.TargetSport, st.Type())

	assert.Len(t, f.events.ofType(EventToySpawned), 4)
	assert.Len(t, f.scene.Targets(), 4)
	assert.Equal(t, 4, f.registry.Len())
}

func TestSpawnIsDeferred(t *testing.T) {
	f := newFixture(t)

	st, err := f.factory.Create(toys.TargetSport, toys.WithSpawn(false), toys.WithPosition(mathx.Vec3(4, 0, 1)))
	require.NoError(t, err)
	assert.Empty(t, f.events.ofType(EventToySpawned))

	require.NoError(t, st.Spawn())
	require.NoError(t, st.Spawn())
	spawns := f.events.ofType(EventToySpawned)
	require.Len(t, spawns, 1)
	msg := spawns[0].(SpawnMessage)
	assert.Equal(t, st.ID(), msg.ID)
	assert.NotEmpty(t, msg.NetID)
	assert.Equal(t, mathx.Vec3(4, 0, 1), msg.Position)
	assert.Equal(t, mathx.One, msg.Scale)
	p, _ := f.scene.Prefab(toys.SportPrefab)
	assert.Equal(t, p.AssetID(), msg.AssetID)

	require.NoError(t, st.UnSpawn())
	assert.Len(t, f.events.ofType(EventToyUnspawned), 1)
}

func TestSyncedSettersReplicate(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetClassD)
	require.NoError(t, err)

	assert.ErrorIs(t, st.SetMaxHealth(10), toys.ErrNotSynced)
	assert.Empty(t, f.events.ofType(EventTargetInfo))

	require.NoError(t, st.SetSynced(true))
	require.NoError(t, st.SetMaxHealth(500))
	require.NoError(t, st.SetAutoResetTime(-5))

	infos := f.events.ofType(EventTargetInfo)
	require.Len(t, infos, 2)
	assert.Equal(t, 500, infos[0].(InfoMessage).MaxHealth)
	assert.Equal(t, 0, infos[1].(InfoMessage).AutoResetTime)

	syncs := f.events.ofType(EventTargetSync)
	require.Len(t, syncs, 1)
	assert.True(t, syncs[0].(SyncMessage).SyncMode)
}

func TestDamageAndClear(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetSport, toys.WithPosition(mathx.Vec3(10, 0, 0)))
	require.NoError(t, err)
	require.NoError(t, st.SetSynced(true))
	require.NoError(t, st.SetMaxHealth(200))
	require.NoError(t, st.SetHealth(200))

	bullseye, err := st.BullseyePosition()
	require.NoError(t, err)
	assert.Equal(t, mathx.Vec3(10, 1.2, 0), bullseye)

	ok, err := st.Damage(50, Firearm{Shooter: "alice", Weapon: "pistol"}, mathx.Vec3(10, 0.1, 0))
	require.NoError(t, err)
	assert.True(t, ok)

	hp, _ := st.Health()
	assert.Equal(t, float32(150), hp)

	target := st.Base().(*Target)
	require.Len(t, target.Hits(), 1)
	assert.Equal(t, "alice", target.Hits()[0].Attacker)

	hits := f.events.ofType(EventTargetHit)
	require.Len(t, hits, 1)
	assert.Equal(t, float32(150), hits[0].(HitMessage).Health)

	require.NoError(t, st.Clear())
	hp, _ = st.Health()
	assert.Equal(t, float32(200), hp)
	assert.Empty(t, target.Hits())
	assert.Len(t, f.events.ofType(EventTargetCleared), 1)
}

func TestDamageRejections(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetSport, toys.WithSpawn(false))
	require.NoError(t, err)

	ok, err := st.Damage(10, nil, mathx.Zero)
	require.NoError(t, err)
	assert.False(t, ok, "unspawned targets ignore hits")

	require.NoError(t, st.Spawn())
	ok, _ = st.Damage(0, nil, mathx.Zero)
	assert.False(t, ok, "zero damage")
	ok, _ = st.Damage(10, nil, mathx.Vec3(5, 0, 0))
	assert.False(t, ok, "out of bounds")

	require.NoError(t, st.SetScale(mathx.Vec3(10, 10, 10)))
	ok, _ = st.Damage(10, nil, mathx.Vec3(5, 0, 0))
	assert.True(t, ok, "bounds grow with scale")

	hp, _ := st.Health()
	assert.Equal(t, float32(1000), hp, "health only drops in sync mode")
}

func TestDamageRejectsNonFiniteInput(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetSport)
	require.NoError(t, err)
	require.NoError(t, st.SetSynced(true))

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name   string
		amount float32
		point  mathx.Vector3
	}{
		{"nan amount", nan, mathx.Zero},
		{"infinite amount", inf, mathx.Zero},
		{"nan point", 10, mathx.Vec3(nan, nan, nan)},
		{"infinite point", 10, mathx.Vec3(0, inf, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := st.Damage(tt.amount, nil, tt.point)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	hp, err := st.Health()
	require.NoError(t, err)
	assert.Equal(t, float32(1000), hp)
	assert.Empty(t, st.Base().(*Target).Hits())
	assert.Empty(t, f.events.ofType(EventTargetHit))
}

func TestBullseyeHit(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetBinary)
	require.NoError(t, err)

	center, _ := st.BullseyePosition()
	ok, _ := st.Damage(5, nil, center)
	require.True(t, ok)

	hits := f.events.ofType(EventTargetHit)
	require.Len(t, hits, 1)
	assert.True(t, hits[0].(HitMessage).Bullseye)
}

func TestAutoReset(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetSport)
	require.NoError(t, err)
	require.NoError(t, st.SetSynced(true))
	require.NoError(t, st.SetAutoResetTime(2))

	ok, _ := st.Damage(100, nil, mathx.Zero)
	require.True(t, ok)

	f.scene.Tick(1500 * time.Millisecond)
	hp, _ := st.Health()
	assert.Equal(t, float32(900), hp)

	f.scene.Tick(600 * time.Millisecond)
	hp, _ = st.Health()
	assert.Equal(t, float32(1000), hp)
	assert.Equal(t, 2100*time.Millisecond, f.scene.Now())
}

func TestDestroyPurgesRegistry(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetSport)
	require.NoError(t, err)
	native := st.Base()

	require.NoError(t, st.Destroy())

	assert.False(t, st.IsValid())
	assert.Zero(t, f.registry.Len())
	_, found := f.scene.Lookup(st.ID())
	assert.False(t, found)
	assert.Len(t, f.events.ofType(EventToyUnspawned), 1)

	destroyed := f.events.ofType(EventToyDestroyed)
	require.Len(t, destroyed, 1)
	assert.Equal(t, st.ID(), destroyed[0].(toys.DestroyedEvent).ID)

	_, err = st.Health()
	assert.ErrorIs(t, err, toys.ErrStaleReference)
	_, err = f.registry.Resolve(native)
	assert.ErrorIs(t, err, toys.ErrStaleReference)
	assert.ErrorIs(t, f.scene.Spawn(native), ErrDestroyed)
}

func TestForeignObjectsAreRejected(t *testing.T) {
	a := New(bus.New(), log.NewNop())
	b := New(bus.New(), log.NewNop())

	obj, err := a.Instantiate(toys.SportPrefab)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Spawn(obj), ErrNotInScene)
	assert.False(t, b.IsSpawned(obj))
	assert.ErrorIs(t, b.Spawn(nil), toys.ErrNilNative)
}

func TestRegistryRejectsObjectsFromAnotherScene(t *testing.T) {
	a := New(bus.New(), log.NewNop())
	b := New(bus.New(), log.NewNop())
	r := toys.NewRegistry(a)

	sport, err := a.Instantiate(toys.SportPrefab)
	require.NoError(t, err)
	binary, err := b.Instantiate(toys.BinaryPrefab)
	require.NoError(t, err)
	require.Equal(t, sport.ID(), binary.ID())

	st, err := r.Resolve(sport.(*Target))
	require.NoError(t, err)
	_, err = r.Resolve(binary.(*Target))
	assert.ErrorIs(t, err, toys.ErrIdentityConflict)
	assert.Equal(t, toys.TargetSport, st.Type())
}

type failingSpawner struct {
	*Scene
}

func (failingSpawner) Spawn(toys.NativeObject) error {
	return errors.New("spawn failed")
}

func TestFailedSpawnLeavesNoTarget(t *testing.T) {
	b := bus.New()
	s := New(b, log.NewNop())
	engine := failingSpawner{Scene: s}
	r := toys.NewRegistry(engine)
	require.NoError(t, r.Attach(b))
	t.Cleanup(func() { _ = r.Detach() })

	st, err := toys.NewFactory(engine, r, log.NewNop()).Create(toys.TargetSport)
	require.Error(t, err)
	assert.Nil(t, st)
	assert.Zero(t, r.Len())
	assert.Empty(t, s.Targets())
}

func TestVerificationRules(t *testing.T) {
	f := newFixture(t)
	st, err := f.factory.Create(toys.TargetSport)
	require.NoError(t, err)

	rule, err := st.VerificationRule()
	require.NoError(t, err)
	assert.True(t, rule.CanInteract("anyone"))

	st.Base().(*Target).SetVerificationRule(NewAllowlist("admin"))
	rule, _ = st.VerificationRule()
	assert.True(t, rule.CanInteract("admin"))
	assert.False(t, rule.CanInteract("guest"))
}

func TestRunExecutesTasksOnLoop(t *testing.T) {
	s := New(bus.New(), log.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 100) }()

	require.Eventually(t, s.Running, time.Second, time.Millisecond)
	assert.ErrorIs(t, s.Run(ctx, 100), ErrAlreadyRunning)

	var created toys.NativeObject
	require.NoError(t, s.Do(ctx, func() {
		created, _ = s.Instantiate(toys.SportPrefab)
	}))
	require.NotNil(t, created)

	require.Eventually(t, func() bool { return s.Now() > 0 }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.False(t, s.Running())
	assert.Error(t, s.Run(context.Background(), 0))
}

func TestDoReturnsWhenLoopStops(t *testing.T) {
	s := New(bus.New(), log.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, 10) }()
	require.Eventually(t, s.Running, time.Second, time.Millisecond)

	started, release := make(chan struct{}), make(chan struct{})
	busy := make(chan error, 1)
	go func() {
		busy <- s.Do(context.Background(), func() {
			close(started)
			<-release
		})
	}()
	<-started

	// Queued behind the busy task with a context that is never cancelled.
	pending := make(chan error, 1)
	go func() { pending <- s.Do(context.Background(), func() {}) }()

	cancel()
	close(release)
	require.NoError(t, <-busy)
	require.NoError(t, <-done)

	select {
	case err := <-pending:
		if err != nil {
			assert.ErrorIs(t, err, ErrStopped)
		}
	case <-time.After(time.Second):
		t.Fatal("Do still blocked after the loop stopped")
	}
}
