package scene

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeusync/toyfacade/internal/core/events/bus"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/core/toys"
)

var _ toys.Engine = (*Scene)(nil)

type node interface {
	toys.NativeObject
	core() *Object
}

type task struct {
	fn   func()
	done chan struct{}
}

// Scene is an in-memory engine hosting admin toys. Object state is meant to
// be touched from a single goroutine: either call methods directly before the
// loop starts, or route work through Do while Run is active.
type Scene struct {
	mu      sync.RWMutex
	prefabs map[string]Prefab
	objects map[toys.NativeID]node
	nextID  uint64
	clock   time.Duration

	bus    bus.EventBus
	logger log.Log

	tasks chan task

	loopMu sync.Mutex
	// stopped is non-nil while Run is active and closed when it returns.
	stopped chan struct{}
}

// New creates a scene publishing replication events on b, stocked with
// DefaultPrefabs.
func New(b bus.EventBus, logger log.Log) *Scene {
	s := &Scene{
		prefabs: make(map[string]Prefab),
		objects: make(map[toys.NativeID]node),
		bus:     b,
		logger:  logger.With(log.String("component", "scene")),
		tasks:   make(chan task),
	}
	for _, p := range DefaultPrefabs() {
		s.prefabs[p.Name] = p
	}
	return s
}

// Bus is the bus replication events are published on.
func (s *Scene) Bus() bus.EventBus {
	return s.bus
}

// RegisterPrefab adds or replaces a prefab.
func (s *Scene) RegisterPrefab(p Prefab) error {
	if err := p.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.prefabs[p.Name] = p
	s.mu.Unlock()
	return nil
}

func (s *Scene) Prefab(name string) (Prefab, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefabs[name]
	return p, ok
}

// Instantiate creates an unspawned copy of the named prefab named
// "<prefab>(Clone)".
func (s *Scene) Instantiate(prefab string) (toys.NativeObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefabs[prefab]
	if !ok {
		return nil, fmt.Errorf("scene: %w: %s", ErrUnknownPrefab, prefab)
	}
	s.nextID++
	obj := newObject(s, toys.NativeID(s.nextID), p)
	var n node = obj
	if p.Target {
		n = newTarget(obj)
	}
	s.objects[obj.id] = n
	return n, nil
}

// Lookup returns a live object by id.
func (s *Scene) Lookup(id toys.NativeID) (toys.NativeObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.objects[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Targets returns every live target ordered by id.
func (s *Scene) Targets() []*Target {
	s.mu.RLock()
	out := make([]*Target, 0, len(s.objects))
	for _, n := range s.objects {
		if t, ok := n.(*Target); ok {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Target) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func (s *Scene) Spawn(obj toys.NativeObject) error {
	o, err := s.own(obj)
	if err != nil {
		return err
	}
	if o.spawned {
		return nil
	}
	if o.netID == "" {
		o.netID = uuid.NewString()
	}
	o.spawned = true
	s.logger.Debug("Object spawned", log.Uint64("id", uint64(o.id)), log.String("net_id", o.netID))
	s.publish(EventToySpawned, SpawnMessage{
		ID:       o.id,
		NetID:    o.netID,
		Name:     o.name,
		AssetID:  o.prefab.AssetID(),
		Position: o.position,
		Rotation: o.rotation,
		Scale:    o.scale,
	})
	return nil
}

func (s *Scene) UnSpawn(obj toys.NativeObject) error {
	o, err := s.own(obj)
	if err != nil {
		return err
	}
	if !o.spawned {
		return nil
	}
	o.spawned = false
	s.publish(EventToyUnspawned, UnspawnMessage{ID: o.id, NetID: o.netID})
	return nil
}

func (s *Scene) IsSpawned(obj toys.NativeObject) bool {
	o, err := s.own(obj)
	if err != nil {
		return false
	}
	return o.spawned
}

// Destroy unspawns and removes the object. Facades holding it go stale.
func (s *Scene) Destroy(obj toys.NativeObject) error {
	o, err := s.own(obj)
	if err != nil {
		return err
	}
	if err = s.UnSpawn(obj); err != nil {
		return err
	}
	o.destroyed = true
	s.mu.Lock()
	delete(s.objects, o.id)
	s.mu.Unlock()
	s.logger.Debug("Object destroyed", log.Uint64("id", uint64(o.id)))
	s.publish(EventToyDestroyed, toys.DestroyedEvent{ID: o.id, NetID: o.netID, Name: o.name})
	return nil
}

// Now is the simulated time elapsed since the scene was created.
func (s *Scene) Now() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

// Tick advances simulated time and runs target auto resets.
func (s *Scene) Tick(dt time.Duration) {
	s.mu.Lock()
	s.clock += dt
	now := s.clock
	s.mu.Unlock()
	for _, t := range s.Targets() {
		t.tick(now)
	}
}

// Run ticks the scene tickRate times per second and executes Do tasks until
// ctx is done.
func (s *Scene) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		return fmt.Errorf("scene: tick rate must be positive, got %d", tickRate)
	}
	stopped, err := s.startLoop()
	if err != nil {
		return err
	}
	defer s.stopLoop(stopped)

	interval := time.Second / time.Duration(tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Scene loop started", log.Int("tick_rate", tickRate), log.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scene loop stopped")
			return nil
		case <-ticker.C:
			s.Tick(interval)
		case t := <-s.tasks:
			t.fn()
			close(t.done)
		}
	}
}

// Running reports whether Run is active.
func (s *Scene) Running() bool {
	return s.loop() != nil
}

// Do runs fn on the scene goroutine while Run is active, or inline
// otherwise. It must not be called from inside the scene goroutine. If the
// loop stops before taking fn, Do returns ErrStopped.
func (s *Scene) Do(ctx context.Context, fn func()) error {
	stopped := s.loop()
	if stopped == nil {
		fn()
		return nil
	}
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case s.tasks <- t:
	case <-stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scene) startLoop() (chan struct{}, error) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	if s.stopped != nil {
		return nil, ErrAlreadyRunning
	}
	s.stopped = make(chan struct{})
	return s.stopped, nil
}

func (s *Scene) stopLoop(stopped chan struct{}) {
	s.loopMu.Lock()
	s.stopped = nil
	s.loopMu.Unlock()
	close(stopped)
}

func (s *Scene) loop() chan struct{} {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()
	return s.stopped
}

func (s *Scene) own(obj toys.NativeObject) (*Object, error) {
	if obj == nil {
		return nil, toys.ErrNilNative
	}
	n, ok := obj.(node)
	if !ok || n.core().scene != s {
		return nil, fmt.Errorf("scene: object %d: %w", obj.ID(), ErrNotInScene)
	}
	o := n.core()
	if o.destroyed {
		return nil, fmt.Errorf("scene: object %d: %w", o.id, ErrDestroyed)
	}
	return o, nil
}

// replicate publishes per-object traffic; unspawned objects have no clients
// to talk to.
func (s *Scene) replicate(o *Object, eventType string, msg any) {
	if !o.spawned || o.destroyed {
		return
	}
	s.publish(eventType, msg)
}

func (s *Scene) publish(eventType string, msg any) {
	if err := s.bus.Publish(bus.NewEvent(eventType, eventSource, msg)); err != nil {
		s.logger.Warn("Replication handler failed", log.String("event", eventType), log.Error(err))
	}
}
