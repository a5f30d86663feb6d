package toys

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/zeusync/toyfacade/internal/core/events/bus"
)

// Registry guarantees at most one facade per native object. It is scoped to
// one scene: build a new Registry per world instead of sharing a global.
type Registry struct {
	mu     sync.RWMutex
	engine Engine
	toys   map[NativeID]Toy
	sub    bus.Subscription
}

// NewRegistry returns an empty registry whose facades act through engine.
func NewRegistry(engine Engine) *Registry {
	return &Registry{
		engine: engine,
		toys:   make(map[NativeID]Toy),
	}
}

// Resolve returns the facade for target, wrapping it on first sight. Repeated
// calls with the same native object return the same pointer. A different
// native object reporting an id that is already bound yields
// ErrIdentityConflict. Native objects must be comparable, which pointer
// types are.
func (r *Registry) Resolve(target NativeTarget) (*ShootingTarget, error) {
	if target == nil {
		return nil, ErrNilNative
	}
	id := target.ID()
	if !target.IsValid() {
		r.forgetNative(id, target)
		return nil, staleError(id)
	}

	r.mu.RLock()
	toy, ok := r.toys[id]
	r.mu.RUnlock()
	if ok {
		return cachedShootingTarget(toy, target)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if toy, ok = r.toys[id]; ok {
		return cachedShootingTarget(toy, target)
	}
	st := newShootingTarget(r.engine, target)
	r.toys[id] = st
	return st, nil
}

// Register inserts a facade built elsewhere, e.g. another toy kind.
func (r *Registry) Register(toy Toy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.toys[toy.ID()]; ok {
		return fmt.Errorf("toys: toy %d: %w", toy.ID(), ErrAlreadyRegistered)
	}
	r.toys[toy.ID()] = toy
	return nil
}

func (r *Registry) Get(id NativeID) (Toy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	toy, ok := r.toys[id]
	return toy, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.toys)
}

// Toys returns every registered facade ordered by id.
func (r *Registry) Toys() []Toy {
	r.mu.RLock()
	out := make([]Toy, 0, len(r.toys))
	for _, toy := range r.toys {
		out = append(out, toy)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b Toy) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

// ShootingTargets returns the shooting target facades ordered by id.
func (r *Registry) ShootingTargets() []*ShootingTarget {
	var out []*ShootingTarget
	for _, toy := range r.Toys() {
		if st, ok := toy.(*ShootingTarget); ok {
			out = append(out, st)
		}
	}
	return out
}

// Forget drops the entry for id and reports whether one existed.
func (r *Registry) Forget(id NativeID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.toys[id]; !ok {
		return false
	}
	delete(r.toys, id)
	return true
}

// forgetNative drops the entry for id only if it wraps target.
func (r *Registry) forgetNative(id NativeID, target NativeTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.toys[id].(*ShootingTarget); ok && st.base == target {
		delete(r.toys, id)
	}
}

// Prune drops every entry whose native object is gone and returns how many
// were removed.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, toy := range r.toys {
		if !toy.IsValid() {
			delete(r.toys, id)
			removed++
		}
	}
	return removed
}

// Attach forgets entries as the engine announces destroyed objects on b.
// Attaching again replaces the previous subscription.
func (r *Registry) Attach(b bus.EventBus) error {
	sub, err := b.Subscribe(EventToyDestroyed, func(event bus.Event) error {
		switch data := event.Data().(type) {
		case DestroyedEvent:
			r.Forget(data.ID)
		case *DestroyedEvent:
			r.Forget(data.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	prev := r.sub
	r.sub = sub
	r.mu.Unlock()
	if prev != nil {
		return prev.Cancel()
	}
	return nil
}

// Detach stops listening for destroyed objects.
func (r *Registry) Detach() error {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func cachedShootingTarget(toy Toy, target NativeTarget) (*ShootingTarget, error) {
	st, ok := toy.(*ShootingTarget)
	if !ok {
		return nil, fmt.Errorf("toys: toy %d is a %s: %w", toy.ID(), toy.Kind(), ErrToyKindMismatch)
	}
	if st.base != target {
		return nil, fmt.Errorf("toys: toy %d: %w", toy.ID(), ErrIdentityConflict)
	}
	return st, nil
}
