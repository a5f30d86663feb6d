package toys

import (
	"errors"
	"fmt"

	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
)

type createOptions struct {
	position mathx.Vector3
	rotation mathx.Vector3
	scale    mathx.Vector3
	spawn    bool
}

func defaultCreateOptions() createOptions {
	return createOptions{
		position: mathx.Zero,
		rotation: mathx.Zero,
		scale:    mathx.One,
		spawn:    true,
	}
}

// CreateOption adjusts placement or spawning of a new target.
type CreateOption func(*createOptions)

func WithPosition(v mathx.Vector3) CreateOption {
	return func(o *createOptions) { o.position = v }
}

// WithRotation sets euler angles in degrees.
func WithRotation(euler mathx.Vector3) CreateOption {
	return func(o *createOptions) { o.rotation = euler }
}

func WithScale(v mathx.Vector3) CreateOption {
	return func(o *createOptions) { o.scale = v }
}

// WithSpawn controls whether the target is broadcast right away.
func WithSpawn(spawn bool) CreateOption {
	return func(o *createOptions) { o.spawn = spawn }
}

// Factory instantiates shooting targets and registers their facades.
type Factory struct {
	engine   Engine
	registry *Registry
	logger   log.Log
}

func NewFactory(engine Engine, registry *Registry, logger log.Log) *Factory {
	return &Factory{
		engine:   engine,
		registry: registry,
		logger:   logger.With(log.String("component", "toy_factory")),
	}
}

// Registry is the registry new facades are inserted into.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Create instantiates a target of type t. Types without a dedicated prefab
// get the Sport prefab. Unless WithSpawn(false) is given, the target is
// spawned before it is returned.
func (f *Factory) Create(t TargetType, opts ...CreateOption) (*ShootingTarget, error) {
	o := defaultCreateOptions()
	for _, opt := range opts {
		opt(&o)
	}

	prefab := PrefabName(t)
	obj, err := f.engine.Instantiate(prefab)
	if err != nil {
		return nil, fmt.Errorf("toys: instantiate %s: %w", prefab, err)
	}
	native, ok := obj.(NativeTarget)
	if !ok {
		return nil, errors.Join(fmt.Errorf("toys: prefab %s: %w", prefab, ErrNotATarget), f.discard(obj))
	}

	native.SetPosition(o.position)
	native.SetEulerAngles(o.rotation)
	native.SetLocalScale(o.scale)

	target, err := f.registry.Resolve(native)
	if err != nil {
		return nil, errors.Join(err, f.discard(native))
	}

	if o.spawn {
		if err = target.Spawn(); err != nil {
			f.registry.Forget(target.ID())
			return nil, errors.Join(
				fmt.Errorf("toys: spawn target %d: %w", target.ID(), err),
				f.discard(native))
		}
	}

	f.logger.Debug("Shooting target created",
		log.Uint64("id", uint64(target.ID())),
		log.Stringer("requested", t),
		log.Stringer("type", target.Type()),
		log.Bool("spawned", o.spawn))

	return target, nil
}

// discard destroys an object Create could not hand out.
func (f *Factory) discard(obj NativeObject) error {
	if err := f.engine.Destroy(obj); err != nil {
		return fmt.Errorf("toys: discard object %d: %w", obj.ID(), err)
	}
	return nil
}
