package toys

import "github.com/zeusync/toyfacade/internal/core/mathx"

// Toy is any admin toy facade known to a Registry.
type Toy interface {
	ID() NativeID
	Kind() ToyKind
	IsValid() bool
}

var _ Toy = (*AdminToy)(nil)

// AdminToy carries the placement and lifecycle surface shared by every toy
// kind. It never owns the native object.
type AdminToy struct {
	id     NativeID
	kind   ToyKind
	native NativeObject
	engine Engine
}

func newAdminToy(engine Engine, native NativeObject, kind ToyKind) AdminToy {
	return AdminToy{
		id:     native.ID(),
		kind:   kind,
		native: native,
		engine: engine,
	}
}

func (t *AdminToy) ID() NativeID  { return t.id }
func (t *AdminToy) Kind() ToyKind { return t.kind }

// IsValid reports whether the native object still exists.
func (t *AdminToy) IsValid() bool {
	return t.native != nil && t.native.IsValid()
}

func (t *AdminToy) alive() error {
	if !t.IsValid() {
		return staleError(t.id)
	}
	return nil
}

// Name is the native object's instance name.
func (t *AdminToy) Name() (string, error) {
	if err := t.alive(); err != nil {
		return "", err
	}
	return t.native.Name(), nil
}

func (t *AdminToy) Position() (mathx.Vector3, error) {
	if err := t.alive(); err != nil {
		return mathx.Zero, err
	}
	return t.native.Position(), nil
}

func (t *AdminToy) SetPosition(v mathx.Vector3) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.native.SetPosition(v)
	return nil
}

// Rotation returns euler angles in degrees.
func (t *AdminToy) Rotation() (mathx.Vector3, error) {
	if err := t.alive(); err != nil {
		return mathx.Zero, err
	}
	return t.native.EulerAngles(), nil
}

func (t *AdminToy) SetRotation(euler mathx.Vector3) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.native.SetEulerAngles(euler)
	return nil
}

func (t *AdminToy) Scale() (mathx.Vector3, error) {
	if err := t.alive(); err != nil {
		return mathx.Zero, err
	}
	return t.native.LocalScale(), nil
}

func (t *AdminToy) SetScale(v mathx.Vector3) error {
	if err := t.alive(); err != nil {
		return err
	}
	t.native.SetLocalScale(v)
	return nil
}

// Spawn makes the toy visible and replicated to clients.
func (t *AdminToy) Spawn() error {
	if err := t.alive(); err != nil {
		return err
	}
	return t.engine.Spawn(t.native)
}

// UnSpawn hides the toy from clients without destroying it.
func (t *AdminToy) UnSpawn() error {
	if err := t.alive(); err != nil {
		return err
	}
	return t.engine.UnSpawn(t.native)
}

func (t *AdminToy) IsSpawned() (bool, error) {
	if err := t.alive(); err != nil {
		return false, err
	}
	return t.engine.IsSpawned(t.native), nil
}

// Destroy removes the native object from the scene. The facade is stale
// afterwards.
func (t *AdminToy) Destroy() error {
	if err := t.alive(); err != nil {
		return err
	}
	return t.engine.Destroy(t.native)
}
