package scene

import (
	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/toys"
)

var _ toys.NativeObject = (*Object)(nil)

// Object is a plain scene object with a transform.
type Object struct {
	id     toys.NativeID
	name   string
	prefab Prefab
	scene  *Scene

	position mathx.Vector3
	rotation mathx.Vector3
	scale    mathx.Vector3

	destroyed bool
	spawned   bool
	netID     string
}

func newObject(s *Scene, id toys.NativeID, prefab Prefab) *Object {
	return &Object{
		id:     id,
		name:   prefab.Name + "(Clone)",
		prefab: prefab,
		scene:  s,
		scale:  mathx.One,
	}
}

func (o *Object) core() *Object { return o }

func (o *Object) ID() toys.NativeID { return o.id }
func (o *Object) Name() string      { return o.name }
func (o *Object) IsValid() bool     { return !o.destroyed }

// NetID is empty until the object is first spawned.
func (o *Object) NetID() string { return o.netID }

func (o *Object) Position() mathx.Vector3        { return o.position }
func (o *Object) SetPosition(v mathx.Vector3)    { o.position = v }
func (o *Object) EulerAngles() mathx.Vector3     { return o.rotation }
func (o *Object) SetEulerAngles(v mathx.Vector3) { o.rotation = v }
func (o *Object) LocalScale() mathx.Vector3      { return o.scale }
func (o *Object) SetLocalScale(v mathx.Vector3)  { o.scale = v }
