package mathx

import "math"

// Vector3 is a position, euler rotation (degrees) or scale in world space.
type Vector3 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	Z float32 `json:"z" yaml:"z"`
}

var (
	// Zero is the origin and the identity rotation.
	Zero = Vector3{}
	// One is the unit scale.
	One = Vector3{X: 1, Y: 1, Z: 1}
)

// Vec3 builds a Vector3.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Mul scales v component-wise by o.
func (v Vector3) Mul(o Vector3) Vector3 {
	return Vector3{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z}
}

func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Distance returns the euclidean distance between v and o.
func (v Vector3) Distance(o Vector3) float32 {
	return v.Sub(o).Length()
}

// MaxComponent returns the largest absolute component.
func (v Vector3) MaxComponent() float32 {
	m := float32(math.Abs(float64(v.X)))
	if y := float32(math.Abs(float64(v.Y))); y > m {
		m = y
	}
	if z := float32(math.Abs(float64(v.Z))); z > m {
		m = z
	}
	return m
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range [...]float32{v.X, v.Y, v.Z} {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
