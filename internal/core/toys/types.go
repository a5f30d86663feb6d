package toys

import (
	"fmt"
	"strings"
)

// NativeID is the engine-assigned identity of a native object. Two distinct
// objects never share an id for the lifetime of a scene.
type NativeID uint64

// ToyKind names the admin toy family a facade belongs to.
type ToyKind uint8

const (
	KindUnknown ToyKind = iota
	KindShootingTarget
)

func (k ToyKind) String() string {
	switch k {
	case KindShootingTarget:
		return "ShootingTarget"
	default:
		return "Unknown"
	}
}

// TargetType is the semantic subtype of a shooting target.
type TargetType uint8

const (
	TargetUnknown TargetType = iota
	TargetSport
	TargetClassD
	TargetBinary
)

func (t TargetType) String() string {
	switch t {
	case TargetSport:
		return "Sport"
	case TargetClassD:
		return "ClassD"
	case TargetBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// ParseTargetType is the inverse of String, case-insensitive.
func ParseTargetType(s string) (TargetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sport":
		return TargetSport, nil
	case "classd", "class_d", "dboy":
		return TargetClassD, nil
	case "binary":
		return TargetBinary, nil
	case "unknown":
		return TargetUnknown, nil
	default:
		return TargetUnknown, fmt.Errorf("%w: %q", ErrUnknownTargetType, s)
	}
}

func (t TargetType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TargetType) UnmarshalText(text []byte) error {
	parsed, err := ParseTargetType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
