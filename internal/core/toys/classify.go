package toys

// CloneSuffixLen is the length of the "(Clone)" suffix the engine appends to
// every instantiated prefab name.
const CloneSuffixLen = len("(Clone)")

const (
	SportPrefab  = "sportTargetPrefab"
	ClassDPrefab = "dboyTargetPrefab"
	BinaryPrefab = "binaryTargetPrefab"
)

var prefabTypes = map[string]TargetType{
	SportPrefab:  TargetSport,
	ClassDPrefab: TargetClassD,
	BinaryPrefab: TargetBinary,
}

// Classify maps an instance name such as "dboyTargetPrefab(Clone)" to its
// TargetType. Names too short to carry the suffix, or with an unknown prefix,
// are TargetUnknown.
func Classify(name string) TargetType {
	if len(name) < CloneSuffixLen {
		return TargetUnknown
	}
	if t, ok := prefabTypes[name[:len(name)-CloneSuffixLen]]; ok {
		return t
	}
	return TargetUnknown
}

// PrefabName returns the prefab instantiated for t. Sport is the default for
// every type without a dedicated prefab, Unknown included.
func PrefabName(t TargetType) string {
	switch t {
	case TargetClassD:
		return ClassDPrefab
	case TargetBinary:
		return BinaryPrefab
	default:
		return SportPrefab
	}
}
