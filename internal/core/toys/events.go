package toys

// EventToyDestroyed is published by the engine when a native object is
// destroyed. Its payload is a DestroyedEvent.
const EventToyDestroyed = "toy.destroyed"

type DestroyedEvent struct {
	ID    NativeID `json:"id"`
	NetID string   `json:"net_id,omitempty"`
	Name  string   `json:"name"`
}
