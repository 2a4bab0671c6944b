package game

// EventKind identifies a discrete simulation fact emitted during a step.
type EventKind string

const (
	EventBounce      EventKind = "bounce"      // marble bounced off a ring band
	EventClash       EventKind = "clash"       // marble hit the other marble
	EventBreak       EventKind = "break"       // marble slipped a gap, ring took damage
	EventShatter     EventKind = "shatter"     // ring hit points reached zero
	EventElimination EventKind = "elimination" // marble left the playable bounds
	EventRoundEnd    EventKind = "round_end"   // round outcome finalized
	EventTimeout     EventKind = "timeout"     // step budget exhausted, round drawn
)

// TriggerEvent is an instantaneous simulation fact. Consumed once by the
// effects layer and recorded in the round's event log; never fed back into
// the simulation.
type TriggerEvent struct {
	Step  int       `json:"step"`
	Kind  EventKind `json:"kind"`
	Rival string    `json:"rival,omitempty"`
	Ring  int       `json:"ring,omitempty"`
	Speed float64   `json:"speed,omitempty"`
}
