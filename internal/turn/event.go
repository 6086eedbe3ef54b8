package turn

import "github.com/udisondev/tacgrid/internal/model"

// EventKind classifies manager notifications.
type EventKind int

const (
	EventSurfaceEnter EventKind = iota
	EventSurfaceLeave
	EventSurfaceMoved
	EventEntityMoved
	EventTrigger
	EventCombatStarted
	EventCombatEnded
)

func (k EventKind) String() string {
	switch k {
	case EventSurfaceEnter:
		return "surface_enter"
	case EventSurfaceLeave:
		return "surface_leave"
	case EventSurfaceMoved:
		return "surface_moved"
	case EventEntityMoved:
		return "entity_moved"
	case EventTrigger:
		return "trigger"
	case EventCombatStarted:
		return "combat_started"
	case EventCombatEnded:
		return "combat_ended"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to every listener.
type Event struct {
	Kind    EventKind
	Entity  model.EntityID
	Surface model.SurfaceID

	// Squares is the running in-surface distance for EventSurfaceMoved.
	Squares uint32

	// Trigger fields.
	AreaID   string
	Trigger  int
	Callback string
}

// Listener receives manager events.
type Listener func(Event)
