package reconcile

// EventType classifies an Event.
type EventType int

// Event types emitted while rows are processed.
const (
	EventEntityCreated EventType = iota
	EventMilestoneUpdated
	EventRecordLinked
	EventRowCompleted
	EventRowSkipped
	EventWarning
)

var eventTypeNames = [...]string{
	EventEntityCreated:    "entity_created",
	EventMilestoneUpdated: "milestone_updated",
	EventRecordLinked:     "record_linked",
	EventRowCompleted:     "row_completed",
	EventRowSkipped:       "row_skipped",
	EventWarning:          "warning",
}

// String returns the event type name.
func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return "unknown"
	}
	return eventTypeNames[t]
}

// Entity kinds carried in events.
const (
	KindAccount   = "account"
	KindWorkspace = "workspace"
	KindMilestone = "milestone"
	KindClient    = "client"
	KindOrder     = "order"
	KindDrop      = "drop"
	KindUser      = "user"
	KindRole      = "role"
)

// Event reports something the engine did or noticed.
type Event struct {
	Type EventType
	Row  int
	// Kind is the entity kind the event is about.
	Kind string
	// ID is the Edge handle or FatTail id involved.
	ID  string
	Err error
}

// Observer receives engine events. It is called synchronously.
type Observer func(Event)
