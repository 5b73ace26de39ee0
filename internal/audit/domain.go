package audit

import "time"

// Entry is one persisted audit record: who did what to which entity, when.
type Entry struct {
	ID       int64
	ActorID  int64
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// Filters narrows a timeline query. Zero values mean "no restriction".
type Filters struct {
	From     time.Time
	To       time.Time
	ActorID  int64
	Entity   string
	Action   string
	Page     int
	PageSize int
}
