package events

import (
	"time"

	"github.com/google/uuid"
)

// SourceBackend is the EventBridge source of every event emitted here
const SourceBackend = "vector.pai.operaciones"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Operation is the kind of write that produced an event
type Operation string

const (
	OperationCreated Operation = "created"
	OperationUpdated Operation = "updated"
	OperationDeleted Operation = "deleted"
)

// EntityChanged is raised after a successful create, update or delete.
// Item holds the new image, or the prior image for deletes.
type EntityChanged struct {
	BaseEvent
	Entity    string      `json:"entity"`
	Operation Operation   `json:"operation"`
	Actor     string      `json:"actor,omitempty"`
	Item      interface{} `json:"item,omitempty"`
}

// NewEntityChanged creates an EntityChanged event; its type is "<entity>.<operation>"
func NewEntityChanged(entity string, op Operation, key string, actor string, item interface{}, timestamp time.Time) EntityChanged {
	return EntityChanged{
		BaseEvent: BaseEvent{
			EventID:     uuid.NewString(),
			AggregateID: key,
			EventType:   entity + "." + string(op),
			Timestamp:   timestamp,
		},
		Entity:    entity,
		Operation: op,
		Actor:     actor,
		Item:      item,
	}
}
