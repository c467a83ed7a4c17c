package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published by the API and consumed by the worker. Messages are
// lightweight: they carry the entity id and the worker re-reads the record.
const (
	EventPaymentRecorded = "payment_recorded"
	EventFundsChanged    = "funds_changed"
)

// EntityEvent signals that a debt or goal changed and its alerts should be
// re-evaluated.
type EntityEvent struct {
	Kind      string    `json:"kind"`
	EntityID  int64     `json:"entityId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentRecorded(debtID int64) *EntityEvent {
	return &EntityEvent{Kind: EventPaymentRecorded, EntityID: debtID, Timestamp: time.Now()}
}

func NewFundsChanged(goalID int64) *EntityEvent {
	return &EntityEvent{Kind: EventFundsChanged, EntityID: goalID, Timestamp: time.Now()}
}

func (m *EntityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntityEventFromJSON(data []byte) (*EntityEvent, error) {
	var msg EntityEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
