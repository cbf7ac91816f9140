package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusNegotiation EventStatus = "Negociación"
	StatusConfirmed   EventStatus = "Confirmado"
	StatusSetup       EventStatus = "Armado"
	StatusFinished    EventStatus = "Finalizado"
)

// EventStatuses lists every valid status, in display order.
var EventStatuses = []EventStatus{StatusNegotiation, StatusConfirmed, StatusSetup, StatusFinished}

func (s EventStatus) Valid() bool {
	for _, v := range EventStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DateRange is the scheduled window of an event. Start is the primary sort
// key for the table view and the threshold for the upcoming classification.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Event struct {
	ID          uuid.UUID   `json:"id"`
	Titulo      string      `json:"titulo"`
	Cliente     string      `json:"cliente"`
	Lugar       string      `json:"lugar"`
	Estado      EventStatus `json:"estado"`
	FechaEvento DateRange   `json:"fechaEvento"`
	CreatedBy   uuid.UUID   `json:"createdBy"`
	// UpdatedAt is assigned by the database on every write. A locally
	// constructed Event carries a stale or zero value until it has
	// round-tripped through the backend.
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventPatch holds the legally mutable fields of an Event. Nil means
// "leave unchanged". ID, CreatedBy and UpdatedAt are deliberately absent.
type EventPatch struct {
	Titulo      *string      `json:"titulo,omitempty"`
	Cliente     *string      `json:"cliente,omitempty"`
	Lugar       *string      `json:"lugar,omitempty"`
	Estado      *EventStatus `json:"estado,omitempty"`
	FechaEvento *DateRange   `json:"fechaEvento,omitempty"`
}

func (p EventPatch) Empty() bool {
	return p.Titulo == nil && p.Cliente == nil && p.Lugar == nil &&
		p.Estado == nil && p.FechaEvento == nil
}
