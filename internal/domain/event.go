package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind classifies simulation events
type EventKind string

const (
	EventNewYear            EventKind = "new_year"
	EventNewMonth           EventKind = "new_month"
	EventBirthday           EventKind = "birthday"
	EventMilestone          EventKind = "milestone"
	EventJobPay             EventKind = "job_pay"
	EventSpending           EventKind = "spending"
	EventShortfall          EventKind = "shortfall"
	EventRMD                EventKind = "rmd"
	EventTaxSettlement      EventKind = "tax_settlement"
	EventContributionCapped EventKind = "contribution_capped"
)

// Event is a notable occurrence during a simulation run
type Event struct {
	ID      uuid.UUID       `json:"id"`
	Kind    EventKind       `json:"kind"`
	Date    time.Time       `json:"date"`
	Account string          `json:"account,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message,omitempty"`
}

// EventOption configures an Event
type EventOption func(*Event)

// WithAccount names the account an event concerns
func WithAccount(name string) EventOption {
	return func(e *Event) {
		e.Account = name
	}
}

// WithAmount attaches a money amount
func WithAmount(amount decimal.Decimal) EventOption {
	return func(e *Event) {
		e.Amount = amount
	}
}

// WithMessage attaches a formatted description
func WithMessage(format string, args ...any) EventOption {
	return func(e *Event) {
		e.Message = fmt.Sprintf(format, args...)
	}
}

// NewEvent creates an event with a fresh identifier
func NewEvent(kind EventKind, date time.Time, opts ...EventOption) Event {
	e := Event{
		ID:   uuid.New(),
		Kind: kind,
		Date: date,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
