package models

import (
	"rsv/src/types"
	"time"
)

// PrivateEvent blocks ordinary reservations for all or part of a day while
// active. Attendee reservations reference it instead of a table.
type PrivateEvent struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	Title                 string    `json:"title,omitempty"`
	EventType             string    `json:"event_type,omitempty"`
	StartTime             time.Time `json:"start_time,omitempty"`
	EndTime               time.Time `json:"end_time,omitempty"`
	FullDay               bool      `json:"full_day,omitempty"`
	MaxGuests             uint      `json:"max_guests,omitempty"`
	TotalAttendeesMaximum uint      `json:"total_attendees_maximum,omitempty"`
	DepositRequired       bool      `json:"deposit_required,omitempty"`
	RSVPEnabled           bool      `json:"rsvp_enabled,omitempty"`
	// When set, attendees pick their own arrival time instead of inheriting
	// the event window.
	RequiresTimeSelection bool   `json:"requires_time_selection,omitempty"`
	Status                string `gorm:"default:'active'" json:"status,omitempty"`

	Reservations []*Reservation `json:"reservations,omitempty"`

	types.Timestamps
}
