package models

import (
	"rsv/src/types"
	"time"
)

type Reservation struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	PartySize uint   `json:"party_size,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Notes     string `json:"notes,omitempty"`
	// Null for private-event attendees seated in the synthetic lane.
	TableID        *uint     `json:"table_id,omitempty"`
	MemberID       *uint     `json:"member_id,omitempty"`
	PrivateEventID *uint     `json:"private_event_id,omitempty"`
	StartTime      time.Time `json:"start_time,omitempty"`
	EndTime        time.Time `json:"end_time,omitempty"`
	Status         string    `gorm:"default:'confirmed'" json:"status,omitempty"`
	CheckedIn      bool      `json:"checked_in,omitempty"`
	Source         string    `gorm:"default:'manual'" json:"source,omitempty"`

	HoldStatus      string  `gorm:"default:'none'" json:"hold_status,omitempty"`
	PaymentIntentId *string `json:"payment_intent_id,omitempty"`

	Table        *Table        `gorm:"foreignKey:table_id" json:"table,omitempty"`
	Member       *Member       `gorm:"foreignKey:member_id" json:"member,omitempty"`
	PrivateEvent *PrivateEvent `gorm:"foreignKey:private_event_id" json:"private_event,omitempty"`

	types.Timestamps
}
