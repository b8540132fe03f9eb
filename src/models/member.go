package models

import (
	"rsv/src/types"
	"time"
)

type Member struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	Email      string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Role       string     `gorm:"default:'member'" json:"role,omitempty"`
	LastActive *time.Time `json:"last_active,omitempty"`

	StripeCustomerId *string `json:"-"`

	Reservations []*Reservation `json:"reservations,omitempty"`

	types.Timestamps
}
