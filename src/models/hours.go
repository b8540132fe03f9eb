package models

import "rsv/src/types"

// VenueHour is one enabled weekday of the base weekly hours. Disabled
// weekdays have no row; saving the weekly schedule replaces every row
// (delete-then-insert, never incremental).
type VenueHour struct {
	ID      uint             `gorm:"primarykey" json:"id"`
	Weekday int              `gorm:"uniqueIndex" json:"weekday"`
	Ranges  types.TimeRanges `gorm:"type:jsonb" json:"ranges"`

	types.Timestamps
}

// ExceptionalOpen is a date outside base hours explicitly opened. A date must
// never simultaneously be an ExceptionalClosure; the write transactions
// enforce that.
type ExceptionalOpen struct {
	ID     uint             `gorm:"primarykey" json:"id"`
	Date   string           `gorm:"type:date;uniqueIndex" json:"date"`
	Ranges types.TimeRanges `gorm:"type:jsonb" json:"ranges"`
	Label  string           `json:"label,omitempty"`

	types.Timestamps
}

type ExceptionalClosure struct {
	ID      uint             `gorm:"primarykey" json:"id"`
	Date    string           `gorm:"type:date;uniqueIndex" json:"date"`
	Reason  string           `json:"reason,omitempty"`
	FullDay bool             `json:"full_day,omitempty"`
	Ranges  types.TimeRanges `gorm:"type:jsonb" json:"ranges,omitempty"`

	types.Timestamps
}
