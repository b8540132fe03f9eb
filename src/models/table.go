package models

import "rsv/src/types"

// Table is a calendar resource.
type Table struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	TableNumber string `gorm:"uniqueIndex" json:"table_number"`
	Seats       uint   `json:"seats"`

	types.Timestamps
}
