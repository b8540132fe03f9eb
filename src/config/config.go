package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

var API_ENV = os.Getenv("API_ENV")

const (
	// Persisted calendar dates are always exchanged as YYYY-MM-DD strings in
	// the venue's timezone, never as raw UTC instants.
	DATE_FORMAT = "2006-01-02"
	TIME_FORMAT = "15:04"

	TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

	// Default venue timezone, overridable through the venue_timezone setting.
	DEFAULT_TIMEZONE = "America/New_York"

	// Slot grid step for available-times computation.
	SLOT_INTERVAL_MINUTES = 30

	// Look-ahead bounds for the first-bookable-date scan.
	MAX_SCAN_DAYS       = 365
	QUICK_SCAN_DAYS     = 30
	DEFAULT_WINDOW_DAYS = 90
)
