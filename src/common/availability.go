package common

import (
	"errors"
	"time"

	"rsv/src/config"
)

// AvailabilityRules is the in-memory view of the availability store for one
// booking window: base weekly hours plus date-keyed exceptions. All date keys
// are YYYY-MM-DD strings in the venue timezone. Comparing formatted local
// dates instead of raw UTC instants keeps day boundaries from shifting at
// timezone edges.
type AvailabilityRules struct {
	BaseOpenWeekdays map[time.Weekday]bool
	ExceptionalOpens map[string]bool
	// Only closures marked full-day; partial closures are handled at the
	// slot level, not the date level.
	FullDayClosures     map[string]bool
	PrivateEventBlocked map[string]bool
}

// ErrRulesNotLoaded signals that the rule sets have not been populated yet.
// Callers defer evaluation instead of treating every day as closed.
var ErrRulesNotLoaded = errors.New("availability rules not loaded")

func (r AvailabilityRules) Loaded() bool {
	return len(r.BaseOpenWeekdays) > 0 || len(r.ExceptionalOpens) > 0
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(config.DATE_FORMAT, date, loc)
}

// IsDateBookable reports whether ordinary reservations may be taken on the
// given date: the date is an exceptional open or falls on a base open
// weekday, and is neither fully closed nor blocked by a private event.
func IsDateBookable(date string, r AvailabilityRules, loc *time.Location) (bool, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return false, err
	}
	isException := r.ExceptionalOpens[date]
	isBase := r.BaseOpenWeekdays[d.Weekday()]
	isClosed := r.FullDayClosures[date]
	isBlocked := r.PrivateEventBlocked[date]
	return (isException || isBase) && !isClosed && !isBlocked, nil
}

// FirstBookableDate scans forward day by day from start and returns the
// first bookable date. When nothing is found within maxDays it returns start
// unchanged with found=false; that is a caller-visible warning condition,
// not an error.
func FirstBookableDate(start string, r AvailabilityRules, loc *time.Location, maxDays int) (string, bool, error) {
	if !r.Loaded() {
		return start, false, ErrRulesNotLoaded
	}
	d, err := ParseDate(start, loc)
	if err != nil {
		return start, false, err
	}
	for i := 0; i < maxDays; i++ {
		date := d.AddDate(0, 0, i).Format(config.DATE_FORMAT)
		ok, err := IsDateBookable(date, r, loc)
		if err != nil {
			return start, false, err
		}
		if ok {
			return date, true, nil
		}
	}
	return start, false, nil
}

// FirstOpenWeekday is the low-fidelity variant used before exceptional and
// private-event data has loaded. It consults base weekdays only and scans a
// short window so the form never shows "no dates available" during initial
// load. Replace its result with FirstBookableDate once the full rule sets
// arrive.
func FirstOpenWeekday(start string, weekdays map[time.Weekday]bool, loc *time.Location, maxDays int) (string, bool, error) {
	if len(weekdays) == 0 {
		return start, false, ErrRulesNotLoaded
	}
	d, err := ParseDate(start, loc)
	if err != nil {
		return start, false, err
	}
	for i := 0; i < maxDays; i++ {
		day := d.AddDate(0, 0, i)
		if weekdays[day.Weekday()] {
			return day.Format(config.DATE_FORMAT), true, nil
		}
	}
	return start, false, nil
}

// ReservationDuration is a fixed business rule: 90 minutes for parties of
// one or two, 120 minutes for larger parties.
func ReservationDuration(partySize uint) time.Duration {
	if partySize <= 2 {
		return 90 * time.Minute
	}
	return 120 * time.Minute
}

func ReservationEnd(start time.Time, partySize uint) time.Time {
	return start.Add(ReservationDuration(partySize))
}
