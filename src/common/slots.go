package common

import (
	"fmt"
	"sort"
	"time"

	"rsv/src/config"
	"rsv/src/models"
	"rsv/src/types"
)

// Window is a half-open [Start, End) instant interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses strict inequalities so windows that merely touch do not
// count as overlapping.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// DayWindow is the full venue-local day for a YYYY-MM-DD date.
func DayWindow(date string, loc *time.Location) (Window, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: d, End: d.AddDate(0, 0, 1)}, nil
}

// TimeOnDate resolves an HH:MM wall-clock time on a date to an instant.
func TimeOnDate(date string, hhmm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(config.DATE_FORMAT+" "+config.TIME_FORMAT, fmt.Sprintf("%s %s", date, hhmm), loc)
}

// RangeWindow resolves an HH:MM wall-clock range on a date to instants.
func RangeWindow(date string, r types.TimeRange, loc *time.Location) (Window, error) {
	start, err := TimeOnDate(date, r.Start, loc)
	if err != nil {
		return Window{}, err
	}
	end, err := TimeOnDate(date, r.End, loc)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// EventWindow is the instant window a private event occupies. Full-day
// events expand to cover every venue-local day they touch.
func EventWindow(ev models.PrivateEvent, loc *time.Location) Window {
	start := ev.StartTime.In(loc)
	end := ev.EndTime.In(loc)
	if ev.FullDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
		end = e.AddDate(0, 0, 1)
	}
	return Window{Start: start, End: end}
}

// GenerateStartTimes lays a fixed-interval grid over the open ranges and
// keeps every start whose full reservation window still fits inside its
// range. Result is sorted HH:MM strings.
func GenerateStartTimes(date string, open types.TimeRanges, interval, duration time.Duration, loc *time.Location) ([]string, error) {
	slots := make([]string, 0)
	for _, r := range open {
		w, err := RangeWindow(date, r, loc)
		if err != nil {
			return nil, err
		}
		for t := w.Start; !t.Add(duration).After(w.End); t = t.Add(interval) {
			slots = append(slots, t.Format(config.TIME_FORMAT))
		}
	}
	sort.Strings(slots)
	return slots, nil
}

// SubtractWindows drops every candidate whose reservation window intersects
// one of the blocked windows.
func SubtractWindows(times []string, date string, duration time.Duration, blocked []Window, loc *time.Location) ([]string, error) {
	kept := make([]string, 0, len(times))
	for _, t := range times {
		start, err := TimeOnDate(date, t, loc)
		if err != nil {
			return nil, err
		}
		slot := Window{Start: start, End: start.Add(duration)}
		hit := false
		for _, b := range blocked {
			if slot.Overlaps(b) {
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

// TimesWithCapacity keeps the candidates for which at least one table large
// enough for the party is free for the whole reservation window. Canceled
// reservations and reservations without a table do not occupy seats.
func TimesWithCapacity(times []string, date string, partySize uint, tables []models.Table, reservations []models.Reservation, loc *time.Location) ([]string, error) {
	duration := ReservationDuration(partySize)
	kept := make([]string, 0, len(times))
	for _, t := range times {
		start, err := TimeOnDate(date, t, loc)
		if err != nil {
			return nil, err
		}
		slot := Window{Start: start, End: start.Add(duration)}
		if tableFree(slot, partySize, tables, reservations) {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

func tableFree(slot Window, partySize uint, tables []models.Table, reservations []models.Reservation) bool {
	for _, table := range tables {
		if table.Seats < partySize {
			continue
		}
		busy := false
		for _, res := range reservations {
			if res.TableID == nil || *res.TableID != table.ID {
				continue
			}
			if res.Status == string(types.RESERVATION_CANCELED) {
				continue
			}
			if slot.Overlaps(Window{Start: res.StartTime, End: res.EndTime}) {
				busy = true
				break
			}
		}
		if !busy {
			return true
		}
	}
	return false
}

// ReconcileSelectedTime keeps a time selection coherent with a refreshed
// slot list: an absent selection moves to the first available slot, or
// clears when the list is empty. The selection is never left pointing at a
// value absent from the list.
func ReconcileSelectedTime(selected string, slots []string) string {
	for _, s := range slots {
		if s == selected {
			return selected
		}
	}
	if len(slots) > 0 {
		return slots[0]
	}
	return ""
}

// AlternativeTimes picks the nearest available slots before and after a
// requested time, for the 409 conflict payload. HH:MM strings compare
// correctly as strings.
func AlternativeTimes(requested string, slots []string) types.AlternativeTimes {
	alt := types.AlternativeTimes{}
	for _, s := range slots {
		if s < requested {
			alt.Before = s
		}
		if s > requested {
			alt.After = s
			break
		}
	}
	return alt
}
