package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rsv/src/models"
	"rsv/src/types"
)

// PrivateEventsLane is the synthetic resource row that collects attendee
// reservations with no table assignment.
const PrivateEventsLane = "private-events"

type CalendarResource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Seats uint   `json:"seats,omitempty"`
}

type CalendarEvent struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	Title      string    `json:"title,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Editable   bool      `json:"editable"`
	// Background events render behind ordinary slots and absorb no gestures.
	Background     bool `json:"background,omitempty"`
	ReservationID  uint `json:"reservation_id,omitempty"`
	PrivateEventID uint `json:"private_event_id,omitempty"`
}

func ReservationEventID(id uint) string {
	return fmt.Sprintf("res:%d", id)
}

func BlockingEventID(eventID uint, resourceID string) string {
	return fmt.Sprintf("blocked:%d:%s", eventID, resourceID)
}

// IsBlockingEventID identifies synthetic private-event venue holds. Gestures
// addressed at these are rejected before any persistence work happens.
func IsBlockingEventID(id string) bool {
	return strings.HasPrefix(id, "blocked:")
}

func ParseReservationEventID(id string) (uint, bool) {
	s, ok := strings.CutPrefix(id, "res:")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func TableResourceID(id uint) string {
	return fmt.Sprintf("table:%d", id)
}

// BuildCalendarResources maps tables onto resource rows, appending the
// private-events lane when an active private event touches the day.
func BuildCalendarResources(tables []models.Table, withLane bool) []CalendarResource {
	resources := make([]CalendarResource, 0, len(tables)+1)
	for _, t := range tables {
		resources = append(resources, CalendarResource{
			ID:    TableResourceID(t.ID),
			Title: fmt.Sprintf("Table %s", t.TableNumber),
			Seats: t.Seats,
		})
	}
	if withLane {
		resources = append(resources, CalendarResource{ID: PrivateEventsLane, Title: "Private events"})
	}
	return resources
}

// BuildCalendarEvents maps reservations and active private events for one
// displayed date onto calendar events. Attendee reservations without a table
// route to the private-events lane using the event's window, unless the
// event requires individual time selection; everything else lands on its
// table with its own times. Each active private event overlapping the day
// additionally synthesizes one background blocking event per table so
// ordinary slots cannot be interacted with underneath it.
func BuildCalendarEvents(date string, loc *time.Location, reservations []models.Reservation, events []models.PrivateEvent, tables []models.Table) ([]CalendarEvent, error) {
	day, err := DayWindow(date, loc)
	if err != nil {
		return nil, err
	}

	eventsById := make(map[uint]models.PrivateEvent, len(events))
	for _, ev := range events {
		eventsById[ev.ID] = ev
	}

	out := make([]CalendarEvent, 0, len(reservations))
	for _, res := range reservations {
		if res.Status == string(types.RESERVATION_CANCELED) {
			continue
		}
		ce := CalendarEvent{
			ID:            ReservationEventID(res.ID),
			Title:         strings.TrimSpace(fmt.Sprintf("%s %s", res.FirstName, res.LastName)),
			Start:         res.StartTime,
			End:           res.EndTime,
			Editable:      true,
			ReservationID: res.ID,
		}
		if res.TableID == nil && res.PrivateEventID != nil {
			ce.ResourceID = PrivateEventsLane
			ce.PrivateEventID = *res.PrivateEventID
			if ev, ok := eventsById[*res.PrivateEventID]; ok && !ev.RequiresTimeSelection {
				w := EventWindow(ev, loc)
				ce.Start = w.Start
				ce.End = w.End
			}
		} else if res.TableID != nil {
			ce.ResourceID = TableResourceID(*res.TableID)
		} else {
			// No table and no private event: unassigned walk-in, skip.
			continue
		}
		if !(Window{Start: ce.Start, End: ce.End}).Overlaps(day) {
			continue
		}
		out = append(out, ce)
	}

	for _, ev := range events {
		if ev.Status != string(types.PRIVATE_EVENT_ACTIVE) {
			continue
		}
		w := EventWindow(ev, loc)
		if !w.Overlaps(day) {
			continue
		}
		for _, t := range tables {
			out = append(out, CalendarEvent{
				ID:             BlockingEventID(ev.ID, TableResourceID(t.ID)),
				ResourceID:     TableResourceID(t.ID),
				Title:          ev.Title,
				Start:          w.Start,
				End:            w.End,
				Editable:       false,
				Background:     true,
				PrivateEventID: ev.ID,
			})
		}
	}
	return out, nil
}

// HasActiveEventOn reports whether any active private event overlaps the
// venue-local date.
func HasActiveEventOn(date string, events []models.PrivateEvent, loc *time.Location) (bool, error) {
	day, err := DayWindow(date, loc)
	if err != nil {
		return false, err
	}
	for _, ev := range events {
		if ev.Status != string(types.PRIVATE_EVENT_ACTIVE) {
			continue
		}
		if EventWindow(ev, loc).Overlaps(day) {
			return true, nil
		}
	}
	return false, nil
}
