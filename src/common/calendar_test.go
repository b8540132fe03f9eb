package common

import (
	"testing"
	"time"

	"rsv/src/models"
	"rsv/src/types"

	"github.com/stretchr/testify/assert"
)

func localTime(t *testing.T, loc *time.Location, date, hhmm string) time.Time {
	t.Helper()
	ts, err := TimeOnDate(date, hhmm, loc)
	if err != nil {
		t.Fatalf("bad time %s %s: %s", date, hhmm, err.Error())
	}
	return ts
}

func eventsByID(events []CalendarEvent) map[string]CalendarEvent {
	m := make(map[string]CalendarEvent, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return m
}

func TestBuildCalendarEventsMapping(t *testing.T) {
	loc := venueLoc(t)
	tables := []models.Table{
		{ID: 1, TableNumber: "1", Seats: 2},
		{ID: 2, TableNumber: "2", Seats: 4},
	}
	tableOne := uint(1)
	gala := models.PrivateEvent{
		ID:        7,
		Title:     "Summer Gala",
		Status:    string(types.PRIVATE_EVENT_ACTIVE),
		StartTime: localTime(t, loc, "2024-07-05", "18:00"),
		EndTime:   localTime(t, loc, "2024-07-05", "22:00"),
	}
	galaID := gala.ID

	reservations := []models.Reservation{
		{
			ID: 100, FirstName: "Ada", LastName: "Byron", TableID: &tableOne,
			Status:    "confirmed",
			StartTime: localTime(t, loc, "2024-07-05", "17:00"),
			EndTime:   localTime(t, loc, "2024-07-05", "18:30"),
		},
		{
			ID: 101, FirstName: "Grace", LastName: "Hopper", PrivateEventID: &galaID,
			Status:    "confirmed",
			StartTime: localTime(t, loc, "2024-07-05", "19:00"),
			EndTime:   localTime(t, loc, "2024-07-05", "20:30"),
		},
		{
			ID: 102, FirstName: "Nix", Status: string(types.RESERVATION_CANCELED), TableID: &tableOne,
			StartTime: localTime(t, loc, "2024-07-05", "19:00"),
			EndTime:   localTime(t, loc, "2024-07-05", "20:30"),
		},
	}

	events, err := BuildCalendarEvents("2024-07-05", loc, reservations, []models.PrivateEvent{gala}, tables)
	assert.Nil(t, err)
	byID := eventsByID(events)

	// Ordinary reservation lands on its table with its own times.
	tableEvent, ok := byID["res:100"]
	assert.True(t, ok)
	assert.Equal(t, "table:1", tableEvent.ResourceID)
	assert.Equal(t, "Ada Byron", tableEvent.Title)
	assert.True(t, tableEvent.Editable)
	assert.Equal(t, reservations[0].StartTime, tableEvent.Start)

	// The attendee reservation routes to the synthetic lane and inherits
	// the event window.
	laneEvent, ok := byID["res:101"]
	assert.True(t, ok)
	assert.Equal(t, PrivateEventsLane, laneEvent.ResourceID)
	assert.Equal(t, gala.StartTime, laneEvent.Start)
	assert.Equal(t, gala.EndTime, laneEvent.End)

	// Canceled reservations never render.
	_, ok = byID["res:102"]
	assert.False(t, ok)

	// One background hold per table for the active event.
	for _, table := range tables {
		blocking, ok := byID[BlockingEventID(gala.ID, TableResourceID(table.ID))]
		assert.True(t, ok, "missing blocking event for table %d", table.ID)
		assert.True(t, blocking.Background)
		assert.False(t, blocking.Editable)
		assert.Equal(t, gala.StartTime, blocking.Start)
		assert.Equal(t, gala.EndTime, blocking.End)
	}
}

func TestBuildCalendarEventsTimeSelectionEvent(t *testing.T) {
	loc := venueLoc(t)
	supper := models.PrivateEvent{
		ID:                    8,
		Title:                 "Wine Dinner",
		Status:                string(types.PRIVATE_EVENT_ACTIVE),
		RequiresTimeSelection: true,
		StartTime:             localTime(t, loc, "2024-07-05", "17:00"),
		EndTime:               localTime(t, loc, "2024-07-05", "23:00"),
	}
	supperID := supper.ID
	res := models.Reservation{
		ID: 200, FirstName: "Jean", PrivateEventID: &supperID,
		Status:    "confirmed",
		StartTime: localTime(t, loc, "2024-07-05", "19:30"),
		EndTime:   localTime(t, loc, "2024-07-05", "21:00"),
	}

	events, err := BuildCalendarEvents("2024-07-05", loc, []models.Reservation{res}, []models.PrivateEvent{supper}, nil)
	assert.Nil(t, err)
	byID := eventsByID(events)

	// Attendees of a time-selection event keep their own arrival times.
	laneEvent, ok := byID["res:200"]
	assert.True(t, ok)
	assert.Equal(t, PrivateEventsLane, laneEvent.ResourceID)
	assert.Equal(t, res.StartTime, laneEvent.Start)
	assert.Equal(t, res.EndTime, laneEvent.End)
}

func TestBuildCalendarEventsIgnoresInactiveAndOffDayEvents(t *testing.T) {
	loc := venueLoc(t)
	tables := []models.Table{{ID: 1, TableNumber: "1", Seats: 2}}
	canceled := models.PrivateEvent{
		ID:        9,
		Status:    string(types.PRIVATE_EVENT_CANCELED),
		StartTime: localTime(t, loc, "2024-07-05", "18:00"),
		EndTime:   localTime(t, loc, "2024-07-05", "22:00"),
	}
	nextWeek := models.PrivateEvent{
		ID:        10,
		Status:    string(types.PRIVATE_EVENT_ACTIVE),
		StartTime: localTime(t, loc, "2024-07-12", "18:00"),
		EndTime:   localTime(t, loc, "2024-07-12", "22:00"),
	}

	events, err := BuildCalendarEvents("2024-07-05", loc, nil, []models.PrivateEvent{canceled, nextWeek}, tables)
	assert.Nil(t, err)
	assert.Empty(t, events)

	has, err := HasActiveEventOn("2024-07-05", []models.PrivateEvent{canceled, nextWeek}, loc)
	assert.Nil(t, err)
	assert.False(t, has)
	has, err = HasActiveEventOn("2024-07-12", []models.PrivateEvent{nextWeek}, loc)
	assert.Nil(t, err)
	assert.True(t, has)
}

func TestFullDayEventWindowCoversWholeDay(t *testing.T) {
	loc := venueLoc(t)
	buyout := models.PrivateEvent{
		ID:        11,
		Status:    string(types.PRIVATE_EVENT_ACTIVE),
		FullDay:   true,
		StartTime: localTime(t, loc, "2024-07-05", "15:00"),
		EndTime:   localTime(t, loc, "2024-07-05", "23:00"),
	}
	w := EventWindow(buyout, loc)
	day, err := DayWindow("2024-07-05", loc)
	assert.Nil(t, err)
	assert.Equal(t, day.Start, w.Start)
	assert.Equal(t, day.End, w.End)
}

func TestBlockingEventIdentifiers(t *testing.T) {
	id := BlockingEventID(7, TableResourceID(3))
	assert.True(t, IsBlockingEventID(id))
	assert.False(t, IsBlockingEventID(ReservationEventID(7)))

	resID, ok := ParseReservationEventID("res:42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), resID)
	_, ok = ParseReservationEventID(id)
	assert.False(t, ok)
	_, ok = ParseReservationEventID("res:abc")
	assert.False(t, ok)
}
