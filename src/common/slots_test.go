package common

import (
	"testing"
	"time"

	"rsv/src/models"
	"rsv/src/types"

	"github.com/stretchr/testify/assert"
)

func TestGenerateStartTimes(t *testing.T) {
	loc := venueLoc(t)
	open := types.TimeRanges{{Start: "17:00", End: "22:00"}}

	slots, err := GenerateStartTimes("2024-07-05", open, 30*time.Minute, 90*time.Minute, loc)
	assert.Nil(t, err)
	// Grid runs every 30 minutes; the last start still fitting a 90-minute
	// reservation before 22:00 is 20:30.
	assert.Equal(t, []string{"17:00", "17:30", "18:00", "18:30", "19:00", "19:30", "20:00", "20:30"}, slots)
}

func TestGenerateStartTimesSplitService(t *testing.T) {
	loc := venueLoc(t)
	open := types.TimeRanges{
		{Start: "18:00", End: "21:00"},
		{Start: "11:30", End: "14:00"},
	}
	slots, err := GenerateStartTimes("2024-07-05", open, 30*time.Minute, 120*time.Minute, loc)
	assert.Nil(t, err)
	assert.Equal(t, []string{"11:30", "12:00", "18:00", "18:30", "19:00"}, slots)
}

func TestSubtractWindowsPartialClosure(t *testing.T) {
	loc := venueLoc(t)
	times := []string{"17:00", "17:30", "18:00", "18:30", "19:00", "19:30", "20:00", "20:30"}
	closed, err := RangeWindow("2024-07-05", types.TimeRange{Start: "18:00", End: "19:00"}, loc)
	assert.Nil(t, err)

	kept, err := SubtractWindows(times, "2024-07-05", 90*time.Minute, []Window{closed}, loc)
	assert.Nil(t, err)
	// Every start whose 90-minute window touches 18:00-19:00 drops out; a
	// slot starting exactly at 19:00 merely touches the closure and stays.
	assert.Equal(t, []string{"19:00", "19:30", "20:00", "20:30"}, kept)
}

func TestTimesWithCapacity(t *testing.T) {
	loc := venueLoc(t)
	tables := []models.Table{
		{ID: 1, TableNumber: "1", Seats: 2},
		{ID: 2, TableNumber: "2", Seats: 4},
	}
	tableTwo := uint(2)
	start, _ := TimeOnDate("2024-07-05", "18:00", loc)
	reservations := []models.Reservation{
		{ID: 10, TableID: &tableTwo, PartySize: 4, Status: "confirmed", StartTime: start, EndTime: start.Add(90 * time.Minute)},
	}
	times := []string{"17:00", "17:30", "18:00", "18:30", "19:00", "19:30", "20:00", "20:30"}

	// A party of four only fits table 2, which is taken 18:00-19:30.
	kept, err := TimesWithCapacity(times, "2024-07-05", 4, tables, reservations, loc)
	assert.Nil(t, err)
	assert.Equal(t, []string{"19:30", "20:00", "20:30"}, kept)

	// A party of two can fall back to table 1 the whole evening.
	kept, err = TimesWithCapacity(times, "2024-07-05", 2, tables, reservations, loc)
	assert.Nil(t, err)
	assert.Equal(t, times, kept)
}

func TestTimesWithCapacityIgnoresCanceled(t *testing.T) {
	loc := venueLoc(t)
	tables := []models.Table{{ID: 1, TableNumber: "1", Seats: 4}}
	tableOne := uint(1)
	start, _ := TimeOnDate("2024-07-05", "18:00", loc)
	reservations := []models.Reservation{
		{ID: 11, TableID: &tableOne, Status: string(types.RESERVATION_CANCELED), StartTime: start, EndTime: start.Add(2 * time.Hour)},
	}

	kept, err := TimesWithCapacity([]string{"18:00", "18:30"}, "2024-07-05", 4, tables, reservations, loc)
	assert.Nil(t, err)
	assert.Equal(t, []string{"18:00", "18:30"}, kept)
}

func TestReconcileSelectedTime(t *testing.T) {
	slots := []string{"18:00", "18:30", "19:00"}

	// Present selections survive a refresh.
	assert.Equal(t, "18:30", ReconcileSelectedTime("18:30", slots))
	// Absent selections move to the first available slot.
	assert.Equal(t, "18:00", ReconcileSelectedTime("17:00", slots))
	// An empty list clears the selection.
	assert.Equal(t, "", ReconcileSelectedTime("18:30", nil))
}

func TestAlternativeTimes(t *testing.T) {
	slots := []string{"17:00", "17:30", "19:00", "19:30"}

	alt := AlternativeTimes("18:00", slots)
	assert.Equal(t, "17:30", alt.Before)
	assert.Equal(t, "19:00", alt.After)

	alt = AlternativeTimes("16:00", slots)
	assert.Equal(t, "", alt.Before)
	assert.Equal(t, "17:00", alt.After)

	alt = AlternativeTimes("20:00", slots)
	assert.Equal(t, "19:30", alt.Before)
	assert.Equal(t, "", alt.After)
}

func TestWindowOverlapIsStrict(t *testing.T) {
	loc := venueLoc(t)
	a, _ := RangeWindow("2024-07-05", types.TimeRange{Start: "18:00", End: "19:00"}, loc)
	b, _ := RangeWindow("2024-07-05", types.TimeRange{Start: "19:00", End: "20:00"}, loc)
	c, _ := RangeWindow("2024-07-05", types.TimeRange{Start: "18:30", End: "19:30"}, loc)

	assert.False(t, a.Overlaps(b), "touching windows must not overlap")
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
}
