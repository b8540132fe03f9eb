package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func venueLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("could not load venue timezone: %s", err.Error())
	}
	return loc
}

func weekdaySet(days ...time.Weekday) map[time.Weekday]bool {
	m := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		m[d] = true
	}
	return m
}

func dateSet(dates ...string) map[string]bool {
	m := make(map[string]bool, len(dates))
	for _, d := range dates {
		m[d] = true
	}
	return m
}

func TestIsDateBookable(t *testing.T) {
	loc := venueLoc(t)
	rules := AvailabilityRules{
		BaseOpenWeekdays:    weekdaySet(time.Thursday, time.Friday, time.Saturday),
		ExceptionalOpens:    dateSet("2024-07-01"),
		FullDayClosures:     dateSet("2024-07-04"),
		PrivateEventBlocked: dateSet("2024-07-06"),
	}

	cases := []struct {
		name string
		date string
		want bool
	}{
		{"base open weekday", "2024-07-05", true},        // Friday
		{"weekday not in base hours", "2024-07-02", false}, // Tuesday
		{"exceptional open off-schedule", "2024-07-01", true}, // Monday
		{"full-day closure beats base hours", "2024-07-04", false}, // Thursday
		{"private event blocks base weekday", "2024-07-06", false}, // Saturday
		{"plain friday a week later", "2024-07-12", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsDateBookable(tc.date, rules, loc)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsDateBookableRejectsBadDate(t *testing.T) {
	loc := venueLoc(t)
	_, err := IsDateBookable("07/04/2024", AvailabilityRules{BaseOpenWeekdays: weekdaySet(time.Friday)}, loc)
	assert.NotNil(t, err)
}

func TestFirstBookableDateSkipsClosedHoliday(t *testing.T) {
	loc := venueLoc(t)
	rules := AvailabilityRules{
		BaseOpenWeekdays: weekdaySet(time.Thursday, time.Friday, time.Saturday),
		FullDayClosures:  dateSet("2024-07-04"),
	}
	// Start on Wednesday 2024-07-03: Thursday the 4th is closed, so the
	// first bookable date is Friday the 5th.
	date, found, err := FirstBookableDate("2024-07-03", rules, loc, 365)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "2024-07-05", date)
}

func TestFirstBookableDateHonorsExceptionalOpen(t *testing.T) {
	loc := venueLoc(t)
	rules := AvailabilityRules{
		BaseOpenWeekdays: weekdaySet(time.Thursday, time.Friday, time.Saturday),
		ExceptionalOpens: dateSet("2024-07-03"),
		FullDayClosures:  dateSet("2024-07-04"),
	}
	date, found, err := FirstBookableDate("2024-07-03", rules, loc, 365)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "2024-07-03", date)
}

func TestFirstBookableDateExhaustedReturnsStartUnchanged(t *testing.T) {
	loc := venueLoc(t)
	rules := AvailabilityRules{
		BaseOpenWeekdays: weekdaySet(time.Monday),
		// Every Monday in the scan horizon is closed.
		FullDayClosures: dateSet("2024-07-08", "2024-07-15"),
	}
	date, found, err := FirstBookableDate("2024-07-03", rules, loc, 14)
	assert.Nil(t, err)
	assert.False(t, found)
	assert.Equal(t, "2024-07-03", date)
}

func TestFirstBookableDateNeverBeforeStartAndAlwaysBookable(t *testing.T) {
	loc := venueLoc(t)
	rules := AvailabilityRules{
		BaseOpenWeekdays:    weekdaySet(time.Friday, time.Saturday),
		ExceptionalOpens:    dateSet("2024-07-10"),
		FullDayClosures:     dateSet("2024-07-05", "2024-07-06"),
		PrivateEventBlocked: dateSet("2024-07-12"),
	}
	starts := []string{"2024-07-01", "2024-07-04", "2024-07-05", "2024-07-11", "2024-07-13"}
	for _, start := range starts {
		date, found, err := FirstBookableDate(start, rules, loc, 365)
		assert.Nil(t, err)
		assert.True(t, found, "no bookable date from %s", start)
		assert.GreaterOrEqual(t, date, start)
		ok, err := IsDateBookable(date, rules, loc)
		assert.Nil(t, err)
		assert.True(t, ok, "returned date %s is not bookable", date)
	}
}

func TestFirstBookableDateDefersWhenRulesNotLoaded(t *testing.T) {
	loc := venueLoc(t)
	date, found, err := FirstBookableDate("2024-07-03", AvailabilityRules{}, loc, 365)
	assert.ErrorIs(t, err, ErrRulesNotLoaded)
	assert.False(t, found)
	assert.Equal(t, "2024-07-03", date)
}

func TestFirstOpenWeekdayQuickVariant(t *testing.T) {
	loc := venueLoc(t)
	weekdays := weekdaySet(time.Thursday, time.Friday, time.Saturday)

	// The quick variant ignores closures and blackout data entirely.
	date, found, err := FirstOpenWeekday("2024-07-03", weekdays, loc, 30)
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "2024-07-04", date)

	_, _, err = FirstOpenWeekday("2024-07-03", nil, loc, 30)
	assert.ErrorIs(t, err, ErrRulesNotLoaded)
}

func TestReservationDurationPolicy(t *testing.T) {
	assert.Equal(t, 90*time.Minute, ReservationDuration(1))
	assert.Equal(t, 90*time.Minute, ReservationDuration(2))
	assert.Equal(t, 120*time.Minute, ReservationDuration(3))
	assert.Equal(t, 120*time.Minute, ReservationDuration(8))

	start := time.Date(2024, 7, 5, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(90*time.Minute), ReservationEnd(start, 2))
	assert.Equal(t, start.Add(120*time.Minute), ReservationEnd(start, 3))
}
