package utils

import (
	"os"
	"sort"
	"strconv"
	"time"

	"rsv/src/common"
	"rsv/src/config"
	"rsv/src/models"
	"rsv/src/types"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func IsProd() bool {
	return config.API_ENV == string(types.Production)
}

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateToken(member *models.Member, ttl time.Duration) (string, error) {
	claims := types.Claims{
		Username: member.Email,
		Role:     member.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(member.ID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// LoadAvailabilityRules assembles the date-level rule sets for one booking
// window. Only full-day closures and full-day active private events block at
// the date level; partial ones are subtracted slot by slot instead.
func LoadAvailabilityRules(tx *gorm.DB, window models.BookingWindow, loc *time.Location) (common.AvailabilityRules, error) {
	rules := common.AvailabilityRules{
		BaseOpenWeekdays:    map[time.Weekday]bool{},
		ExceptionalOpens:    map[string]bool{},
		FullDayClosures:     map[string]bool{},
		PrivateEventBlocked: map[string]bool{},
	}

	var hours []models.VenueHour
	if err := tx.Find(&hours).Error; err != nil {
		return rules, err
	}
	for _, h := range hours {
		rules.BaseOpenWeekdays[time.Weekday(h.Weekday)] = true
	}

	var opens []models.ExceptionalOpen
	if err := tx.Where("date BETWEEN ? AND ?", window.StartDate, window.EndDate).Find(&opens).Error; err != nil {
		return rules, err
	}
	for _, o := range opens {
		rules.ExceptionalOpens[o.Date] = true
	}

	var closures []models.ExceptionalClosure
	if err := tx.Where("full_day = ?", true).Where("date BETWEEN ? AND ?", window.StartDate, window.EndDate).Find(&closures).Error; err != nil {
		return rules, err
	}
	for _, c := range closures {
		rules.FullDayClosures[c.Date] = true
	}

	windowStart, err := common.ParseDate(window.StartDate, loc)
	if err != nil {
		return rules, err
	}
	windowEnd, err := common.ParseDate(window.EndDate, loc)
	if err != nil {
		return rules, err
	}
	var events []models.PrivateEvent
	err = tx.
		Where(&models.PrivateEvent{Status: string(types.PRIVATE_EVENT_ACTIVE), FullDay: true}).
		Where("end_time >= ? AND start_time < ?", windowStart, windowEnd.AddDate(0, 0, 1)).
		Find(&events).Error
	if err != nil {
		return rules, err
	}
	for _, ev := range events {
		w := common.EventWindow(ev, loc)
		for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
			rules.PrivateEventBlocked[d.Format(config.DATE_FORMAT)] = true
		}
	}
	return rules, nil
}

// OpenRangesForDate resolves the wall-clock service ranges for a date. An
// exceptional open overrides base weekly hours; a full-day closure, or a
// weekday with no hours row, yields nothing.
func OpenRangesForDate(tx *gorm.DB, date string, loc *time.Location) (types.TimeRanges, error) {
	var closure models.ExceptionalClosure
	if err := tx.Where(&models.ExceptionalClosure{Date: date}).First(&closure).Error; err == nil && closure.FullDay {
		return nil, nil
	}

	var open models.ExceptionalOpen
	if err := tx.Where(&models.ExceptionalOpen{Date: date}).First(&open).Error; err == nil {
		return open.Ranges, nil
	}

	d, err := common.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	var hour models.VenueHour
	if err := tx.Where("weekday = ?", int(d.Weekday())).First(&hour).Error; err != nil {
		return nil, nil
	}
	return hour.Ranges, nil
}

// BlockedWindowsForDate collects partial-closure windows and active
// private-event windows overlapping the date.
func BlockedWindowsForDate(tx *gorm.DB, date string, loc *time.Location) ([]common.Window, error) {
	day, err := common.DayWindow(date, loc)
	if err != nil {
		return nil, err
	}
	blocked := make([]common.Window, 0)

	var closures []models.ExceptionalClosure
	if err := tx.Where(&models.ExceptionalClosure{Date: date}).Find(&closures).Error; err != nil {
		return nil, err
	}
	for _, c := range closures {
		if c.FullDay {
			blocked = append(blocked, day)
			continue
		}
		for _, r := range c.Ranges {
			w, err := common.RangeWindow(date, r, loc)
			if err != nil {
				return nil, err
			}
			blocked = append(blocked, w)
		}
	}

	var events []models.PrivateEvent
	err = tx.
		Where(&models.PrivateEvent{Status: string(types.PRIVATE_EVENT_ACTIVE)}).
		Where("end_time > ? AND start_time < ?", day.Start, day.End).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		blocked = append(blocked, common.EventWindow(ev, loc))
	}
	return blocked, nil
}

// AvailableTimesForDate computes the bookable HH:MM start times for a date
// and party size: grid over open ranges, minus closures and private events,
// keeping only starts with a free table large enough.
func AvailableTimesForDate(tx *gorm.DB, date string, partySize uint, loc *time.Location) ([]string, error) {
	open, err := OpenRangesForDate(tx, date, loc)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return []string{}, nil
	}
	duration := common.ReservationDuration(partySize)
	slots, err := common.GenerateStartTimes(date, open, models.GetSlotInterval(tx), duration, loc)
	if err != nil {
		return nil, err
	}

	blocked, err := BlockedWindowsForDate(tx, date, loc)
	if err != nil {
		return nil, err
	}
	slots, err = common.SubtractWindows(slots, date, duration, blocked, loc)
	if err != nil {
		return nil, err
	}

	tables, reservations, err := dayInventory(tx, date, loc)
	if err != nil {
		return nil, err
	}
	return common.TimesWithCapacity(slots, date, partySize, tables, reservations, loc)
}

func dayInventory(tx *gorm.DB, date string, loc *time.Location) ([]models.Table, []models.Reservation, error) {
	var tables []models.Table
	if err := tx.Order("seats asc").Find(&tables).Error; err != nil {
		return nil, nil, err
	}
	day, err := common.DayWindow(date, loc)
	if err != nil {
		return nil, nil, err
	}
	var reservations []models.Reservation
	err = tx.
		Where("end_time > ? AND start_time < ?", day.Start, day.End).
		Not("status = ?", string(types.RESERVATION_CANCELED)).
		Find(&reservations).Error
	if err != nil {
		return nil, nil, err
	}
	return tables, reservations, nil
}

// AssignTable picks the smallest free table that seats the party for the
// given window. excludeReservation lets a move skip the reservation being
// moved. Returns nil when nothing fits.
func AssignTable(tx *gorm.DB, slot common.Window, partySize uint, excludeReservation uint, loc *time.Location) (*uint, error) {
	date := slot.Start.In(loc).Format(config.DATE_FORMAT)
	tables, reservations, err := dayInventory(tx, date, loc)
	if err != nil {
		return nil, err
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Seats < tables[j].Seats })
	for _, table := range tables {
		if table.Seats < partySize {
			continue
		}
		busy := false
		for _, res := range reservations {
			if res.ID == excludeReservation || res.TableID == nil || *res.TableID != table.ID {
				continue
			}
			if slot.Overlaps(common.Window{Start: res.StartTime, End: res.EndTime}) {
				busy = true
				break
			}
		}
		if !busy {
			id := table.ID
			return &id, nil
		}
	}
	return nil, nil
}

// TableFreeForWindow verifies a specific table is free for the window,
// ignoring one reservation (the one being created or moved).
func TableFreeForWindow(tx *gorm.DB, tableID uint, slot common.Window, excludeReservation uint) (bool, error) {
	var conflicts int64
	err := tx.Model(&models.Reservation{}).
		Where("table_id = ?", tableID).
		Not("id = ?", excludeReservation).
		Not("status = ?", string(types.RESERVATION_CANCELED)).
		Where("end_time > ? AND start_time < ?", slot.Start, slot.End).
		Count(&conflicts).Error
	if err != nil {
		return false, err
	}
	return conflicts == 0, nil
}

// DateWithinWindow bounds a requested date by the booking window. Dates
// compare correctly as YYYY-MM-DD strings.
func DateWithinWindow(date string, window models.BookingWindow) bool {
	return date >= window.StartDate && date <= window.EndDate
}

// ConfirmationSMSBody is the short text sent after booking or updates.
func ConfirmationSMSBody(res *models.Reservation, loc *time.Location) string {
	when := res.StartTime.In(loc)
	return "Your reservation for " + strconv.Itoa(int(res.PartySize)) +
		" on " + when.Format("Mon, Jan 2") + " at " + when.Format(config.TIME_FORMAT) + " is confirmed."
}
