package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type JSONBAny struct {
	Inner any
}

func (a JSONBAny) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a.Inner)
	return string(valueString), err
}
func (a *JSONBAny) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	var inner any
	if err := json.Unmarshal(b, &inner); err != nil {
		return err
	}
	a.Inner = inner
	return nil
}

// TimeRange is a wall-clock window within a single day, both ends HH:MM in
// venue-local time.
type TimeRange struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type TimeRanges []TimeRange

func (a TimeRanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *TimeRanges) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELED  ReservationStatus = "canceled"
	RESERVATION_COMPLETED ReservationStatus = "completed"
	RESERVATION_NO_SHOW   ReservationStatus = "no_show"
)

type ReservationSource string

const (
	SOURCE_MANUAL  ReservationSource = "manual"
	SOURCE_WEBSITE ReservationSource = "website"
	SOURCE_MEMBER  ReservationSource = "member"
)

type PrivateEventStatus string

const (
	PRIVATE_EVENT_ACTIVE    PrivateEventStatus = "active"
	PRIVATE_EVENT_CANCELED  PrivateEventStatus = "canceled"
	PRIVATE_EVENT_COMPLETED PrivateEventStatus = "completed"
)

type HoldStatus string

const (
	HOLD_NONE       HoldStatus = "none"
	HOLD_PENDING    HoldStatus = "pending"
	HOLD_AUTHORIZED HoldStatus = "authorized"
	HOLD_RELEASED   HoldStatus = "released"
	HOLD_CAPTURED   HoldStatus = "captured"
)

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateReservationRequestBody struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email,omitempty"`
	PartySize uint   `json:"party_size" binding:"required,min=1"`
	Date      string `json:"date" binding:"required,resvdate"`
	Time      string `json:"time" binding:"required,resvtime"`
	EventType string `json:"event_type,omitempty"`
	Notes     string `json:"notes,omitempty"`
	MemberID  *uint  `json:"member_id,omitempty"`
	TableID   *uint  `json:"table_id,omitempty"`
	Source    string `json:"source,omitempty"`
	// PaymentIntent confirmed by the client beforehand. Required for
	// non-member bookings when the hold fee is enabled.
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
}

type UpdateReservationRequestBody struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Email      *string `json:"email,omitempty"`
	PartySize  *uint   `json:"party_size,omitempty" binding:"omitempty,min=1"`
	Date       *string `json:"date,omitempty" binding:"omitempty,resvdate"`
	Time       *string `json:"time,omitempty" binding:"omitempty,resvtime"`
	EventType  *string `json:"event_type,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	TableID    *uint   `json:"table_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	NotifySMS  bool    `json:"notify_sms,omitempty"`
	SMSMessage string  `json:"sms_message,omitempty"`
}

// MoveCalendarEventRequestBody carries only the fields the drag/resize
// gesture actually changed.
type MoveCalendarEventRequestBody struct {
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	TableID   *uint   `json:"table_id,omitempty"`
}

type AvailableTimesRequestBody struct {
	Date      string `json:"date" binding:"required,resvdate"`
	PartySize uint   `json:"party_size" binding:"required,min=1"`
}

type WeekdayHours struct {
	Weekday int        `json:"weekday" binding:"min=0,max=6"`
	Ranges  TimeRanges `json:"ranges" binding:"required,min=1"`
}

type SaveHoursRequestBody struct {
	Days []WeekdayHours `json:"days" binding:"required"`
}

type CreateExceptionalOpenRequestBody struct {
	Date   string     `json:"date" binding:"required,resvdate"`
	Ranges TimeRanges `json:"ranges" binding:"required,min=1"`
	Label  string     `json:"label,omitempty"`
}

type CreateClosureRequestBody struct {
	Date    string     `json:"date" binding:"required,resvdate"`
	Reason  string     `json:"reason,omitempty"`
	FullDay bool       `json:"full_day,omitempty"`
	Ranges  TimeRanges `json:"ranges,omitempty"`
}

type CreatePrivateEventRequestBody struct {
	Title                 string `json:"title" binding:"required"`
	EventType             string `json:"event_type,omitempty"`
	StartTime             string `json:"start_time" binding:"required,futuredate"`
	EndTime               string `json:"end_time" binding:"required"`
	FullDay               bool   `json:"full_day,omitempty"`
	MaxGuests             uint   `json:"max_guests,omitempty"`
	TotalAttendeesMaximum uint   `json:"total_attendees_maximum,omitempty"`
	DepositRequired       bool   `json:"deposit_required,omitempty"`
	RSVPEnabled           bool   `json:"rsvp_enabled,omitempty"`
	RequiresTimeSelection bool   `json:"requires_time_selection,omitempty"`
}

type UpdatePrivateEventRequestBody struct {
	Title                 *string `json:"title,omitempty"`
	EventType             *string `json:"event_type,omitempty"`
	StartTime             *string `json:"start_time,omitempty"`
	EndTime               *string `json:"end_time,omitempty"`
	FullDay               *bool   `json:"full_day,omitempty"`
	MaxGuests             *uint   `json:"max_guests,omitempty"`
	TotalAttendeesMaximum *uint   `json:"total_attendees_maximum,omitempty"`
	DepositRequired       *bool   `json:"deposit_required,omitempty"`
	RSVPEnabled           *bool   `json:"rsvp_enabled,omitempty"`
	RequiresTimeSelection *bool   `json:"requires_time_selection,omitempty"`
	Status                *string `json:"status,omitempty"`
}

type CreateTableRequestBody struct {
	TableNumber string `json:"table_number" binding:"required"`
	Seats       uint   `json:"seats" binding:"required,min=1"`
}

type SendMessageRequestBody struct {
	ReservationID *uint  `json:"reservation_id,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Body          string `json:"body" binding:"required"`
}

type CreateHoldFeeRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateSettingRequestBody struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value" binding:"required"`
	Group string `json:"group" binding:"required"`
}

type AlternativeTimes struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
