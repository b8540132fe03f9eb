package models

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rsv/src/config"
	"rsv/src/lib"
	"rsv/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Setting struct {
	ID           uuid.UUID      `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	SettingKey   string         `gorm:"uniqueIndex:name" json:"setting_key"`
	SettingValue types.JSONBAny `gorm:"type:jsonb" json:"setting_value"`
	Group        string         `gorm:"uniqueIndex:name" json:"group,omitempty"`

	types.Timestamps
}

// BookingWindow bounds how far in advance reservations may be made.
type BookingWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type HoldFeeConfig struct {
	Enabled  bool   `json:"enabled"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// GetSetting reads one setting value into out, going through the Redis JSON
// cache first. A cache miss falls back to the settings table and repopulates
// the cache off the request path.
func GetSetting(tx *gorm.DB, key string, out any) error {
	cacheKey := fmt.Sprintf("setting:%s", key)
	if rd := lib.GetRedisClient(); rd != nil {
		if val := rd.JSONGet(context.Background(), cacheKey).Val(); val != "" {
			return json.Unmarshal([]byte(val), out)
		}
	}
	var setting Setting
	if err := tx.Where(&Setting{SettingKey: key}).First(&setting).Error; err != nil {
		return err
	}
	b, err := json.Marshal(setting.SettingValue.Inner)
	if err != nil {
		return err
	}
	go func() {
		if rd := lib.GetRedisClient(); rd != nil {
			if _, err := rd.JSONSet(context.Background(), cacheKey, "$", string(b)).Result(); err != nil {
				log.Printf("[redis] Error updating setting cache: %s\n", err.Error())
			}
		}
	}()
	return json.Unmarshal(b, out)
}

// InvalidateSettingCache drops the cached copy after a settings write.
func InvalidateSettingCache(key string) {
	if rd := lib.GetRedisClient(); rd != nil {
		rd.Del(context.Background(), fmt.Sprintf("setting:%s", key))
	}
}

func GetBookingWindow(tx *gorm.DB, loc *time.Location) BookingWindow {
	var bw BookingWindow
	if err := GetSetting(tx, "booking_window", &bw); err != nil || bw.StartDate == "" {
		today := time.Now().In(loc)
		bw.StartDate = today.Format(config.DATE_FORMAT)
		bw.EndDate = today.AddDate(0, 0, config.DEFAULT_WINDOW_DAYS).Format(config.DATE_FORMAT)
	}
	return bw
}

func GetHoldFeeConfig(tx *gorm.DB) HoldFeeConfig {
	var hf HoldFeeConfig
	if err := GetSetting(tx, "hold_fee", &hf); err != nil {
		return HoldFeeConfig{}
	}
	return hf
}

// GetSlotInterval loads the slot_interval setting (minutes), falling back to
// the configured default grid step.
func GetSlotInterval(tx *gorm.DB) time.Duration {
	var minutes int
	if err := GetSetting(tx, "slot_interval", &minutes); err != nil || minutes <= 0 {
		minutes = config.SLOT_INTERVAL_MINUTES
	}
	return time.Duration(minutes) * time.Minute
}

// VenueLocation loads the venue_timezone setting, falling back to the
// configured default. Date math is always done in this location.
func VenueLocation(tx *gorm.DB) *time.Location {
	var tz string
	if err := GetSetting(tx, "venue_timezone", &tz); err != nil || tz == "" {
		tz = config.DEFAULT_TIMEZONE
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Error loading venue timezone [%s]: %s\n", tz, err.Error())
		return time.UTC
	}
	return loc
}
