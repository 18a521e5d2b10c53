package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// BookingStatuses lists every status a booking can hold, in lifecycle order.
var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	return status, status.Valid()
}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// OrDefault maps an empty or unknown status to pending.
func (s BookingStatus) OrDefault() BookingStatus {
	if !s.Valid() {
		return StatusPending
	}
	return s
}

// Label is the capitalised form shown on status badges.
func (s BookingStatus) Label() string {
	v := string(s.OrDefault())
	return strings.ToUpper(v[:1]) + v[1:]
}

type Booking struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	PackageID           uint          `json:"package_id" gorm:"index;not null"`
	Package             *Package      `json:"-" gorm:"foreignKey:PackageID;constraint:OnDelete:RESTRICT"`
	Name                string        `json:"name" gorm:"not null"`
	Email               string        `json:"email" gorm:"not null"`
	Phone               string        `json:"phone" gorm:"not null"`
	TravelDate          string        `json:"travel_date" gorm:"not null"`
	NumberOfTravelers   int           `json:"number_of_travelers" gorm:"not null;default:1"`
	SpecialRequirements string        `json:"special_requirements,omitempty"`
	WhatsappConsent     bool          `json:"whatsapp_consent"`
	Status              BookingStatus `json:"status" gorm:"size:20;index;not null;default:pending"`
	CreatedAt           time.Time     `json:"created_at" gorm:"autoCreateTime;<-:create"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

// BookingStatusChange records one status update applied to a booking.
type BookingStatusChange struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	BookingID  uint          `json:"booking_id" gorm:"index;not null"`
	FromStatus BookingStatus `json:"from_status" gorm:"size:20"`
	ToStatus   BookingStatus `json:"to_status" gorm:"size:20;not null"`
	CreatedAt  time.Time     `json:"created_at"`
}
