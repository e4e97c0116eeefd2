package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GuestDetails is a snapshot of the guest's details captured at submission
// time. It is deliberately not linked to the User profile afterwards.
type GuestDetails struct {
	FullName string `json:"fullName"`
	Age      int    `json:"age"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// Booking is the authoritative reservation record.
type Booking struct {
	gorm.Model
	UserID          uint           `json:"userID" gorm:"index;not null"`
	Guest           GuestDetails   `json:"guest" gorm:"embedded;embeddedPrefix:guest_"`
	UnitID          uint           `json:"unitID" gorm:"index;not null"`
	Title           string         `json:"title"` // copied from the unit at submission
	Image           string         `json:"image"`
	CheckIn         time.Time      `json:"checkIn"`
	CheckOut        time.Time      `json:"checkOut"`
	NumOfPeople     int            `json:"numOfPeople"`
	PaymentMethod   string         `json:"paymentMethod"`
	TotalPrice      float64        `json:"totalPrice"`
	Status          string         `json:"status" gorm:"size:20;default:pending;index"` // pending, paid, cancelled
	SpecialRequests string         `json:"specialRequests"`
	PaymentResult   datatypes.JSON `json:"paymentResult"` // processor order id + status
	PaidAt          *time.Time     `json:"paidAt"`

	// Relationships
	Unit *Unit `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BookingStatuses is the full enumerated status set.
var BookingStatuses = []string{StatusPending, StatusPaid, StatusCancelled}

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// PaymentResultData mirrors the JSON stored in Booking.PaymentResult.
type PaymentResultData struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
