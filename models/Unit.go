package models

import (
	"time"

	"gorm.io/gorm"
)

// Unit is a bookable room, conference hall, venue or gazebo.
// Taken + AvailableAfter track occupancy: AvailableAfter is only
// meaningful while Taken is true and is cleared when the unit frees up.
type Unit struct {
	gorm.Model
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description"`
	Image          string     `json:"image"`
	Number         int        `json:"number"`
	Field          string     `json:"field" gorm:"size:32;index"`    // Rooms, Conference, Venue, Gazebo
	Category       string     `json:"category" gorm:"size:32;index"` // Medium, Large
	Taken          bool       `json:"taken" gorm:"default:false"`
	AvailableAfter *time.Time `json:"availableAfter"`
}
