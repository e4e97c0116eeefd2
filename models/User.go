package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"-"`
	AvatarURL string `json:"avatarURL"`
	Role      string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, staff, admin

	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
