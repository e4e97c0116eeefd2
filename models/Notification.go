package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index;not null"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type" gorm:"size:40;index"` // booking_created, booking_status
	RefID   uint   `json:"refID"`
	RefType string `json:"refType" gorm:"size:40"`
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
