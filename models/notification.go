package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	Message     string `gorm:"not null" json:"message"`
	RecipientID uint   `gorm:"not null" json:"recipientId"`
	Recipient   *User  `json:"recipient,omitempty"`
	Read        bool   `gorm:"not null;default:false" json:"read"`
}
