package models

import (
	"gorm.io/gorm"
)

// Operator is a member of agency staff allowed into the admin panel.
type Operator struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
}
