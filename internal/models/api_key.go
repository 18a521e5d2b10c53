package models

import (
	"time"

	"gorm.io/gorm"
)

type APIKey struct {
	gorm.Model
	OperatorID uint       `json:"operator_id"`
	Operator   Operator   `json:"-"`
	KeyHash    string     `json:"-" gorm:"uniqueIndex"`
	Prefix     string     `json:"prefix"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
