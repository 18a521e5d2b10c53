package models

import "time"

type Package struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	Destinations string    `json:"destinations"`
	Duration     string    `json:"duration"` // e.g. "7 Days / 6 Nights"
	Price        int64     `json:"price"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
