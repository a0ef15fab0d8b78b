package model

import "time"

type Session struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Token      string    `gorm:"size:16;not null;uniqueIndex" json:"token"`
	Name       string    `gorm:"size:128;not null" json:"name"`
	SpaceIDs   []uint    `gorm:"serializer:json;type:text" json:"space_ids"`
	LastActive time.Time `json:"last_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
