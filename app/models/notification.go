package models

import "time"

// Notification hanya diproduksi oleh engine; pengiriman (push/suara)
// urusan transport eksternal.
type Notification struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	MemberID   uint   `gorm:"index"`
	Title      string `gorm:"size:255"`
	Message    string `gorm:"type:text"`
	Type       string `gorm:"size:30;default:system"`
	IsRead     bool   `gorm:"index;default:false"`
	SoundAlert bool   `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"index"`
}
