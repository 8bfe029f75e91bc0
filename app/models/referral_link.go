package models

import "time"

type ReferralLink struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	MemberID          uint   `gorm:"index"`
	Code              string `gorm:"size:50;uniqueIndex"`
	ClickCount        int    `gorm:"default:0"`
	RegistrationCount int    `gorm:"default:0"`
	CreatedAt         time.Time
}
