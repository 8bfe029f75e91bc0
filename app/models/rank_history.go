package models

import "time"

type RankHistory struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	MemberID       uint   `gorm:"index"`
	Rank           string `gorm:"size:20"`
	AchievedAt     time.Time
	RewardsClaimed bool `gorm:"default:false"`
}
