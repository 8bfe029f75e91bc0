package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reward non-tunai (motor, mobil, dst) yang terbuka saat member mencapai
// peringkat dan PV tertentu.
type Reward struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	Name         string          `gorm:"size:255"`
	Description  string          `gorm:"type:text"`
	RequiredRank string          `gorm:"size:20;index"`
	RequiredPV   decimal.Decimal `gorm:"type:decimal(14,2)"`
	ValueRupiah  decimal.Decimal `gorm:"type:decimal(14,2)"`
	IsActive     bool            `gorm:"default:true"`
	CreatedAt    time.Time
}

// MemberReward adalah klaim reward; dedup per pasangan (member, reward).
type MemberReward struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	MemberID  uint   `gorm:"index:idx_member_reward,unique"`
	RewardID  uint   `gorm:"index:idx_member_reward,unique"`
	Status    string `gorm:"size:50;default:pending"`
	ClaimedAt time.Time
}
