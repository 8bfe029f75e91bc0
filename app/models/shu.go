package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SHUPeriod adalah snapshot satu kali settlement SHU: total PV periode,
// total jumlah SHU, dan nilai rupiah per SHU. Immutable setelah dibuat.
type SHUPeriod struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	PeriodStart   time.Time
	PeriodEnd     time.Time
	TotalPV       decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	TotalSHUCount int             `gorm:"default:0"`
	PerSHUValue   decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	IsSettled     bool            `gorm:"index;default:false"`
	SettledAt     *time.Time
	CreatedAt     time.Time
}

// MemberSHU mencatat bagian SHU satu member pada satu periode.
type MemberSHU struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	MemberID  uint            `gorm:"index"`
	PeriodID  uint            `gorm:"index"`
	SHUCount  int             `gorm:"default:0"`
	BonusPaid decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	CreatedAt time.Time
}
