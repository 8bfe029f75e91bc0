package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bonus adalah catatan satu pembayaran bonus: satu baris per (member,
// kejadian pemicu). Settlement yang diulang untuk periode yang sama tidak
// boleh menggandakan baris.
type Bonus struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	MemberID       uint            `gorm:"index"`
	Type           string          `gorm:"size:30;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(14,2)"`
	PVBasis        decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	SourceMemberID *uint           // member yang memicu bonus ini
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	Status         string    `gorm:"size:20;default:completed"`
	CreatedAt      time.Time `gorm:"index"`
}
