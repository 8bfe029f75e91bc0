package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coin adalah ledger SERACOIN, terpisah dari dompet rupiah.
type Coin struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	MemberID     uint            `gorm:"index"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,4)"`
	Type         string          `gorm:"size:20;index"` // earned / purchased / sold
	PricePerCoin decimal.Decimal `gorm:"type:decimal(14,2)"`
	Description  string          `gorm:"type:text"`
	CreatedAt    time.Time
}
