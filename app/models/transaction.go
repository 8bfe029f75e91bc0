package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction adalah catatan audit setiap mutasi saldo. Baris tidak pernah
// diubah kecuali transisi status pending -> completed/rejected.
type Transaction struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	MemberID    uint            `gorm:"index"`
	Type        string          `gorm:"size:30;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2)"` // bertanda: debit negatif
	PVAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	Description string          `gorm:"type:text"`
	Status      string          `gorm:"size:20;index;default:pending"`
	ReferenceID string          `gorm:"size:255"`
	CreatedAt   time.Time       `gorm:"index"`
}
