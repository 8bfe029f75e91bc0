package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PvPurchase adalah permintaan pembelian PV dari stokis.
// Mesin status: pending -> confirmed | rejected. Metode wallet langsung
// confirmed tanpa lewat pending.
type PvPurchase struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"`
	MemberID        uint            `gorm:"index"`
	StokisID        uint            `gorm:"index"`
	PVAmount        decimal.Decimal `gorm:"type:decimal(12,2)"`
	RupiahAmount    decimal.Decimal `gorm:"type:decimal(14,2)"`
	Status          string          `gorm:"size:20;index;default:pending"`
	PaymentMethod   string          `gorm:"size:30"`
	ConfirmedAt     *time.Time
	RejectedAt      *time.Time
	RejectionReason string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (p *PvPurchase) FindByID(db *gorm.DB, id uint) (*PvPurchase, error) {
	var purchase PvPurchase

	err := db.Model(&PvPurchase{}).Where("id = ?", id).First(&purchase).Error
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}
