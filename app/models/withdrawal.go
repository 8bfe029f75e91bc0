package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Withdrawal adalah permintaan penarikan dana dengan persetujuan ganda:
// pending -> bendahara_approved -> direktur_approved -> completed,
// rejected hanya dari pending atau bendahara_approved.
type Withdrawal struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"`
	MemberID      uint            `gorm:"index"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2)"`
	BankName      string          `gorm:"size:100"`
	AccountNumber string          `gorm:"size:50"`
	AccountHolder string          `gorm:"size:255"`
	Status        string          `gorm:"size:30;index;default:pending"`

	BendaharaID         *uint
	BendaharaApprovedAt *time.Time
	DirekturID          *uint
	DirekturApprovedAt  *time.Time
	RejectedByID        *uint
	RejectedAt          *time.Time
	RejectionReason     string `gorm:"type:text"`
	CompletedAt         *time.Time

	DisbursementID string `gorm:"size:255"` // id dari gateway pembayaran
	CreatedAt      time.Time `gorm:"index"`
}

func (w *Withdrawal) FindByID(db *gorm.DB, id uint) (*Withdrawal, error) {
	var withdrawal Withdrawal

	err := db.Model(&Withdrawal{}).Where("id = ?", id).First(&withdrawal).Error
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

func (w *Withdrawal) FindByStatus(db *gorm.DB, status string) ([]Withdrawal, error) {
	var items []Withdrawal

	err := db.Model(&Withdrawal{}).Where("status = ?", status).
		Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
