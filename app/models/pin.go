package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pin adalah token pendaftaran sekali pakai. Transisi available -> used
// harus tepat satu kali (lihat services.consumePin).
type Pin struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	Code             string          `gorm:"size:20;uniqueIndex"`
	StokisID         *uint           `gorm:"index"`
	GeneratedByID    *uint           // admin pembuat batch
	Price            decimal.Decimal `gorm:"type:decimal(12,2)"`
	PVValue          decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status           string          `gorm:"size:20;index;default:available"`
	UsedByMemberID   *uint
	UsedAt           *time.Time
	CreatedAt        time.Time
}

func (p *Pin) FindByCode(db *gorm.DB, code string) (*Pin, error) {
	var pin Pin

	err := db.Model(&Pin{}).Where("code = ?", code).First(&pin).Error
	if err != nil {
		return nil, err
	}

	return &pin, nil
}

func (p *Pin) CountAvailable(db *gorm.DB, stokisID *uint) (int64, error) {
	var count int64

	q := db.Model(&Pin{}).Where("status = ?", "available")
	if stokisID != nil {
		q = q.Where("stokis_id = ?", *stokisID)
	}

	err := q.Count(&count).Error
	return count, err
}
