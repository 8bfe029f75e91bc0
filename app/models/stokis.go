package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stokis adalah reseller PV dan PIN. Nomor stokis berurutan dan tidak
// pernah dipakai ulang.
type Stokis struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	MemberID        uint   `gorm:"uniqueIndex"`
	StokisNumber    int    `gorm:"uniqueIndex"`
	Name            string `gorm:"size:255"`
	BarcodeData     string `gorm:"type:text"`
	Address         string `gorm:"type:text"`
	Phone           string `gorm:"size:20"`
	IsActive        bool   `gorm:"default:true"`
	PinStock        int    `gorm:"default:0"`
	PvStock         decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	TotalPVSold     decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	TotalCommission decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	CommissionRate  decimal.Decimal `gorm:"type:decimal(5,2);default:10"`
	CreatedAt       time.Time
}

func (s *Stokis) FindByID(db *gorm.DB, id uint) (*Stokis, error) {
	var stokis Stokis

	err := db.Model(&Stokis{}).Where("id = ?", id).First(&stokis).Error
	if err != nil {
		return nil, err
	}

	return &stokis, nil
}

func (s *Stokis) FindByMemberID(db *gorm.DB, memberID uint) (*Stokis, error) {
	var stokis Stokis

	err := db.Model(&Stokis{}).Where("member_id = ?", memberID).First(&stokis).Error
	if err != nil {
		return nil, err
	}

	return &stokis, nil
}

// NextStokisNumber mengambil nomor urut berikutnya.
func (s *Stokis) NextStokisNumber(db *gorm.DB) (int, error) {
	var last Stokis

	err := db.Model(&Stokis{}).Order("stokis_number DESC").First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 1, nil
		}
		return 0, err
	}

	return last.StokisNumber + 1, nil
}
