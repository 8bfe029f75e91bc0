package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wallet struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	MemberID       uint            `gorm:"uniqueIndex"`
	MainBalance    decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	FrozenBalance  decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	CoinBalance    decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	TotalWithdrawn decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	UpdatedAt      time.Time
}

func (w *Wallet) FindByMemberID(db *gorm.DB, memberID uint) (*Wallet, error) {
	var wallet Wallet

	err := db.Model(&Wallet{}).Where("member_id = ?", memberID).First(&wallet).Error
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}
