package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NationalTurnover mengakumulasi omzet PV seluruh jaringan per hari
// kalender (UTC). Baris yang belum settled terus menumpuk ke pool periode
// berjalan sampai settlement dua-mingguan menandainya.
type NationalTurnover struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	Date        time.Time       `gorm:"index"`
	TotalPV     decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	TotalRupiah decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	PeriodType  string          `gorm:"size:20;default:daily"`
	IsSettled   bool            `gorm:"index;default:false"`
	SettledAt   *time.Time
	CreatedAt   time.Time
}

// SumUnsettledPV menjumlahkan seluruh PV yang belum masuk settlement.
func (t *NationalTurnover) SumUnsettledPV(db *gorm.DB) (decimal.Decimal, error) {
	var rows []NationalTurnover

	err := db.Model(&NationalTurnover{}).Where("is_settled = ?", false).Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalPV)
	}

	return total, nil
}
