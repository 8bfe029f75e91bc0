package models

import (
	"time"

	"gorm.io/gorm"
)

// SettlementPeriod adalah klaim eksplisit satu jendela settlement.
// Unique index (kind, period_start) menutup risiko pembayaran ganda saat
// job dipanggil dua kali untuk jendela yang sama.
type SettlementPeriod struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Kind        string    `gorm:"size:30;uniqueIndex:idx_settlement_claim"`
	PeriodStart time.Time `gorm:"uniqueIndex:idx_settlement_claim"`
	PeriodEnd   time.Time
	Status      string `gorm:"size:20;default:claimed"` // claimed / settled
	SettledAt   *time.Time
	CreatedAt   time.Time
}

// Claim mencoba mengambil jendela settlement. Mengembalikan false kalau
// jendela sudah diklaim run lain.
func (p *SettlementPeriod) Claim(db *gorm.DB, kind string, start, end time.Time) (*SettlementPeriod, bool, error) {
	claim := SettlementPeriod{
		Kind:        kind,
		PeriodStart: start,
		PeriodEnd:   end,
		Status:      "claimed",
	}

	err := db.Create(&claim).Error
	if err != nil {
		var existing SettlementPeriod
		findErr := db.Where("kind = ? AND period_start = ?", kind, start).
			First(&existing).Error
		if findErr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}

	return &claim, true, nil
}

// MarkSettled menutup klaim setelah seluruh pembayaran periode selesai.
func (p *SettlementPeriod) MarkSettled(db *gorm.DB) error {
	now := time.Now()
	p.Status = "settled"
	p.SettledAt = &now

	return db.Model(p).Updates(map[string]interface{}{
		"status":     "settled",
		"settled_at": now,
	}).Error
}
