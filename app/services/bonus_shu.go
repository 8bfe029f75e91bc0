package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Tangga jumlah SHU berdasarkan akumulasi PV, urut dari tertinggi.
// Fungsi tangga: di antara dua ambang berlaku ambang bawah.
var shuTiers = []struct {
	PV    decimal.Decimal
	Count int
}{
	{decimal.NewFromInt(3000), 100},
	{decimal.NewFromInt(2250), 50},
	{decimal.NewFromInt(1750), 35},
	{decimal.NewFromInt(1200), 25},
	{decimal.NewFromInt(750), 15},
	{decimal.NewFromInt(450), 10},
	{decimal.NewFromInt(300), 8},
	{decimal.NewFromInt(150), 6},
	{decimal.NewFromInt(85), 4},
	{decimal.NewFromInt(35), 2},
	{decimal.NewFromInt(10), 1},
}

// CalculateSHUCount memetakan akumulasi PV ke jumlah SHU.
func CalculateSHUCount(accumulatedPV decimal.Decimal) int {
	for _, tier := range shuTiers {
		if accumulatedPV.GreaterThanOrEqual(tier.PV) {
			return tier.Count
		}
	}
	return 0
}

// SettleSHU membagi pool SHU (20% omzet nasional periode) ke member yang
// memenuhi syarat: aktif, akumulasi PV >= 10, repurchase mingguan >= 15.
// Nilai per SHU = pool / total SHU seluruh member.
func SettleSHU(db *gorm.DB, periodStart, periodEnd time.Time, totalNationalPV decimal.Decimal) (*RunSummary, error) {
	summary := newRunSummary()
	if !totalNationalPV.IsPositive() {
		return summary, nil
	}

	var members []models.Member
	if err := db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, err
	}

	minAccPV := decimal.NewFromInt(consts.SHUMinAccumulatedPV)
	minWeekly := decimal.NewFromInt(consts.SHUMinWeeklyRepurchase)

	type share struct {
		MemberID uint
		Count    int
	}
	var shares []share
	totalCount := 0

	for _, member := range members {
		if member.AccumulatedPV.LessThan(minAccPV) || member.WeeklyRepurchase.LessThan(minWeekly) {
			continue
		}
		count := CalculateSHUCount(member.AccumulatedPV)
		if count <= 0 {
			continue
		}
		shares = append(shares, share{MemberID: member.ID, Count: count})
		totalCount += count
	}

	if totalCount <= 0 {
		return summary, nil
	}

	pool := pvToRupiah(totalNationalPV).Mul(decimal.NewFromFloat(consts.SHUPoolRate))
	perSHU := pool.Div(decimal.NewFromInt(int64(totalCount))).Round(2)

	now := time.Now()
	period := models.SHUPeriod{
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		TotalPV:       totalNationalPV,
		TotalSHUCount: totalCount,
		PerSHUValue:   perSHU,
		IsSettled:     true,
		SettledAt:     &now,
	}
	if err := db.Create(&period).Error; err != nil {
		return nil, err
	}

	for _, s := range shares {
		s := s
		err := db.Transaction(func(tx *gorm.DB) error {
			amount := perSHU.Mul(decimal.NewFromInt(int64(s.Count)))

			memberShare := models.MemberSHU{
				MemberID:  s.MemberID,
				PeriodID:  period.ID,
				SHUCount:  s.Count,
				BonusPaid: amount,
			}
			if err := tx.Create(&memberShare).Error; err != nil {
				return err
			}

			bonus := models.Bonus{
				MemberID:    s.MemberID,
				Type:        consts.BonusSHU,
				Amount:      amount,
				PVBasis:     totalNationalPV,
				PeriodStart: &periodStart,
				PeriodEnd:   &periodEnd,
				Status:      consts.TxStatusCompleted,
			}
			if err := tx.Create(&bonus).Error; err != nil {
				return err
			}

			desc := fmt.Sprintf("Bonus SHU: %d SHU x Rp%s", s.Count, perSHU.StringFixed(0))
			if err := creditBalanceTx(tx, s.MemberID, amount, decimal.Zero, desc, consts.TxBonusCredit); err != nil {
				return err
			}

			if err := Notify(tx, s.MemberID, "Bonus SHU Diterima",
				fmt.Sprintf("Anda menerima bonus SHU Rp%s (%d SHU)", amount.StringFixed(0), s.Count),
				consts.NotifBonusReceived, false); err != nil {
				return err
			}

			summary.Processed++
			summary.TotalDistributed = summary.TotalDistributed.Add(amount)
			return nil
		})
		if err != nil {
			summary.Fail(s.MemberID, err)
		}
	}

	return summary, nil
}
