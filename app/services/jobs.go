package services

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// RunSummary adalah ringkasan satu job periodik. Kegagalan dikumpulkan
// per member: satu member gagal tidak membatalkan member lain, tapi juga
// tidak boleh hilang diam-diam.
type RunSummary struct {
	Processed        int             `json:"processed"`
	TotalDistributed decimal.Decimal `json:"total_distributed"`
	Failures         map[uint]string `json:"failures,omitempty"`
}

func newRunSummary() *RunSummary {
	return &RunSummary{
		TotalDistributed: decimal.Zero,
		Failures:         map[uint]string{},
	}
}

// Fail mencatat kegagalan satu member.
func (s *RunSummary) Fail(memberID uint, err error) {
	s.Failures[memberID] = err.Error()
}

// DailyBonusResult menggabungkan ringkasan seluruh kalkulasi harian.
type DailyBonusResult struct {
	Pairing *RunSummary `json:"pairing"`
	PlanB   *RunSummary `json:"plan_b"`
	PlanC   *RunSummary `json:"plan_c"`
	Ranks   *RunSummary `json:"ranks"`
}

// RunDailyBonusCalc menjalankan kalkulasi bonus harian berurutan:
// pasangan (termasuk matching), titik Plan B, komunitas Plan C, lalu
// kenaikan peringkat dan aktivasi plan.
func RunDailyBonusCalc(db *gorm.DB) (*DailyBonusResult, error) {
	pairing, err := CalculatePairingBonuses(db)
	if err != nil {
		return nil, err
	}
	log.Printf("[BonusCalc] pairing: %d member, Rp%s", pairing.Processed, pairing.TotalDistributed.StringFixed(0))

	planB, err := CalculatePlanBBonuses(db)
	if err != nil {
		return nil, err
	}
	log.Printf("[BonusCalc] plan B: %d member, Rp%s", planB.Processed, planB.TotalDistributed.StringFixed(0))

	planC, err := CalculatePlanCBonuses(db)
	if err != nil {
		return nil, err
	}
	log.Printf("[BonusCalc] plan C: %d member, Rp%s", planC.Processed, planC.TotalDistributed.StringFixed(0))

	ranks, err := ProcessRankUpgrades(db)
	if err != nil {
		return nil, err
	}
	log.Printf("[BonusCalc] peringkat: %d kenaikan", ranks.Processed)

	return &DailyBonusResult{Pairing: pairing, PlanB: planB, PlanC: planC, Ranks: ranks}, nil
}

// SettlementResult adalah ringkasan satu settlement dua-mingguan.
type SettlementResult struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	TotalPV     decimal.Decimal `json:"total_pv"`
	SHU         *RunSummary     `json:"shu"`
	Seracoin    *RunSummary     `json:"seracoin"`
}

// RunBiweeklySettlement menjalankan settlement SHU + SERACOIN untuk satu
// jendela periode. Jendela diklaim dulu lewat baris SettlementPeriod
// (unique per kind + period_start): pemanggilan kedua untuk jendela yang
// sama berhenti di ErrPeriodAlreadySettled, tidak ada pembayaran ganda.
// Pool PV dihitung sekali di awal supaya SHU dan SERACOIN membaca omzet
// yang sama.
func RunBiweeklySettlement(db *gorm.DB, periodStart, periodEnd time.Time) (*SettlementResult, error) {
	periodModel := models.SettlementPeriod{}
	claim, claimed, err := periodModel.Claim(db, consts.SettlementBiweekly, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrPeriodAlreadySettled
	}

	turnoverModel := models.NationalTurnover{}
	totalPV, err := turnoverModel.SumUnsettledPV(db)
	if err != nil {
		return nil, err
	}

	shu, err := SettleSHU(db, periodStart, periodEnd, totalPV)
	if err != nil {
		return nil, err
	}
	log.Printf("[Settlement] SHU: %d member, Rp%s", shu.Processed, shu.TotalDistributed.StringFixed(0))

	seracoin, err := DistributeSeracoin(db, periodStart, periodEnd, totalPV)
	if err != nil {
		return nil, err
	}
	log.Printf("[Settlement] SERACOIN: %d member, nilai Rp%s", seracoin.Processed, seracoin.TotalDistributed.StringFixed(0))

	if err := markTurnoverSettled(db); err != nil {
		return nil, err
	}

	if err := claim.MarkSettled(db); err != nil {
		return nil, err
	}

	return &SettlementResult{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalPV:     totalPV,
		SHU:         shu,
		Seracoin:    seracoin,
	}, nil
}

func markTurnoverSettled(db *gorm.DB) error {
	now := time.Now()
	return db.Model(&models.NationalTurnover{}).
		Where("is_settled = ?", false).
		Updates(map[string]interface{}{
			"is_settled": true,
			"settled_at": now,
		}).Error
}

// WeeklyCheckResult adalah ringkasan cek repurchase mingguan.
type WeeklyCheckResult struct {
	MetRequirement    int `json:"met_requirement"`
	FailedRequirement int `json:"failed_requirement"`
	TotalChecked      int `json:"total_checked"`
}

// RunWeeklyRepurchaseCheck menghitung siapa yang memenuhi syarat
// repurchase mingguan 15 PV, lalu me-reset counter mingguan seluruh
// member aktif untuk pekan berikutnya. Eligibilitas SHU sendiri dicek
// saat settlement, bukan di sini.
func RunWeeklyRepurchaseCheck(db *gorm.DB) (*WeeklyCheckResult, error) {
	var members []models.Member
	if err := db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, err
	}

	minWeekly := decimal.NewFromInt(consts.SHUMinWeeklyRepurchase)
	result := &WeeklyCheckResult{TotalChecked: len(members)}

	for _, member := range members {
		if member.WeeklyRepurchase.GreaterThanOrEqual(minWeekly) {
			result.MetRequirement++
		} else {
			result.FailedRequirement++
		}
	}

	now := time.Now()
	err := db.Model(&models.Member{}).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{
			"weekly_repurchase_pv": decimal.Zero,
			"last_repurchase_at":   now,
		}).Error
	if err != nil {
		return nil, err
	}

	log.Printf("[WeeklyCheck] %d memenuhi, %d gagal dari %d member",
		result.MetRequirement, result.FailedRequirement, result.TotalChecked)

	return result, nil
}

// DefaultSettlementWindow mengembalikan jendela dua minggu yang berakhir
// sekarang, dinormalkan ke tengah malam UTC.
func DefaultSettlementWindow() (time.Time, time.Time) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -14)
	return start, end
}
