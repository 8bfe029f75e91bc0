package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Ambang peringkat berdasarkan akumulasi PV, urut dari tertinggi.
var rankThresholds = []struct {
	Rank string
	PV   decimal.Decimal
}{
	{consts.RankCrown, decimal.NewFromInt(3000)},
	{consts.RankDiamond, decimal.NewFromInt(1000)},
	{consts.RankGold, decimal.NewFromInt(700)},
	{consts.RankSilver, decimal.NewFromInt(500)},
	{consts.RankBronze, decimal.NewFromInt(280)},
	{consts.RankEmerald, decimal.NewFromInt(200)},
	{consts.RankSapphire, decimal.NewFromInt(150)},
}

// CalculateRank memetakan akumulasi PV ke peringkat.
func CalculateRank(accumulatedPV decimal.Decimal) string {
	for _, tier := range rankThresholds {
		if accumulatedPV.GreaterThanOrEqual(tier.PV) {
			return tier.Rank
		}
	}
	return consts.RankNone
}

// ProcessRankUpgrades menaikkan peringkat member yang lolos ambang
// (promosi saja, tidak pernah turun), mencatat riwayat, membuka reward
// yang sesuai, dan mengecek aktivasi Plan C/D.
func ProcessRankUpgrades(db *gorm.DB) (*RunSummary, error) {
	summary := newRunSummary()

	var members []models.Member
	if err := db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, err
	}

	for _, member := range members {
		m := member
		err := db.Transaction(func(tx *gorm.DB) error {
			upgraded, err := upgradeRankForMember(tx, &m)
			if err != nil {
				return err
			}
			if upgraded {
				summary.Processed++
			}

			if err := checkAndActivatePlanC(tx, &m); err != nil {
				return err
			}
			return checkAndActivatePlanD(tx, &m)
		})
		if err != nil {
			summary.Fail(m.ID, err)
		}
	}

	return summary, nil
}

func upgradeRankForMember(tx *gorm.DB, member *models.Member) (bool, error) {
	newRank := CalculateRank(member.AccumulatedPV)
	if newRank == consts.RankNone || newRank == member.Rank {
		return false, nil
	}

	currentIdx := member.RankIndex()
	newIdx := 0
	for i, r := range consts.RankOrder {
		if r == newRank {
			newIdx = i
		}
	}
	if newIdx <= currentIdx {
		return false, nil
	}

	if err := tx.Model(member).Update("rank", newRank).Error; err != nil {
		return false, err
	}

	history := models.RankHistory{MemberID: member.ID, Rank: newRank}
	if err := tx.Create(&history).Error; err != nil {
		return false, err
	}

	if err := Notify(tx, member.ID, "Naik Peringkat!",
		fmt.Sprintf("Selamat! Anda naik peringkat ke %s", strings.ToUpper(newRank)),
		consts.NotifRankUp, true); err != nil {
		return false, err
	}

	if err := unlockRewards(tx, member, newRank); err != nil {
		return false, err
	}

	member.Rank = newRank
	return true, nil
}

// unlockRewards membuka reward untuk peringkat baru. Dedup lewat unique
// index (member, reward): klaim yang sudah ada dibiarkan.
func unlockRewards(tx *gorm.DB, member *models.Member, rank string) error {
	var rewards []models.Reward
	err := tx.Where("required_rank = ? AND is_active = ?", rank, true).Find(&rewards).Error
	if err != nil {
		return err
	}

	for _, reward := range rewards {
		if member.AccumulatedPV.LessThan(reward.RequiredPV) {
			continue
		}

		var existing models.MemberReward
		err := tx.Where("member_id = ? AND reward_id = ?", member.ID, reward.ID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		claim := models.MemberReward{
			MemberID: member.ID,
			RewardID: reward.ID,
			Status:   consts.TxStatusPending,
		}
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}

		if err := Notify(tx, member.ID, "Reward Tersedia!",
			fmt.Sprintf("Anda berhak mendapatkan reward: %s", reward.Name),
			consts.NotifSystem, true); err != nil {
			return err
		}
	}

	return nil
}

// checkAndActivatePlanC mengaktifkan Plan C saat 7 HU kiri dan 7 HU
// kanan tercapai. Flag satu arah: sekali aktif tidak pernah dinonaktifkan.
func checkAndActivatePlanC(tx *gorm.DB, member *models.Member) error {
	if member.PlanCActive {
		return nil
	}

	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(tx, member.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	if node.LeftGroupHU < consts.PlanCActivationHU || node.RightGroupHU < consts.PlanCActivationHU {
		return nil
	}

	if err := tx.Model(member).Update("plan_c_active", true).Error; err != nil {
		return err
	}
	member.PlanCActive = true

	return Notify(tx, member.ID, "Plan C Aktif!",
		"Selamat! Anda telah mengaktifkan Plan C. Bonus titik RO, reward, dan komunitas sekarang tersedia.",
		consts.NotifSystem, true)
}

// checkAndActivatePlanD mengaktifkan Plan D saat 15/15 HU tercapai.
func checkAndActivatePlanD(tx *gorm.DB, member *models.Member) error {
	if member.PlanDActive {
		return nil
	}

	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(tx, member.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	if node.LeftGroupHU < consts.PlanDActivationHU || node.RightGroupHU < consts.PlanDActivationHU {
		return nil
	}

	if err := tx.Model(member).Update("plan_d_active", true).Error; err != nil {
		return err
	}
	member.PlanDActive = true

	return Notify(tx, member.ID, "Plan D Aktif!",
		"Selamat! Anda telah mengaktifkan Plan D. Bonus tambahan sekarang tersedia.",
		consts.NotifSystem, true)
}

// CalculatePlanCBonuses membayar bonus komunitas Rp2.000 per HU seimbang
// untuk member yang Plan C-nya aktif.
func CalculatePlanCBonuses(db *gorm.DB) (*RunSummary, error) {
	summary := newRunSummary()

	var members []models.Member
	err := db.Where("is_active = ? AND plan_c_active = ?", true, true).Find(&members).Error
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		m := member
		err := db.Transaction(func(tx *gorm.DB) error {
			paid, err := payKomunitasForMember(tx, &m)
			if err != nil {
				return err
			}
			if paid.IsPositive() {
				summary.Processed++
				summary.TotalDistributed = summary.TotalDistributed.Add(paid)
			}
			return nil
		})
		if err != nil {
			summary.Fail(m.ID, err)
		}
	}

	return summary, nil
}

func payKomunitasForMember(tx *gorm.DB, member *models.Member) (decimal.Decimal, error) {
	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(tx, member.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	balancedHU := node.BalancedHU()
	if balancedHU <= 0 {
		return decimal.Zero, nil
	}

	amount := decimal.NewFromInt(int64(balancedHU) * consts.PlanCKomunitasRupiah)

	bonus := models.Bonus{
		MemberID: member.ID,
		Type:     consts.BonusKomunitas,
		Amount:   amount,
		PVBasis:  decimal.NewFromInt(int64(balancedHU)),
		Status:   consts.TxStatusCompleted,
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return decimal.Zero, err
	}

	desc := fmt.Sprintf("Bonus komunitas Plan C: %d HU seimbang", balancedHU)
	if err := creditBalanceTx(tx, member.ID, amount, decimal.Zero, desc, consts.TxBonusCredit); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}
