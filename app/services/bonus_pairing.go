package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// CalculatePairingBonuses membayar bonus pasangan 20% dari PV yang
// terpasangkan (min kiri/kanan) untuk setiap member dengan akumulasi
// PV >= 150. PV yang sudah dibayar di-flush dari kedua sisi supaya tidak
// pernah dibayar dua kali. Tiap member diproses di transaction sendiri;
// kegagalan satu member tidak menghentikan member lain.
func CalculatePairingBonuses(db *gorm.DB) (*RunSummary, error) {
	summary := newRunSummary()

	var members []models.Member
	if err := db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, err
	}

	minPV := decimal.NewFromInt(consts.PairingMinAccumulatedPV)

	for _, member := range members {
		if member.AccumulatedPV.LessThan(minPV) {
			continue
		}

		m := member
		err := db.Transaction(func(tx *gorm.DB) error {
			paid, err := payPairingForMember(tx, &m)
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

func payPairingForMember(tx *gorm.DB, member *models.Member) (decimal.Decimal, error) {
	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(tx, member.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	pairedPV := decimal.Min(node.LeftGroupPV, node.RightGroupPV)
	if !pairedPV.IsPositive() {
		return decimal.Zero, nil
	}

	amount := pvToRupiah(pairedPV).Mul(decimal.NewFromFloat(consts.PairingBonusRate))

	bonus := models.Bonus{
		MemberID: member.ID,
		Type:     consts.BonusPairing,
		Amount:   amount,
		PVBasis:  pairedPV,
		Status:   consts.TxStatusCompleted,
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return decimal.Zero, err
	}

	desc := fmt.Sprintf("Bonus pasangan 20%% dari %s PV terpasangkan", pairedPV.String())
	if err := creditBalanceTx(tx, member.ID, amount, pairedPV, desc, consts.TxBonusCredit); err != nil {
		return decimal.Zero, err
	}

	// Flush PV yang sudah terpasangkan dari kedua sisi.
	if err := tx.Model(node).Updates(map[string]interface{}{
		"left_group_pv":  node.LeftGroupPV.Sub(pairedPV),
		"right_group_pv": node.RightGroupPV.Sub(pairedPV),
	}).Error; err != nil {
		return decimal.Zero, err
	}

	if err := Notify(tx, member.ID, "Bonus Pasangan Diterima",
		fmt.Sprintf("Anda menerima bonus pasangan Rp%s", amount.StringFixed(0)),
		consts.NotifBonusReceived, false); err != nil {
		return decimal.Zero, err
	}

	if err := payMatchingBonus(tx, member, amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// payMatchingBonus meneruskan 20% dari bonus pasangan downline ke sponsor
// langsungnya. Tanpa sponsor = tidak ada yang dibayar.
func payMatchingBonus(tx *gorm.DB, source *models.Member, pairingAmount decimal.Decimal) error {
	if source.SponsorID == nil {
		return nil
	}

	memberModel := models.Member{}
	sponsor, err := memberModel.FindByID(tx, *source.SponsorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if !sponsor.IsActive {
		return nil
	}

	amount := pairingAmount.Mul(decimal.NewFromFloat(consts.MatchingBonusRate))
	if !amount.IsPositive() {
		return nil
	}

	bonus := models.Bonus{
		MemberID:       sponsor.ID,
		Type:           consts.BonusMatching,
		Amount:         amount,
		PVBasis:        pairingAmount,
		SourceMemberID: &source.ID,
		Status:         consts.TxStatusCompleted,
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return err
	}

	desc := "Bonus matching 20% dari bonus pasangan downline"
	if err := creditBalanceTx(tx, sponsor.ID, amount, decimal.Zero, desc, consts.TxBonusCredit); err != nil {
		return err
	}

	return Notify(tx, sponsor.ID, "Bonus Matching Diterima",
		fmt.Sprintf("Anda menerima bonus matching Rp%s", amount.StringFixed(0)),
		consts.NotifBonusReceived, false)
}
