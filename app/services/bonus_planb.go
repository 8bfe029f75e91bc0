package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// CalculatePlanBBonuses membayar bonus titik Rp1.000 per HU (kiri +
// kanan) untuk member aktif dengan akumulasi PV >= 150. Member yang baru
// lolos ambang diaktifkan Plan B-nya sekalian.
func CalculatePlanBBonuses(db *gorm.DB) (*RunSummary, error) {
	summary := newRunSummary()

	var members []models.Member
	if err := db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, err
	}

	minPV := decimal.NewFromInt(consts.PlanBMinAccumulatedPV)

	for _, member := range members {
		if member.AccumulatedPV.LessThan(minPV) {
			continue
		}

		m := member
		err := db.Transaction(func(tx *gorm.DB) error {
			paid, err := payPlanBForMember(tx, &m)
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

func payPlanBForMember(tx *gorm.DB, member *models.Member) (decimal.Decimal, error) {
	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(tx, member.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	if !member.PlanBActive {
		if err := tx.Model(member).Update("plan_b_active", true).Error; err != nil {
			return decimal.Zero, err
		}
	}

	totalHU := node.TotalHU()
	if totalHU <= 0 {
		return decimal.Zero, nil
	}

	amount := decimal.NewFromInt(int64(totalHU) * consts.PlanBTitikRupiah)

	bonus := models.Bonus{
		MemberID: member.ID,
		Type:     consts.BonusTitik,
		Amount:   amount,
		PVBasis:  decimal.NewFromInt(int64(totalHU)),
		Status:   consts.TxStatusCompleted,
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return decimal.Zero, err
	}

	desc := fmt.Sprintf("Bonus titik Plan B: %d HU x Rp1.000", totalHU)
	if err := creditBalanceTx(tx, member.ID, amount, decimal.Zero, desc, consts.TxBonusCredit); err != nil {
		return decimal.Zero, err
	}

	if err := Notify(tx, member.ID, "Bonus Titik Plan B",
		fmt.Sprintf("Anda menerima bonus titik Rp%s (%d HU)", amount.StringFixed(0), totalHU),
		consts.NotifBonusReceived, false); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}
