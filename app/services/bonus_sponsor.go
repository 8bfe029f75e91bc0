package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// paySponsorBonus membayar bonus sponsor 20% dari nilai rupiah PV yang
// dibeli recruit, langsung saat kejadian. Member non-aktif tidak dibayar.
func paySponsorBonus(tx *gorm.DB, sponsorID, sourceMemberID uint, pvAmount decimal.Decimal) error {
	memberModel := models.Member{}
	sponsor, err := memberModel.FindByID(tx, sponsorID)
	if err != nil {
		return fmt.Errorf("sponsor %d: %w", sponsorID, ErrNotFound)
	}
	if !sponsor.IsActive {
		return nil
	}

	amount := pvToRupiah(pvAmount).Mul(decimal.NewFromFloat(consts.SponsorBonusRate))

	bonus := models.Bonus{
		MemberID:       sponsorID,
		Type:           consts.BonusSponsor,
		Amount:         amount,
		PVBasis:        pvAmount,
		SourceMemberID: &sourceMemberID,
		Status:         consts.TxStatusCompleted,
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return err
	}

	desc := fmt.Sprintf("Bonus sponsor dari pembelian %s PV", pvAmount.String())
	if err := creditBalanceTx(tx, sponsorID, amount, pvAmount, desc, consts.TxBonusCredit); err != nil {
		return err
	}

	return Notify(tx, sponsorID, "Bonus Sponsor",
		fmt.Sprintf("Anda menerima bonus sponsor Rp%s", amount.StringFixed(0)),
		consts.NotifBonusReceived, true)
}
