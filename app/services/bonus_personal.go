package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// payPersonalShoppingBonus membayar cashback belanja pribadi 15% dari
// nilai rupiah PV, langsung saat kejadian.
func payPersonalShoppingBonus(tx *gorm.DB, memberID uint, pvAmount decimal.Decimal) error {
	amount := pvToRupiah(pvAmount).Mul(decimal.NewFromFloat(consts.PersonalBonusRate))

	bonus := models.Bonus{
		MemberID: memberID,
		Type:     consts.BonusPersonal,
		Amount:   amount,
		PVBasis:  pvAmount,
		Status:   consts.TxStatusCompleted,
	}
	if err := tx.Create(&bonus).Error; err != nil {
		return err
	}

	desc := fmt.Sprintf("Bonus belanja pribadi dari %s PV", pvAmount.String())
	if err := creditBalanceTx(tx, memberID, amount, pvAmount, desc, consts.TxBonusCredit); err != nil {
		return err
	}

	return Notify(tx, memberID, "Bonus Belanja Pribadi",
		fmt.Sprintf("Anda menerima bonus belanja pribadi Rp%s", amount.StringFixed(0)),
		consts.NotifBonusReceived, false)
}
