package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// RegistrationInput adalah data pendaftaran member baru.
type RegistrationInput struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	PinCode       string  `json:"pin_code"`
	SponsorCode   string  `json:"sponsor_code"`
	PreferredSide *string `json:"preferred_side"`
}

// RegistrationResult dikembalikan setelah pendaftaran sukses.
type RegistrationResult struct {
	MemberID     uint   `json:"member_id"`
	ReferralCode string `json:"referral_code"`
	WalletID     uint   `json:"wallet_id"`
	TreeNodeID   uint   `json:"tree_node_id"`
}

// RegisterMember menjalankan seluruh pendaftaran dalam satu transaction:
// validasi PIN dan sponsor, pembuatan member + wallet + node, propagasi
// PV dan HU, bonus sponsor dan belanja pribadi, komisi stokis, omzet
// nasional. Gagal di langkah mana pun berarti rollback total — tidak ada
// member setengah jadi.
func RegisterMember(db *gorm.DB, input RegistrationInput) (*RegistrationResult, error) {
	if input.UserID == "" || input.Name == "" || input.PinCode == "" {
		return nil, ErrValidation
	}
	if input.PreferredSide != nil &&
		*input.PreferredSide != consts.PositionLeft &&
		*input.PreferredSide != consts.PositionRight {
		return nil, ErrValidation
	}

	var result RegistrationResult

	err := db.Transaction(func(tx *gorm.DB) error {
		memberModel := models.Member{}

		if _, err := memberModel.FindByUserID(tx, input.UserID); err == nil {
			return ErrAlreadyRegistered
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		// Sponsor opsional: tanpa sponsor, member jadi root jaringan baru.
		var sponsor *models.Member
		if code := strings.ToUpper(strings.TrimSpace(input.SponsorCode)); code != "" {
			found, err := memberModel.FindByReferralCode(tx, code)
			if err != nil {
				return ErrSponsorNotFound
			}
			sponsor = found
		}

		pinModel := models.Pin{}
		pin, err := pinModel.FindByCode(tx, strings.ToUpper(strings.TrimSpace(input.PinCode)))
		if err != nil || pin.Status != consts.PinAvailable {
			return ErrInvalidPin
		}

		referralCode, err := generateReferralCode(tx)
		if err != nil {
			return err
		}

		now := time.Now()
		member := models.Member{
			UserID:           input.UserID,
			Name:             input.Name,
			Phone:            input.Phone,
			Address:          input.Address,
			ReferralCode:     referralCode,
			Role:             consts.RoleMember,
			Rank:             consts.RankNone,
			PersonalPV:       pin.PVValue,
			AccumulatedPV:    pin.PVValue,
			LastRepurchaseAt: &now,
			IsActive:         true,
		}
		if sponsor != nil {
			member.SponsorID = &sponsor.ID
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		wallet := models.Wallet{MemberID: member.ID}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}

		link := models.ReferralLink{MemberID: member.ID, Code: member.ReferralCode}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		if err := consumePin(tx, pin.Code, member.ID); err != nil {
			return err
		}

		var node *models.TreeNode
		if sponsor != nil {
			node, err = placeMemberTx(tx, member.ID, sponsor.ID, input.PreferredSide, input.PreferredSide == nil)
		} else {
			node, err = ensureNode(tx, member.ID)
		}
		if err != nil {
			return err
		}

		if err := PropagateVolumeUp(tx, member.ID, pin.PVValue); err != nil {
			return err
		}

		if err := AddToNationalTurnover(tx, pin.PVValue); err != nil {
			return err
		}

		record := models.Transaction{
			MemberID:    member.ID,
			Type:        consts.TxRegistration,
			Amount:      pin.Price.Neg(),
			PVAmount:    pin.PVValue,
			Description: fmt.Sprintf("Pendaftaran dengan PIN %s", pin.Code),
			Status:      consts.TxStatusCompleted,
			ReferenceID: pin.Code,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if sponsor != nil {
			if err := paySponsorBonus(tx, sponsor.ID, member.ID, pin.PVValue); err != nil {
				return err
			}
		}

		if err := payPersonalShoppingBonus(tx, member.ID, pin.PVValue); err != nil {
			return err
		}

		if pin.StokisID != nil {
			if err := creditStokisCommissionTx(tx, *pin.StokisID, pin.PVValue); err != nil {
				return err
			}
		}

		if sponsor != nil {
			if err := bumpReferralRegistration(tx, sponsor.ID); err != nil {
				return err
			}

			if err := Notify(tx, sponsor.ID, "Member Baru",
				fmt.Sprintf("%s bergabung di jaringan Anda", member.Name),
				consts.NotifReferralJoined, true); err != nil {
				return err
			}
		}

		result = RegistrationResult{
			MemberID:     member.ID,
			ReferralCode: member.ReferralCode,
			WalletID:     wallet.ID,
			TreeNodeID:   node.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// consumePin mengubah available -> used lewat update bersyarat. Dua
// pendaftaran serentak dengan PIN yang sama: tepat satu yang menang,
// sisanya ErrInvalidPin.
func consumePin(tx *gorm.DB, code string, memberID uint) error {
	now := time.Now()

	result := tx.Model(&models.Pin{}).
		Where("code = ? AND status = ?", code, consts.PinAvailable).
		Updates(map[string]interface{}{
			"status":            consts.PinUsed,
			"used_by_member_id": memberID,
			"used_at":           now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidPin
	}

	return nil
}

// generateReferralCode membuat kode 8 karakter dari UUID, retry kalau
// bentrok dengan kode yang sudah ada.
func generateReferralCode(tx *gorm.DB) (string, error) {
	memberModel := models.Member{}

	for attempt := 0; attempt < 5; attempt++ {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		code := strings.ToUpper(raw[:8])

		_, err := memberModel.FindByReferralCode(tx, code)
		if err == gorm.ErrRecordNotFound {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", ErrCodeCollision
}

// bumpReferralRegistration menambah counter pendaftaran pada link
// referral sponsor, kalau linknya ada.
func bumpReferralRegistration(tx *gorm.DB, sponsorID uint) error {
	var link models.ReferralLink

	err := tx.Where("member_id = ?", sponsorID).First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	return tx.Model(&link).Update("registration_count", link.RegistrationCount+1).Error
}

// pvToRupiah mengalikan PV dengan kurs tetap sistem.
func pvToRupiah(pv decimal.Decimal) decimal.Decimal {
	return pv.Mul(decimal.NewFromInt(consts.PVToRupiah))
}
