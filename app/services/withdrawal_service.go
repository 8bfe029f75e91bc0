package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Alur penarikan dana dengan persetujuan ganda:
// pending -> bendahara_approved -> direktur_approved -> completed.
// Dana dibekukan sejak permintaan dibuat; kembali ke saldo utama hanya
// lewat penolakan atau kegagalan disbursement.

// RequestWithdrawal membekukan dana dan membuat permintaan pending.
func RequestWithdrawal(db *gorm.DB, memberID uint, amount decimal.Decimal, bankName, accountNumber, accountHolder string) (*models.Withdrawal, error) {
	if amount.LessThan(decimal.NewFromInt(consts.MinWithdrawalRupiah)) {
		return nil, ErrValidation
	}
	if bankName == "" || accountNumber == "" || accountHolder == "" {
		return nil, ErrValidation
	}

	var withdrawal models.Withdrawal

	err := db.Transaction(func(tx *gorm.DB) error {
		memberModel := models.Member{}
		member, err := memberModel.FindByID(tx, memberID)
		if err != nil {
			return ErrNotFound
		}

		// Pembekuan bersyarat: saldo dicek dan digeser dalam satu UPDATE,
		// dua permintaan serentak tidak bisa membekukan dana yang sama.
		result := tx.Model(&models.Wallet{}).
			Where("member_id = ? AND main_balance >= ?", memberID, amount).
			Updates(map[string]interface{}{
				"main_balance":   gorm.Expr("main_balance - ?", amount),
				"frozen_balance": gorm.Expr("frozen_balance + ?", amount),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		withdrawal = models.Withdrawal{
			MemberID:      memberID,
			Amount:        amount,
			BankName:      bankName,
			AccountNumber: accountNumber,
			AccountHolder: accountHolder,
			Status:        consts.WithdrawalPending,
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}

		return NotifyRole(tx, consts.RoleBendahara, "Permintaan Penarikan Dana",
			fmt.Sprintf("%s meminta penarikan Rp%s ke %s %s",
				member.Name, amount.StringFixed(0), bankName, accountNumber),
			consts.NotifWithdrawalRequest, true)
	})
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

// BendaharaApprove adalah persetujuan tahap pertama.
func BendaharaApprove(db *gorm.DB, withdrawalID, bendaharaID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		withdrawalModel := models.Withdrawal{}
		withdrawal, err := withdrawalModel.FindByID(tx, withdrawalID)
		if err != nil {
			return ErrNotFound
		}
		if withdrawal.Status != consts.WithdrawalPending {
			return ErrInvalidStatus
		}

		now := time.Now()
		if err := tx.Model(withdrawal).Updates(map[string]interface{}{
			"status":                consts.WithdrawalBendaharaApproved,
			"bendahara_id":          bendaharaID,
			"bendahara_approved_at": now,
		}).Error; err != nil {
			return err
		}

		return NotifyRole(tx, consts.RoleDirektur, "Penarikan Menunggu Persetujuan Direktur",
			fmt.Sprintf("Penarikan Rp%s telah disetujui Bendahara. Menunggu persetujuan Direktur.",
				withdrawal.Amount.StringFixed(0)),
			consts.NotifWithdrawalRequest, true)
	})
}

// DirekturApprove adalah persetujuan final. Di sini hanya status yang
// bergeser dan payout diminta ke gateway; dana beku baru dicairkan saat
// webhook mengkonfirmasi COMPLETED (lihat HandleDisbursementStatus).
// Penarikan direktur_approved yang belum punya disbursement id (crash
// atau gateway gagal setelah commit status) boleh dipanggil ulang; id
// eksternal yang sama membuat retry idempotent di sisi gateway.
func DirekturApprove(db *gorm.DB, gateway DisbursementGateway, withdrawalID, direkturID uint) error {
	var withdrawal *models.Withdrawal

	err := db.Transaction(func(tx *gorm.DB) error {
		withdrawalModel := models.Withdrawal{}
		found, err := withdrawalModel.FindByID(tx, withdrawalID)
		if err != nil {
			return ErrNotFound
		}

		switch {
		case found.Status == consts.WithdrawalBendaharaApproved:
			now := time.Now()
			if err := tx.Model(found).Updates(map[string]interface{}{
				"status":               consts.WithdrawalDirekturApproved,
				"direktur_id":          direkturID,
				"direktur_approved_at": now,
			}).Error; err != nil {
				return err
			}
		case found.Status == consts.WithdrawalDirekturApproved && found.DisbursementID == "":
			// Retry panggilan gateway yang belum pernah berhasil.
		default:
			return ErrInvalidStatus
		}

		withdrawal = found
		return nil
	})
	if err != nil {
		return err
	}

	// Panggilan gateway di luar transaction DB. Gagal di sini membiarkan
	// status direktur_approved dengan disbursement id kosong; panggilan
	// DirekturApprove berikutnya mengulang payout dengan id yang sama.
	result, err := gateway.CreateDisbursement(DisbursementParams{
		ExternalID:        fmt.Sprintf("WD-%d", withdrawal.ID),
		Amount:            withdrawal.Amount,
		BankCode:          withdrawal.BankName,
		AccountNumber:     withdrawal.AccountNumber,
		AccountHolderName: withdrawal.AccountHolder,
		Description:       fmt.Sprintf("Penarikan dana member %d", withdrawal.MemberID),
	})
	if err != nil {
		return err
	}

	return db.Model(&models.Withdrawal{}).Where("id = ?", withdrawal.ID).
		Update("disbursement_id", result.ID).Error
}

// RejectWithdrawal menolak permintaan dan mencairkan kembali dana beku.
// Hanya sah dari pending atau bendahara_approved.
func RejectWithdrawal(db *gorm.DB, withdrawalID, rejectedByID uint, reason string) error {
	if reason == "" {
		return ErrValidation
	}

	return db.Transaction(func(tx *gorm.DB) error {
		withdrawalModel := models.Withdrawal{}
		withdrawal, err := withdrawalModel.FindByID(tx, withdrawalID)
		if err != nil {
			return ErrNotFound
		}
		if withdrawal.Status != consts.WithdrawalPending &&
			withdrawal.Status != consts.WithdrawalBendaharaApproved {
			return ErrInvalidStatus
		}

		if err := unfreezeWithdrawal(tx, withdrawal); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(withdrawal).Updates(map[string]interface{}{
			"status":           consts.WithdrawalRejected,
			"rejected_by_id":   rejectedByID,
			"rejected_at":      now,
			"rejection_reason": reason,
		}).Error; err != nil {
			return err
		}

		return Notify(tx, withdrawal.MemberID, "Penarikan Dana Ditolak",
			fmt.Sprintf("Penarikan Rp%s ditolak. Alasan: %s",
				withdrawal.Amount.StringFixed(0), reason),
			consts.NotifWithdrawalRejected, true)
	})
}

// HandleDisbursementStatus memproses callback status payout dari gateway.
// COMPLETED menyelesaikan penarikan dan mengurangi dana beku; FAILED
// menolak penarikan dan mengembalikan dana ke saldo utama. Status lain
// diabaikan.
func HandleDisbursementStatus(db *gorm.DB, disbursementID, status string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var withdrawal models.Withdrawal
		err := tx.Where("disbursement_id = ?", disbursementID).First(&withdrawal).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if withdrawal.Status != consts.WithdrawalDirekturApproved {
			return ErrInvalidStatus
		}

		switch status {
		case DisbursementCompleted:
			return completeWithdrawal(tx, &withdrawal)
		case DisbursementFailed:
			if err := unfreezeWithdrawal(tx, &withdrawal); err != nil {
				return err
			}

			now := time.Now()
			if err := tx.Model(&withdrawal).Updates(map[string]interface{}{
				"status":           consts.WithdrawalRejected,
				"rejected_at":      now,
				"rejection_reason": "Disbursement gagal di gateway",
			}).Error; err != nil {
				return err
			}

			return Notify(tx, withdrawal.MemberID, "Penarikan Dana Gagal",
				fmt.Sprintf("Penarikan Rp%s gagal diproses. Dana dikembalikan ke saldo Anda.",
					withdrawal.Amount.StringFixed(0)),
				consts.NotifWithdrawalRejected, true)
		default:
			return nil
		}
	})
}

func completeWithdrawal(tx *gorm.DB, withdrawal *models.Withdrawal) error {
	result := tx.Model(&models.Wallet{}).
		Where("member_id = ?", withdrawal.MemberID).
		Updates(map[string]interface{}{
			"frozen_balance":  gorm.Expr("frozen_balance - ?", withdrawal.Amount),
			"total_withdrawn": gorm.Expr("total_withdrawn + ?", withdrawal.Amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	now := time.Now()
	if err := tx.Model(withdrawal).Updates(map[string]interface{}{
		"status":       consts.WithdrawalCompleted,
		"completed_at": now,
	}).Error; err != nil {
		return err
	}

	record := models.Transaction{
		MemberID:    withdrawal.MemberID,
		Type:        consts.TxWithdrawal,
		Amount:      withdrawal.Amount.Neg(),
		Description: fmt.Sprintf("Penarikan ke %s %s", withdrawal.BankName, withdrawal.AccountNumber),
		Status:      consts.TxStatusCompleted,
		ReferenceID: fmt.Sprintf("WD-%d", withdrawal.ID),
	}
	if err := tx.Create(&record).Error; err != nil {
		return err
	}

	return Notify(tx, withdrawal.MemberID, "Penarikan Dana Berhasil",
		fmt.Sprintf("Penarikan Rp%s telah diproses ke %s %s",
			withdrawal.Amount.StringFixed(0), withdrawal.BankName, withdrawal.AccountNumber),
		consts.NotifWithdrawalCompleted, true)
}

// unfreezeWithdrawal mengembalikan dana beku ke saldo utama.
func unfreezeWithdrawal(tx *gorm.DB, withdrawal *models.Withdrawal) error {
	result := tx.Model(&models.Wallet{}).
		Where("member_id = ?", withdrawal.MemberID).
		Updates(map[string]interface{}{
			"main_balance":   gorm.Expr("main_balance + ?", withdrawal.Amount),
			"frozen_balance": gorm.Expr("frozen_balance - ?", withdrawal.Amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
