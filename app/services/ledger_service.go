package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Primitif ledger. Setiap mutasi saldo selalu sepaket dengan satu baris
// Transaction di dalam transaction boundary yang sama: tidak boleh ada
// audit row tanpa perubahan saldo, dan sebaliknya. Saldo selalu digeser
// lewat ekspresi increment di SQL, bukan nilai absolut hasil baca di Go;
// dua mutasi serentak pada wallet yang sama tidak bisa saling menimpa.

// CreditBalance menambah saldo utama member dan mencatat transaksinya.
func CreditBalance(db *gorm.DB, memberID uint, amount decimal.Decimal, description, txType string) error {
	if !amount.IsPositive() {
		return ErrValidation
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return creditBalanceTx(tx, memberID, amount, decimal.Zero, description, txType)
	})
}

// creditBalanceTx adalah varian yang dipakai di dalam transaction yang
// sudah berjalan (registrasi, settlement).
func creditBalanceTx(tx *gorm.DB, memberID uint, amount, pvAmount decimal.Decimal, description, txType string) error {
	result := tx.Model(&models.Wallet{}).
		Where("member_id = ?", memberID).
		Update("main_balance", gorm.Expr("main_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wallet member %d: %w", memberID, ErrNotFound)
	}

	record := models.Transaction{
		MemberID:    memberID,
		Type:        txType,
		Amount:      amount,
		PVAmount:    pvAmount,
		Description: description,
		Status:      consts.TxStatusCompleted,
	}

	return tx.Create(&record).Error
}

// DebitBalance mengurangi saldo utama. Saldo kurang = hasil ditolak
// (ErrInsufficientBalance), bukan panic, dan tanpa mutasi apa pun.
func DebitBalance(db *gorm.DB, memberID uint, amount decimal.Decimal, description, txType string) error {
	if !amount.IsPositive() {
		return ErrValidation
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return debitBalanceTx(tx, memberID, amount, decimal.Zero, description, txType)
	})
}

func debitBalanceTx(tx *gorm.DB, memberID uint, amount, pvAmount decimal.Decimal, description, txType string) error {
	// Cek saldo dan pengurangan dalam satu UPDATE bersyarat; dua debit
	// serentak tidak bisa sama-sama lolos dari saldo yang sama.
	result := tx.Model(&models.Wallet{}).
		Where("member_id = ? AND main_balance >= ?", memberID, amount).
		Update("main_balance", gorm.Expr("main_balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		walletModel := models.Wallet{}
		if _, err := walletModel.FindByMemberID(tx, memberID); err != nil {
			return fmt.Errorf("wallet member %d: %w", memberID, ErrNotFound)
		}
		return ErrInsufficientBalance
	}

	record := models.Transaction{
		MemberID:    memberID,
		Type:        txType,
		Amount:      amount.Neg(),
		PVAmount:    pvAmount,
		Description: description,
		Status:      consts.TxStatusCompleted,
	}

	return tx.Create(&record).Error
}

// AddToNationalTurnover menambahkan PV ke baris omzet nasional hari ini
// (UTC, dinormalkan ke tengah malam). Baris dibuat lazy per hari; baris
// belum-settled hari sebelumnya tetap menumpuk ke pool periode berjalan.
func AddToNationalTurnover(tx *gorm.DB, pvAmount decimal.Decimal) error {
	if !pvAmount.IsPositive() {
		return ErrValidation
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	rupiah := pvAmount.Mul(decimal.NewFromInt(consts.PVToRupiah))

	result := tx.Model(&models.NationalTurnover{}).
		Where("date = ? AND is_settled = ?", today, false).
		Updates(map[string]interface{}{
			"total_pv":     gorm.Expr("total_pv + ?", pvAmount),
			"total_rupiah": gorm.Expr("total_rupiah + ?", rupiah),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Baris hari ini belum ada. Dua create serentak paling buruk
	// menghasilkan dua baris untuk hari yang sama; pool dibaca lewat SUM
	// seluruh baris belum-settled, jadi totalnya tetap utuh.
	row := models.NationalTurnover{
		Date:        today,
		TotalPV:     pvAmount,
		TotalRupiah: rupiah,
		PeriodType:  consts.SettlementDaily,
	}
	return tx.Create(&row).Error
}

// addMemberPV menambahkan PV ke field personal/akumulasi/repurchase
// mingguan seorang member.
func addMemberPV(tx *gorm.DB, memberID uint, pvAmount decimal.Decimal) error {
	now := time.Now()
	result := tx.Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"personal_pv":          gorm.Expr("personal_pv + ?", pvAmount),
			"accumulated_pv":       gorm.Expr("accumulated_pv + ?", pvAmount),
			"weekly_repurchase_pv": gorm.Expr("weekly_repurchase_pv + ?", pvAmount),
			"last_repurchase_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("member %d: %w", memberID, ErrNotFound)
	}

	return nil
}
