package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Batas band komisi stokis, dihitung dari akumulasi total PV terjual:
// 0-100 PV 4%, 101-300 PV 2%, di atas 300 PV 1%. Penjualan yang melewati
// batas band dipecah proporsional.
var commissionBands = []struct {
	UpTo decimal.Decimal // batas atas kumulatif, nol = tanpa batas
	Rate decimal.Decimal
}{
	{decimal.NewFromInt(100), decimal.NewFromFloat(0.04)},
	{decimal.NewFromInt(300), decimal.NewFromFloat(0.02)},
	{decimal.Zero, decimal.NewFromFloat(0.01)},
}

// CalculateTieredCommission menghitung komisi rupiah untuk penjualan
// sebesar newPV, dengan prevTotal sebagai akumulasi sebelum penjualan ini.
func CalculateTieredCommission(prevTotal, newPV decimal.Decimal) decimal.Decimal {
	if !newPV.IsPositive() {
		return decimal.Zero
	}

	commission := decimal.Zero
	remaining := newPV
	position := prevTotal

	for _, band := range commissionBands {
		if !remaining.IsPositive() {
			break
		}

		inBand := remaining
		if !band.UpTo.IsZero() {
			room := band.UpTo.Sub(position)
			if !room.IsPositive() {
				continue
			}
			if inBand.GreaterThan(room) {
				inBand = room
			}
		}

		commission = commission.Add(pvToRupiah(inBand).Mul(band.Rate))
		remaining = remaining.Sub(inBand)
		position = position.Add(inBand)
	}

	return commission.Round(0)
}

// creditStokisCommissionTx membayar komisi tier ke member pemilik stokis
// dan menggeser akumulasi total PV terjual.
func creditStokisCommissionTx(tx *gorm.DB, stokisID uint, pvAmount decimal.Decimal) error {
	stokisModel := models.Stokis{}
	stokis, err := stokisModel.FindByID(tx, stokisID)
	if err != nil {
		return fmt.Errorf("stokis %d: %w", stokisID, ErrNotFound)
	}

	commission := CalculateTieredCommission(stokis.TotalPVSold, pvAmount)

	if err := tx.Model(stokis).Updates(map[string]interface{}{
		"total_pv_sold":    gorm.Expr("total_pv_sold + ?", pvAmount),
		"total_commission": gorm.Expr("total_commission + ?", commission),
	}).Error; err != nil {
		return err
	}

	if commission.IsZero() {
		return nil
	}

	desc := fmt.Sprintf("Komisi penjualan %s PV", pvAmount.String())
	if err := creditBalanceTx(tx, stokis.MemberID, commission, pvAmount, desc, consts.TxBonusCredit); err != nil {
		return err
	}

	return Notify(tx, stokis.MemberID, "Komisi Stokis",
		fmt.Sprintf("Anda menerima komisi penjualan Rp%s", commission.StringFixed(0)),
		consts.NotifBonusReceived, false)
}

// CreateStokis mendaftarkan member sebagai stokis dengan nomor urut dan
// barcode unik.
func CreateStokis(db *gorm.DB, memberID uint, name, address, phone string) (*models.Stokis, error) {
	if name == "" {
		return nil, ErrValidation
	}

	var created models.Stokis

	err := db.Transaction(func(tx *gorm.DB) error {
		memberModel := models.Member{}
		member, err := memberModel.FindByID(tx, memberID)
		if err != nil {
			return ErrNotFound
		}

		stokisModel := models.Stokis{}
		if _, err := stokisModel.FindByMemberID(tx, memberID); err == nil {
			return ErrAlreadyRegistered
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		number, err := stokisModel.NextStokisNumber(tx)
		if err != nil {
			return err
		}

		suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		created = models.Stokis{
			MemberID:     memberID,
			StokisNumber: number,
			Name:         name,
			BarcodeData:  fmt.Sprintf("STOKIS-%d-%s", number, suffix),
			Address:      address,
			Phone:        phone,
			IsActive:     true,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		return tx.Model(member).Updates(map[string]interface{}{
			"role":        consts.RoleStokis,
			"warung_name": name,
			"warung_slug": slug.Make(name),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// GeneratePins membuat batch PIN pendaftaran. Kode 12 karakter alfanumerik
// kapital; stokisID opsional mengalokasikan batch ke stok stokis tersebut.
func GeneratePins(db *gorm.DB, stokisID, generatedByID *uint, count int) ([]models.Pin, error) {
	if count <= 0 || count > 500 {
		return nil, ErrValidation
	}

	var pins []models.Pin

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
			pin := models.Pin{
				Code:          code,
				StokisID:      stokisID,
				GeneratedByID: generatedByID,
				Price:         decimal.NewFromInt(consts.DefaultPinPrice),
				PVValue:       decimal.NewFromInt(consts.DefaultPinPV),
				Status:        consts.PinAvailable,
			}
			if err := tx.Create(&pin).Error; err != nil {
				return err
			}
			pins = append(pins, pin)
		}

		if stokisID != nil {
			return tx.Model(&models.Stokis{}).Where("id = ?", *stokisID).
				Update("pin_stock", gorm.Expr("pin_stock + ?", count)).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pins, nil
}

// SellPin menjual satu PIN milik stokis ke member. Harga didebit dari
// wallet pembeli dan masuk ke wallet pemilik stokis; PIN tetap available
// sampai dipakai mendaftar.
func SellPin(db *gorm.DB, stokisID, buyerMemberID uint) (*models.Pin, error) {
	var sold *models.Pin

	err := db.Transaction(func(tx *gorm.DB) error {
		stokisModel := models.Stokis{}
		stokis, err := stokisModel.FindByID(tx, stokisID)
		if err != nil {
			return ErrNotFound
		}

		var pin models.Pin
		err = tx.Where("stokis_id = ? AND status = ?", stokisID, consts.PinAvailable).
			Order("id").First(&pin).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrInsufficientStock
			}
			return err
		}

		desc := fmt.Sprintf("Pembelian PIN %s dari stokis %d", pin.Code, stokis.StokisNumber)
		if err := debitBalanceTx(tx, buyerMemberID, pin.Price, pin.PVValue, desc, consts.TxPinPurchase); err != nil {
			return err
		}

		if err := creditBalanceTx(tx, stokis.MemberID, pin.Price, pin.PVValue,
			fmt.Sprintf("Penjualan PIN %s", pin.Code), consts.TxPinPurchase); err != nil {
			return err
		}

		if err := tx.Model(stokis).Update("pin_stock", gorm.Expr("pin_stock - 1")).Error; err != nil {
			return err
		}

		sold = &pin
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sold, nil
}

// RequestPVPurchase membuat permintaan pembelian PV dari stokis. Metode
// wallet langsung didebit dan dikredit dalam transaction yang sama;
// manual_transfer menunggu konfirmasi stokis.
func RequestPVPurchase(db *gorm.DB, memberID, stokisID uint, pvAmount decimal.Decimal, paymentMethod string) (*models.PvPurchase, error) {
	if !pvAmount.IsPositive() {
		return nil, ErrValidation
	}
	if paymentMethod != consts.PaymentWallet && paymentMethod != consts.PaymentManualTransfer {
		return nil, ErrValidation
	}

	var purchase models.PvPurchase

	err := db.Transaction(func(tx *gorm.DB) error {
		stokisModel := models.Stokis{}
		stokis, err := stokisModel.FindByID(tx, stokisID)
		if err != nil {
			return ErrNotFound
		}
		if stokis.PvStock.LessThan(pvAmount) {
			return ErrInsufficientStock
		}

		purchase = models.PvPurchase{
			MemberID:      memberID,
			StokisID:      stokisID,
			PVAmount:      pvAmount,
			RupiahAmount:  pvToRupiah(pvAmount),
			Status:        consts.PvPurchasePending,
			PaymentMethod: paymentMethod,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		if paymentMethod == consts.PaymentWallet {
			desc := fmt.Sprintf("Pembelian %s PV dari stokis %d", pvAmount.String(), stokis.StokisNumber)
			if err := debitBalanceTx(tx, memberID, purchase.RupiahAmount, pvAmount, desc, consts.TxRepurchase); err != nil {
				return err
			}
			return confirmPVPurchaseTx(tx, &purchase)
		}

		return Notify(tx, stokis.MemberID, "Permintaan Pembelian PV",
			fmt.Sprintf("Permintaan %s PV menunggu konfirmasi transfer", pvAmount.String()),
			consts.NotifSystem, true)
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// ConfirmPVPurchase mengkonfirmasi pembelian manual_transfer yang pending.
func ConfirmPVPurchase(db *gorm.DB, purchaseID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		purchaseModel := models.PvPurchase{}
		purchase, err := purchaseModel.FindByID(tx, purchaseID)
		if err != nil {
			return ErrNotFound
		}
		if purchase.Status != consts.PvPurchasePending {
			return ErrInvalidStatus
		}

		return confirmPVPurchaseTx(tx, purchase)
	})
}

// RejectPVPurchase menolak pembelian pending. Tidak ada dana yang pernah
// dipegang untuk manual_transfer, jadi tidak ada refund.
func RejectPVPurchase(db *gorm.DB, purchaseID uint, reason string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		purchaseModel := models.PvPurchase{}
		purchase, err := purchaseModel.FindByID(tx, purchaseID)
		if err != nil {
			return ErrNotFound
		}
		if purchase.Status != consts.PvPurchasePending {
			return ErrInvalidStatus
		}

		now := time.Now()
		if err := tx.Model(purchase).Updates(map[string]interface{}{
			"status":           consts.PvPurchaseRejected,
			"rejected_at":      now,
			"rejection_reason": reason,
		}).Error; err != nil {
			return err
		}

		return Notify(tx, purchase.MemberID, "Pembelian PV Ditolak",
			fmt.Sprintf("Pembelian %s PV ditolak: %s", purchase.PVAmount.String(), reason),
			consts.NotifSystem, false)
	})
}

// confirmPVPurchaseTx menandai confirmed lalu mengeksekusi efek kredit PV.
func confirmPVPurchaseTx(tx *gorm.DB, purchase *models.PvPurchase) error {
	now := time.Now()
	if err := tx.Model(purchase).Updates(map[string]interface{}{
		"status":       consts.PvPurchaseConfirmed,
		"confirmed_at": now,
	}).Error; err != nil {
		return err
	}

	return processPVCredit(tx, purchase)
}

// processPVCredit adalah efek inti pembelian PV: stok stokis turun, PV
// member naik (personal, akumulasi, repurchase mingguan), omzet nasional
// bertambah, PV dipropagasikan ke leluhur, bonus belanja pribadi dan
// komisi stokis dibayar.
func processPVCredit(tx *gorm.DB, purchase *models.PvPurchase) error {
	stokisModel := models.Stokis{}
	if _, err := stokisModel.FindByID(tx, purchase.StokisID); err != nil {
		return fmt.Errorf("stokis %d: %w", purchase.StokisID, ErrNotFound)
	}

	// Stok dicek dan dikurangi dalam satu UPDATE bersyarat supaya dua
	// konfirmasi serentak tidak menjual stok yang sama dua kali.
	result := tx.Model(&models.Stokis{}).
		Where("id = ? AND pv_stock >= ?", purchase.StokisID, purchase.PVAmount).
		Update("pv_stock", gorm.Expr("pv_stock - ?", purchase.PVAmount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	if err := addMemberPV(tx, purchase.MemberID, purchase.PVAmount); err != nil {
		return err
	}

	if err := AddToNationalTurnover(tx, purchase.PVAmount); err != nil {
		return err
	}

	if err := PropagateVolumeUp(tx, purchase.MemberID, purchase.PVAmount); err != nil {
		return err
	}

	if err := payPersonalShoppingBonus(tx, purchase.MemberID, purchase.PVAmount); err != nil {
		return err
	}

	return creditStokisCommissionTx(tx, purchase.StokisID, purchase.PVAmount)
}

// AddPvStock menambah stok PV stokis (top-up dari pusat).
func AddPvStock(db *gorm.DB, stokisID uint, pvAmount decimal.Decimal) error {
	if !pvAmount.IsPositive() {
		return ErrValidation
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Stokis{}).
			Where("id = ?", stokisID).
			Update("pv_stock", gorm.Expr("pv_stock + ?", pvAmount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}
