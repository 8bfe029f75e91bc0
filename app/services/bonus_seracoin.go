package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Tangga SERACOIN berdasarkan HU seimbang (min kiri/kanan), urut dari
// tertinggi.
var coinTiers = []struct {
	HU    int
	Coins int
}{
	{25000, 200},
	{15000, 150},
	{10000, 100},
	{7500, 75},
	{3500, 50},
	{2500, 30},
	{1750, 20},
	{1250, 15},
	{750, 12},
	{350, 10},
	{250, 8},
	{150, 6},
	{50, 4},
	{15, 3},
	{7, 2},
	{1, 1},
}

// CalculateCoinTier memetakan HU kiri/kanan ke jumlah coin.
func CalculateCoinTier(leftHU, rightHU int) int {
	balanced := leftHU
	if rightHU < leftHU {
		balanced = rightHU
	}

	for _, tier := range coinTiers {
		if balanced >= tier.HU {
			return tier.Coins
		}
	}
	return 0
}

// DistributeSeracoin membagi pool coin (10% omzet nasional periode) ke
// member aktif dengan akumulasi PV >= 150. Coin masuk ke saldo coin,
// bukan saldo rupiah; harga per coin = pool / total coin periode itu.
func DistributeSeracoin(db *gorm.DB, periodStart, periodEnd time.Time, totalNationalPV decimal.Decimal) (*RunSummary, error) {
	summary := newRunSummary()
	if !totalNationalPV.IsPositive() {
		return summary, nil
	}

	var members []models.Member
	if err := db.Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, err
	}

	minPV := decimal.NewFromInt(consts.SeracoinMinPV)
	nodeModel := models.TreeNode{}

	type share struct {
		MemberID uint
		Coins    int
	}
	var shares []share
	totalCoins := 0

	for _, member := range members {
		if member.AccumulatedPV.LessThan(minPV) {
			continue
		}

		node, err := nodeModel.FindByMemberID(db, member.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}

		coins := CalculateCoinTier(node.LeftGroupHU, node.RightGroupHU)
		if coins <= 0 {
			continue
		}
		shares = append(shares, share{MemberID: member.ID, Coins: coins})
		totalCoins += coins
	}

	if totalCoins <= 0 {
		return summary, nil
	}

	pool := pvToRupiah(totalNationalPV).Mul(decimal.NewFromFloat(consts.SeracoinPoolRate))
	pricePerCoin := pool.Div(decimal.NewFromInt(int64(totalCoins))).Round(2)

	for _, s := range shares {
		s := s
		err := db.Transaction(func(tx *gorm.DB) error {
			coinAmount := decimal.NewFromInt(int64(s.Coins))

			coin := models.Coin{
				MemberID:     s.MemberID,
				Amount:       coinAmount,
				Type:         consts.CoinEarned,
				PricePerCoin: pricePerCoin,
				Description:  fmt.Sprintf("Bonus SERACOIN: %d coin", s.Coins),
			}
			if err := tx.Create(&coin).Error; err != nil {
				return err
			}

			result := tx.Model(&models.Wallet{}).
				Where("member_id = ?", s.MemberID).
				Update("coin_balance", gorm.Expr("coin_balance + ?", coinAmount))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("wallet member %d: %w", s.MemberID, ErrNotFound)
			}

			value := pricePerCoin.Mul(coinAmount)
			if err := Notify(tx, s.MemberID, "SERACOIN Diterima",
				fmt.Sprintf("Anda menerima %d SERACOIN (nilai Rp%s)", s.Coins, value.StringFixed(0)),
				consts.NotifBonusReceived, false); err != nil {
				return err
			}

			summary.Processed++
			summary.TotalDistributed = summary.TotalDistributed.Add(value)
			return nil
		})
		if err != nil {
			summary.Fail(s.MemberID, err)
		}
	}

	return summary, nil
}
