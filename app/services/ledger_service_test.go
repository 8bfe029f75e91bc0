package services

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

func TestCreditAndDebitBalance(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)

	require.NoError(t, CreditBalance(db, member.ID, decimal.NewFromInt(50000),
		"Kredit uji", consts.TxBonusCredit))
	requireDecimal(t, "50000", getWallet(t, db, member.ID).MainBalance)

	require.NoError(t, DebitBalance(db, member.ID, decimal.NewFromInt(20000),
		"Debit uji", consts.TxTransfer))
	requireDecimal(t, "30000", getWallet(t, db, member.ID).MainBalance)

	// Satu mutasi saldo selalu satu baris Transaction.
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("member_id = ?", member.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var debit models.Transaction
	require.NoError(t, db.Where("member_id = ? AND type = ?",
		member.ID, consts.TxTransfer).First(&debit).Error)
	requireDecimal(t, "-20000", debit.Amount)
}

func TestDebitBalanceInsufficient(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)

	err := DebitBalance(db, member.ID, decimal.NewFromInt(1000),
		"Debit uji", consts.TxTransfer)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Tidak ada mutasi maupun audit row yang tertinggal.
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreditBalanceConcurrentAccumulates(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)

	// Kredit paralel tidak boleh saling menimpa: saldo digeser lewat
	// increment di SQL, bukan nilai absolut hasil baca.
	const workers = 4
	const creditsEach = 10

	errs := make(chan error, workers*creditsEach)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < creditsEach; j++ {
				errs <- CreditBalance(db, member.ID, decimal.NewFromInt(100),
					"Kredit paralel", consts.TxBonusCredit)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	requireDecimal(t, "4000", getWallet(t, db, member.ID).MainBalance)

	// Setiap kredit meninggalkan tepat satu audit row.
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("member_id = ?", member.ID).Count(&count).Error)
	assert.Equal(t, int64(workers*creditsEach), count)
}

func TestDebitBalanceExactAmount(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	setWalletBalance(t, db, member.ID, 20000)

	// Debit persis sebesar saldo lolos syarat main_balance >= amount.
	require.NoError(t, DebitBalance(db, member.ID, decimal.NewFromInt(20000),
		"Debit penuh", consts.TxTransfer))
	requireDecimal(t, "0", getWallet(t, db, member.ID).MainBalance)

	err := DebitBalance(db, member.ID, decimal.NewFromInt(1),
		"Debit kosong", consts.TxTransfer)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestBalanceMutationRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)

	assert.ErrorIs(t, CreditBalance(db, member.ID, decimal.Zero,
		"nol", consts.TxBonusCredit), ErrValidation)
	assert.ErrorIs(t, DebitBalance(db, member.ID, decimal.NewFromInt(-1),
		"negatif", consts.TxTransfer), ErrValidation)
}

func TestAddToNationalTurnoverAccumulatesPerDay(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, AddToNationalTurnover(db, decimal.NewFromInt(100)))
	require.NoError(t, AddToNationalTurnover(db, decimal.NewFromInt(50)))

	// Hari yang sama menumpuk ke satu baris.
	var count int64
	require.NoError(t, db.Model(&models.NationalTurnover{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	turnoverModel := models.NationalTurnover{}
	total, err := turnoverModel.SumUnsettledPV(db)
	require.NoError(t, err)
	requireDecimal(t, "150", total)

	var row models.NationalTurnover
	require.NoError(t, db.First(&row).Error)
	requireDecimal(t, "150000", row.TotalRupiah)
}

func TestAddToNationalTurnoverNewRowAfterSettled(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, AddToNationalTurnover(db, decimal.NewFromInt(100)))
	require.NoError(t, db.Model(&models.NationalTurnover{}).
		Where("is_settled = ?", false).Update("is_settled", true).Error)

	// Omzet hari yang sama setelah settlement masuk ke baris baru, bukan
	// menimpa baris yang sudah settled.
	require.NoError(t, AddToNationalTurnover(db, decimal.NewFromInt(50)))

	var count int64
	require.NoError(t, db.Model(&models.NationalTurnover{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	turnoverModel := models.NationalTurnover{}
	total, err := turnoverModel.SumUnsettledPV(db)
	require.NoError(t, err)
	requireDecimal(t, "50", total)
}
