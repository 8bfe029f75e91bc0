package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// stubGateway merekam params tanpa memanggil jaringan.
type stubGateway struct {
	calls []DisbursementParams
	err   error
}

func (g *stubGateway) CreateDisbursement(params DisbursementParams) (*DisbursementResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.calls = append(g.calls, params)
	return &DisbursementResult{
		ID:     fmt.Sprintf("disb-%d", len(g.calls)),
		Status: DisbursementPending,
		Amount: params.Amount,
	}, nil
}

func requestApprovedWithdrawal(t *testing.T, db *gorm.DB, gateway *stubGateway, memberID, officerID uint, amount int64) *models.Withdrawal {
	t.Helper()

	withdrawal, err := RequestWithdrawal(db, memberID, decimal.NewFromInt(amount),
		"bca", "1234567890", "Pemilik Rekening")
	require.NoError(t, err)
	require.NoError(t, BendaharaApprove(db, withdrawal.ID, officerID))
	require.NoError(t, DirekturApprove(db, gateway, withdrawal.ID, officerID))

	withdrawalModel := models.Withdrawal{}
	refetched, err := withdrawalModel.FindByID(db, withdrawal.ID)
	require.NoError(t, err)

	return refetched
}

func TestRequestWithdrawalFreezesFunds(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	setWalletBalance(t, db, member.ID, 100000)

	withdrawal, err := RequestWithdrawal(db, member.ID, decimal.NewFromInt(60000),
		"bca", "1234567890", "Pemilik Rekening")
	require.NoError(t, err)
	assert.Equal(t, consts.WithdrawalPending, withdrawal.Status)

	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "40000", wallet.MainBalance)
	requireDecimal(t, "60000", wallet.FrozenBalance)
}

func TestRequestWithdrawalValidation(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	setWalletBalance(t, db, member.ID, 100000)

	// Di bawah minimum Rp10.000.
	_, err := RequestWithdrawal(db, member.ID, decimal.NewFromInt(9999),
		"bca", "1234567890", "Pemilik Rekening")
	assert.ErrorIs(t, err, ErrValidation)

	// Data rekening wajib.
	_, err = RequestWithdrawal(db, member.ID, decimal.NewFromInt(50000),
		"", "1234567890", "Pemilik Rekening")
	assert.ErrorIs(t, err, ErrValidation)

	// Saldo kurang.
	_, err = RequestWithdrawal(db, member.ID, decimal.NewFromInt(200000),
		"bca", "1234567890", "Pemilik Rekening")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "100000", wallet.MainBalance)
	requireDecimal(t, "0", wallet.FrozenBalance)
}

func TestDualApprovalCallsGateway(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	gateway := &stubGateway{}
	withdrawal := requestApprovedWithdrawal(t, db, gateway, member.ID, officer.ID, 60000)

	assert.Equal(t, consts.WithdrawalDirekturApproved, withdrawal.Status)
	assert.Equal(t, "disb-1", withdrawal.DisbursementID)
	require.NotNil(t, withdrawal.BendaharaApprovedAt)
	require.NotNil(t, withdrawal.DirekturApprovedAt)

	require.Len(t, gateway.calls, 1)
	params := gateway.calls[0]
	assert.Equal(t, fmt.Sprintf("WD-%d", withdrawal.ID), params.ExternalID)
	requireDecimal(t, "60000", params.Amount)
	assert.Equal(t, "1234567890", params.AccountNumber)
}

func TestDirekturApproveRetriesAfterGatewayFailure(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	withdrawal, err := RequestWithdrawal(db, member.ID, decimal.NewFromInt(60000),
		"bca", "1234567890", "Pemilik Rekening")
	require.NoError(t, err)
	require.NoError(t, BendaharaApprove(db, withdrawal.ID, officer.ID))

	// Gateway gagal setelah status sudah bergeser ke direktur_approved.
	gateway := &stubGateway{err: errors.New("gateway timeout")}
	err = DirekturApprove(db, gateway, withdrawal.ID, officer.ID)
	require.Error(t, err)

	withdrawalModel := models.Withdrawal{}
	stuck, err := withdrawalModel.FindByID(db, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.WithdrawalDirekturApproved, stuck.Status)
	assert.Empty(t, stuck.DisbursementID)

	// Panggilan ulang mengulang payout dengan external id yang sama.
	gateway.err = nil
	require.NoError(t, DirekturApprove(db, gateway, withdrawal.ID, officer.ID))

	retried, err := withdrawalModel.FindByID(db, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, "disb-1", retried.DisbursementID)
	require.Len(t, gateway.calls, 1)
	assert.Equal(t, fmt.Sprintf("WD-%d", withdrawal.ID), gateway.calls[0].ExternalID)

	// Setelah disbursement tercatat, pemanggilan berikutnya ditolak.
	err = DirekturApprove(db, gateway, withdrawal.ID, officer.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	require.Len(t, gateway.calls, 1)
}

func TestApprovalOrderEnforced(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	withdrawal, err := RequestWithdrawal(db, member.ID, decimal.NewFromInt(50000),
		"bca", "1234567890", "Pemilik Rekening")
	require.NoError(t, err)

	// Direktur tidak bisa melompati bendahara.
	gateway := &stubGateway{}
	err = DirekturApprove(db, gateway, withdrawal.ID, officer.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, gateway.calls)

	require.NoError(t, BendaharaApprove(db, withdrawal.ID, officer.ID))

	// Persetujuan bendahara kedua ditolak.
	err = BendaharaApprove(db, withdrawal.ID, officer.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestWebhookCompletedSettlesFunds(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	gateway := &stubGateway{}
	withdrawal := requestApprovedWithdrawal(t, db, gateway, member.ID, officer.ID, 60000)

	require.NoError(t, HandleDisbursementStatus(db, withdrawal.DisbursementID, DisbursementCompleted))

	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "40000", wallet.MainBalance)
	requireDecimal(t, "0", wallet.FrozenBalance)
	requireDecimal(t, "60000", wallet.TotalWithdrawn)

	withdrawalModel := models.Withdrawal{}
	completed, err := withdrawalModel.FindByID(db, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.WithdrawalCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Mutasi tercatat negatif dengan referensi penarikan.
	var record models.Transaction
	require.NoError(t, db.Where("member_id = ? AND type = ?",
		member.ID, consts.TxWithdrawal).First(&record).Error)
	requireDecimal(t, "-60000", record.Amount)
	assert.Equal(t, fmt.Sprintf("WD-%d", withdrawal.ID), record.ReferenceID)

	// Webhook yang sama datang dua kali: status sudah bergeser.
	err = HandleDisbursementStatus(db, withdrawal.DisbursementID, DisbursementCompleted)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestWebhookFailedRefundsFunds(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	gateway := &stubGateway{}
	withdrawal := requestApprovedWithdrawal(t, db, gateway, member.ID, officer.ID, 60000)

	require.NoError(t, HandleDisbursementStatus(db, withdrawal.DisbursementID, DisbursementFailed))

	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "100000", wallet.MainBalance)
	requireDecimal(t, "0", wallet.FrozenBalance)
	requireDecimal(t, "0", wallet.TotalWithdrawn)

	withdrawalModel := models.Withdrawal{}
	rejected, err := withdrawalModel.FindByID(db, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.WithdrawalRejected, rejected.Status)
}

func TestWebhookIgnoresIntermediateStatus(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	gateway := &stubGateway{}
	withdrawal := requestApprovedWithdrawal(t, db, gateway, member.ID, officer.ID, 60000)

	require.NoError(t, HandleDisbursementStatus(db, withdrawal.DisbursementID, DisbursementPending))

	withdrawalModel := models.Withdrawal{}
	unchanged, err := withdrawalModel.FindByID(db, withdrawal.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.WithdrawalDirekturApproved, unchanged.Status)

	err = HandleDisbursementStatus(db, "tidak-dikenal", DisbursementCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectWithdrawalUnfreezes(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	officer := seedMember(t, db, "Petugas", nil)
	setWalletBalance(t, db, member.ID, 100000)

	withdrawal, err := RequestWithdrawal(db, member.ID, decimal.NewFromInt(50000),
		"bca", "1234567890", "Pemilik Rekening")
	require.NoError(t, err)

	// Alasan wajib diisi.
	err = RejectWithdrawal(db, withdrawal.ID, officer.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, RejectWithdrawal(db, withdrawal.ID, officer.ID, "rekening tidak valid"))

	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "100000", wallet.MainBalance)
	requireDecimal(t, "0", wallet.FrozenBalance)

	// Penolakan kedua ditolak: dana tidak boleh dicairkan dua kali.
	err = RejectWithdrawal(db, withdrawal.ID, officer.ID, "dobel")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMapBankCode(t *testing.T) {
	assert.Equal(t, "ID_BCA", MapBankCode("bca"))
	assert.Equal(t, "ID_BCA", MapBankCode("BCA"))
	assert.Equal(t, "ID_MANDIRI", MapBankCode("Mandiri"))
	assert.Equal(t, "ID_BANKLAIN", MapBankCode("bank lain"))
}
