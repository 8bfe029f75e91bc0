package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// newTestDB membuka sqlite in-memory per test. Satu koneksi saja:
// tiap koneksi :memory: adalah database terpisah.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, model := range models.RegisterModels() {
		require.NoError(t, db.AutoMigrate(model.Model))
	}

	return db
}

// seedMember membuat member aktif lengkap dengan wallet.
func seedMember(t *testing.T, db *gorm.DB, name string, sponsorID *uint) *models.Member {
	t.Helper()

	code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	member := models.Member{
		UserID:       uuid.New().String(),
		Name:         name,
		ReferralCode: code,
		SponsorID:    sponsorID,
		Role:         consts.RoleMember,
		Rank:         consts.RankNone,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&member).Error)

	wallet := models.Wallet{MemberID: member.ID}
	require.NoError(t, db.Create(&wallet).Error)

	return &member
}

func seedPin(t *testing.T, db *gorm.DB, stokisID *uint, pv int64) *models.Pin {
	t.Helper()

	code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
	pin := models.Pin{
		Code:     code,
		StokisID: stokisID,
		Price:    decimal.NewFromInt(pv * consts.PVToRupiah),
		PVValue:  decimal.NewFromInt(pv),
		Status:   consts.PinAvailable,
	}
	require.NoError(t, db.Create(&pin).Error)

	return &pin
}

func getWallet(t *testing.T, db *gorm.DB, memberID uint) *models.Wallet {
	t.Helper()

	walletModel := models.Wallet{}
	wallet, err := walletModel.FindByMemberID(db, memberID)
	require.NoError(t, err)

	return wallet
}

func getNode(t *testing.T, db *gorm.DB, memberID uint) *models.TreeNode {
	t.Helper()

	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(db, memberID)
	require.NoError(t, err)

	return node
}

func setMemberPV(t *testing.T, db *gorm.DB, memberID uint, accumulated, weekly int64) {
	t.Helper()

	require.NoError(t, db.Model(&models.Member{}).Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"accumulated_pv":       decimal.NewFromInt(accumulated),
			"weekly_repurchase_pv": decimal.NewFromInt(weekly),
		}).Error)
}

// requireDecimal membandingkan decimal dengan pesan yang terbaca.
func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()

	want, err := decimal.NewFromString(expected)
	require.NoError(t, err)
	require.True(t, want.Equal(actual),
		fmt.Sprintf("harusnya %s, dapat %s", want.String(), actual.String()))
}
