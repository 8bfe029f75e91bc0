package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

func setNodeHU(t *testing.T, db *gorm.DB, memberID uint, left, right int) {
	t.Helper()

	require.NoError(t, db.Model(&models.TreeNode{}).
		Where("member_id = ?", memberID).
		Updates(map[string]interface{}{
			"left_group_hu":  left,
			"right_group_hu": right,
		}).Error)
}

func TestCalculateRankThresholds(t *testing.T) {
	cases := []struct {
		pv   int64
		want string
	}{
		{0, consts.RankNone},
		{149, consts.RankNone},
		{150, consts.RankSapphire},
		{200, consts.RankEmerald},
		{280, consts.RankBronze},
		{500, consts.RankSilver},
		{700, consts.RankGold},
		{999, consts.RankGold},
		{1000, consts.RankDiamond},
		{3000, consts.RankCrown},
		{50000, consts.RankCrown},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, CalculateRank(decimal.NewFromInt(c.pv)),
			"accumulated PV %d", c.pv)
	}
}

func TestProcessRankUpgradesPromotesAndRecordsHistory(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	root := seedMember(t, db, "Root", nil)
	sideL := consts.PositionLeft
	_, err := PlaceMember(db, member.ID, root.ID, &sideL)
	require.NoError(t, err)

	setMemberPV(t, db, member.ID, 700, 0)

	summary, err := ProcessRankUpgrades(db)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	memberModel := models.Member{}
	updated, err := memberModel.FindByID(db, member.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.RankGold, updated.Rank)

	var history models.RankHistory
	require.NoError(t, db.Where("member_id = ?", member.ID).First(&history).Error)
	assert.Equal(t, consts.RankGold, history.Rank)
}

func TestProcessRankUpgradesNeverDemotes(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	require.NoError(t, db.Model(member).Update("rank", consts.RankDiamond).Error)
	setMemberPV(t, db, member.ID, 300, 0) // secara PV cuma bronze

	summary, err := ProcessRankUpgrades(db)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)

	memberModel := models.Member{}
	updated, err := memberModel.FindByID(db, member.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.RankDiamond, updated.Rank)
}

func TestRankUpgradeUnlocksRewardOnce(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	setMemberPV(t, db, member.ID, 700, 0)

	reward := models.Reward{
		Name:         "Motor",
		RequiredRank: consts.RankGold,
		RequiredPV:   decimal.NewFromInt(700),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&reward).Error)

	_, err := ProcessRankUpgrades(db)
	require.NoError(t, err)

	// Run kedua tidak menggandakan klaim.
	_, err = ProcessRankUpgrades(db)
	require.NoError(t, err)

	var claims int64
	require.NoError(t, db.Model(&models.MemberReward{}).
		Where("member_id = ? AND reward_id = ?", member.ID, reward.ID).
		Count(&claims).Error)
	assert.Equal(t, int64(1), claims)
}

func TestPlanCActivationAtSevenSeven(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	root := seedMember(t, db, "Root", nil)
	sideL := consts.PositionLeft
	_, err := PlaceMember(db, member.ID, root.ID, &sideL)
	require.NoError(t, err)

	setNodeHU(t, db, member.ID, 7, 6)
	_, err = ProcessRankUpgrades(db)
	require.NoError(t, err)

	memberModel := models.Member{}
	updated, err := memberModel.FindByID(db, member.ID)
	require.NoError(t, err)
	assert.False(t, updated.PlanCActive)

	setNodeHU(t, db, member.ID, 7, 7)
	_, err = ProcessRankUpgrades(db)
	require.NoError(t, err)

	updated, err = memberModel.FindByID(db, member.ID)
	require.NoError(t, err)
	assert.True(t, updated.PlanCActive)
	assert.False(t, updated.PlanDActive)
}

func TestPlanDActivationAtFifteenFifteen(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	root := seedMember(t, db, "Root", nil)
	sideL := consts.PositionLeft
	_, err := PlaceMember(db, member.ID, root.ID, &sideL)
	require.NoError(t, err)

	setNodeHU(t, db, member.ID, 15, 15)
	_, err = ProcessRankUpgrades(db)
	require.NoError(t, err)

	memberModel := models.Member{}
	updated, err := memberModel.FindByID(db, member.ID)
	require.NoError(t, err)
	assert.True(t, updated.PlanCActive)
	assert.True(t, updated.PlanDActive)
}

func TestPlanCKomunitasBonus(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	root := seedMember(t, db, "Root", nil)
	sideL := consts.PositionLeft
	_, err := PlaceMember(db, member.ID, root.ID, &sideL)
	require.NoError(t, err)

	require.NoError(t, db.Model(member).Update("plan_c_active", true).Error)
	setNodeHU(t, db, member.ID, 9, 7)

	summary, err := CalculatePlanCBonuses(db)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	// Rp2.000 x min(9,7) = Rp14.000.
	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "14000", wallet.MainBalance)
}

func TestPlanBTitikBonus(t *testing.T) {
	db := newTestDB(t)

	member := seedMember(t, db, "Member", nil)
	root := seedMember(t, db, "Root", nil)
	sideL := consts.PositionLeft
	_, err := PlaceMember(db, member.ID, root.ID, &sideL)
	require.NoError(t, err)

	setMemberPV(t, db, member.ID, 150, 0)
	setNodeHU(t, db, member.ID, 3, 2)

	summary, err := CalculatePlanBBonuses(db)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	// Rp1.000 x (3+2) = Rp5.000, dan Plan B ikut aktif.
	wallet := getWallet(t, db, member.ID)
	requireDecimal(t, "5000", wallet.MainBalance)

	memberModel := models.Member{}
	updated, err := memberModel.FindByID(db, member.ID)
	require.NoError(t, err)
	assert.True(t, updated.PlanBActive)
}
