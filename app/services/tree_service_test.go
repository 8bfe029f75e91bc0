package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/putrasera/seranet/app/consts"
)

func TestPlaceMemberPreferredSide(t *testing.T) {
	db := newTestDB(t)

	sponsor := seedMember(t, db, "Sponsor", nil)
	recruit := seedMember(t, db, "Recruit", &sponsor.ID)

	side := consts.PositionRight
	node, err := PlaceMember(db, recruit.ID, sponsor.ID, &side)
	require.NoError(t, err)

	sponsorNode := getNode(t, db, sponsor.ID)
	assert.Equal(t, sponsorNode.ID, *node.ParentID)
	assert.Equal(t, consts.PositionRight, *node.Position)
	assert.Equal(t, 1, node.Depth)

	assert.Equal(t, 0, sponsorNode.LeftGroupHU)
	assert.Equal(t, 1, sponsorNode.RightGroupHU)
	assert.Equal(t, node.ID, *sponsorNode.RightChildID)
}

func TestPlaceMemberDefaultsLeft(t *testing.T) {
	db := newTestDB(t)

	sponsor := seedMember(t, db, "Sponsor", nil)
	recruit := seedMember(t, db, "Recruit", &sponsor.ID)

	node, err := PlaceMember(db, recruit.ID, sponsor.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, consts.PositionLeft, *node.Position)
}

func TestPlaceMemberSpillover(t *testing.T) {
	db := newTestDB(t)

	sponsor := seedMember(t, db, "Sponsor", nil)
	left := seedMember(t, db, "Left", &sponsor.ID)
	right := seedMember(t, db, "Right", &sponsor.ID)
	third := seedMember(t, db, "Third", &sponsor.ID)

	sideL := consts.PositionLeft
	sideR := consts.PositionRight
	_, err := PlaceMember(db, left.ID, sponsor.ID, &sideL)
	require.NoError(t, err)
	_, err = PlaceMember(db, right.ID, sponsor.ID, &sideR)
	require.NoError(t, err)

	// Kedua slot langsung terisi: spillover turun ke anak kiri.
	node, err := PlaceMember(db, third.ID, sponsor.ID, &sideL)
	require.NoError(t, err)

	leftNode := getNode(t, db, left.ID)
	assert.Equal(t, leftNode.ID, *node.ParentID)
	assert.Equal(t, consts.PositionLeft, *node.Position)
	assert.Equal(t, 2, node.Depth)

	// HU terpropagasi sampai root: 2 kiri (left + third), 1 kanan.
	sponsorNode := getNode(t, db, sponsor.ID)
	assert.Equal(t, 2, sponsorNode.LeftGroupHU)
	assert.Equal(t, 1, sponsorNode.RightGroupHU)
	assert.Equal(t, 1, leftNode.LeftGroupHU)
}

func TestSpilloverPrefersRequestedSubtree(t *testing.T) {
	db := newTestDB(t)

	sponsor := seedMember(t, db, "Sponsor", nil)
	left := seedMember(t, db, "Left", &sponsor.ID)
	right := seedMember(t, db, "Right", &sponsor.ID)
	fourth := seedMember(t, db, "Fourth", &sponsor.ID)

	sideL := consts.PositionLeft
	sideR := consts.PositionRight
	_, err := PlaceMember(db, left.ID, sponsor.ID, &sideL)
	require.NoError(t, err)
	_, err = PlaceMember(db, right.ID, sponsor.ID, &sideR)
	require.NoError(t, err)

	node, err := PlaceMember(db, fourth.ID, sponsor.ID, &sideR)
	require.NoError(t, err)

	rightNode := getNode(t, db, right.ID)
	assert.Equal(t, rightNode.ID, *node.ParentID)
	assert.Equal(t, consts.PositionLeft, *node.Position)
}

func TestAutoPlacePicksSmallerSide(t *testing.T) {
	db := newTestDB(t)

	sponsor := seedMember(t, db, "Sponsor", nil)
	first := seedMember(t, db, "First", &sponsor.ID)
	second := seedMember(t, db, "Second", &sponsor.ID)

	sideL := consts.PositionLeft
	_, err := PlaceMember(db, first.ID, sponsor.ID, &sideL)
	require.NoError(t, err)

	// Kiri sudah 1 HU, kanan 0: auto jatuh ke kanan.
	node, err := AutoPlace(db, second.ID, sponsor.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.PositionRight, *node.Position)
}

func TestAutoPlaceTieGoesLeft(t *testing.T) {
	db := newTestDB(t)

	sponsor := seedMember(t, db, "Sponsor", nil)
	first := seedMember(t, db, "First", &sponsor.ID)

	node, err := AutoPlace(db, first.ID, sponsor.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.PositionLeft, *node.Position)
}

func TestPropagateVolumeUp(t *testing.T) {
	db := newTestDB(t)

	root := seedMember(t, db, "Root", nil)
	mid := seedMember(t, db, "Mid", &root.ID)
	leaf := seedMember(t, db, "Leaf", &mid.ID)

	sideL := consts.PositionLeft
	sideR := consts.PositionRight
	_, err := PlaceMember(db, mid.ID, root.ID, &sideL)
	require.NoError(t, err)
	_, err = PlaceMember(db, leaf.ID, mid.ID, &sideR)
	require.NoError(t, err)

	require.NoError(t, PropagateVolumeUp(db, leaf.ID, decimal.NewFromInt(150)))

	midNode := getNode(t, db, mid.ID)
	rootNode := getNode(t, db, root.ID)
	leafNode := getNode(t, db, leaf.ID)

	requireDecimal(t, "150", midNode.RightGroupPV)
	requireDecimal(t, "150", rootNode.LeftGroupPV)
	requireDecimal(t, "0", rootNode.RightGroupPV)
	requireDecimal(t, "0", leafNode.LeftGroupPV)
}

func TestPropagateVolumeRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)

	root := seedMember(t, db, "Root", nil)
	child := seedMember(t, db, "Child", &root.ID)

	sideL := consts.PositionLeft
	_, err := PlaceMember(db, child.ID, root.ID, &sideL)
	require.NoError(t, err)

	err = PropagateVolumeUp(db, child.ID, decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateChildNodeLostSlotRace(t *testing.T) {
	db := newTestDB(t)

	parent := seedMember(t, db, "Parent", nil)
	first := seedMember(t, db, "Pertama", nil)
	second := seedMember(t, db, "Kedua", nil)

	parentNode, err := ensureNode(db, parent.ID)
	require.NoError(t, err)

	// Salinan basi: dibaca sebelum slot kiri sempat terisi pihak lain.
	stale := *parentNode

	_, err = createChildNode(db, first.ID, parentNode, consts.PositionLeft)
	require.NoError(t, err)

	// Pihak yang kalah race mendapat konflik, bukan slot tertimpa.
	_, err = createChildNode(db, second.ID, &stale, consts.PositionLeft)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestGetTreeDepthLimit(t *testing.T) {
	db := newTestDB(t)

	root := seedMember(t, db, "Root", nil)
	mid := seedMember(t, db, "Mid", &root.ID)
	leaf := seedMember(t, db, "Leaf", &mid.ID)

	sideL := consts.PositionLeft
	_, err := PlaceMember(db, mid.ID, root.ID, &sideL)
	require.NoError(t, err)
	_, err = PlaceMember(db, leaf.ID, mid.ID, &sideL)
	require.NoError(t, err)

	tree, err := GetTree(db, root.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, tree.Left)
	assert.Equal(t, mid.ID, tree.Left.Member.ID)
	assert.Nil(t, tree.Left.Left) // level 3 terpotong

	_, err = GetTree(db, 99999, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
