package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
)

// Ancestor adalah satu langkah pada jalur naik: node leluhur dan sisi
// (kiri/kanan) yang mengarah ke titik awal. Dipakai bersama oleh
// propagasi HU dan propagasi PV supaya logikanya tidak terduplikasi.
type Ancestor struct {
	NodeID uint
	Side   string
}

// ancestorPath menelusuri dari node ke root lewat referensi parent.
// Leluhur yang hilang di tengah jalan berarti pohon korup — fatal.
func ancestorPath(tx *gorm.DB, node *models.TreeNode) ([]Ancestor, error) {
	var path []Ancestor

	nodeModel := models.TreeNode{}
	current := node

	for current.ParentID != nil {
		parent, err := nodeModel.FindByID(tx, *current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("leluhur node %d hilang: %w", current.ID, ErrInvariantViolation)
		}

		var side string
		switch {
		case parent.LeftChildID != nil && *parent.LeftChildID == current.ID:
			side = consts.PositionLeft
		case parent.RightChildID != nil && *parent.RightChildID == current.ID:
			side = consts.PositionRight
		default:
			return nil, fmt.Errorf("node %d bukan anak dari parent %d: %w",
				current.ID, parent.ID, ErrInvariantViolation)
		}

		path = append(path, Ancestor{NodeID: parent.ID, Side: side})
		current = parent
	}

	return path, nil
}

// PlaceMember menempatkan member baru sebagai descendant dari node
// sponsor. Kalau sponsor belum punya node, node root dibuat dulu.
func PlaceMember(db *gorm.DB, memberID, sponsorID uint, preferredSide *string) (*models.TreeNode, error) {
	var placed *models.TreeNode

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		placed, err = placeMemberTx(tx, memberID, sponsorID, preferredSide, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	return placed, nil
}

// AutoPlace menempatkan di sisi sponsor dengan HU lebih sedikit
// (seri jatuh ke kiri).
func AutoPlace(db *gorm.DB, memberID, sponsorID uint) (*models.TreeNode, error) {
	var placed *models.TreeNode

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		placed, err = placeMemberTx(tx, memberID, sponsorID, nil, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	return placed, nil
}

// placeMemberTx adalah inti penempatan, dipakai di dalam transaction yang
// sudah berjalan (registrasi memanggil ini langsung). Mode auto memilih
// sisi sponsor dengan HU lebih sedikit.
func placeMemberTx(tx *gorm.DB, memberID, sponsorID uint, preferredSide *string, auto bool) (*models.TreeNode, error) {
	sponsorNode, err := ensureNode(tx, sponsorID)
	if err != nil {
		return nil, err
	}

	if auto {
		side := consts.PositionLeft
		if sponsorNode.RightGroupHU < sponsorNode.LeftGroupHU {
			side = consts.PositionRight
		}
		preferredSide = &side
	}

	return placeUnderNode(tx, memberID, sponsorNode, preferredSide)
}

// ensureNode mengambil node milik member, membuat root baru kalau belum ada.
func ensureNode(tx *gorm.DB, memberID uint) (*models.TreeNode, error) {
	nodeModel := models.TreeNode{}

	node, err := nodeModel.FindByMemberID(tx, memberID)
	if err == nil {
		return node, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	root := models.TreeNode{
		MemberID:     memberID,
		ParentID:     nil,
		Position:     nil,
		Depth:        0,
		LeftGroupPV:  decimal.Zero,
		RightGroupPV: decimal.Zero,
	}
	if err := tx.Create(&root).Error; err != nil {
		return nil, err
	}

	return &root, nil
}

// placeUnderNode memilih slot di bawah parent: sisi yang diminta kalau
// kosong; kalau dua-duanya kosong, sisi diminta atau default kiri; kalau
// tinggal satu, pakai yang itu; kalau penuh, spillover BFS.
func placeUnderNode(tx *gorm.DB, memberID uint, parentNode *models.TreeNode, preferredSide *string) (*models.TreeNode, error) {
	if preferredSide != nil {
		if *preferredSide == consts.PositionLeft && parentNode.LeftChildID == nil {
			return createChildNode(tx, memberID, parentNode, consts.PositionLeft)
		}
		if *preferredSide == consts.PositionRight && parentNode.RightChildID == nil {
			return createChildNode(tx, memberID, parentNode, consts.PositionRight)
		}
	}

	if parentNode.LeftChildID == nil && parentNode.RightChildID == nil {
		side := consts.PositionLeft
		if preferredSide != nil {
			side = *preferredSide
		}
		return createChildNode(tx, memberID, parentNode, side)
	}

	if parentNode.LeftChildID == nil {
		return createChildNode(tx, memberID, parentNode, consts.PositionLeft)
	}
	if parentNode.RightChildID == nil {
		return createChildNode(tx, memberID, parentNode, consts.PositionRight)
	}

	// Kedua slot terisi: cari slot kosong terdangkal mulai dari sisi
	// yang diminta (BFS, kiri dulu di tiap node).
	targetNode, targetSide, err := findNextAvailableSlot(tx, parentNode, preferredSide)
	if err != nil {
		return nil, err
	}
	if targetNode == nil {
		return nil, fmt.Errorf("spillover gagal menemukan slot: %w", ErrInvariantViolation)
	}

	return createChildNode(tx, memberID, targetNode, targetSide)
}

// findNextAvailableSlot menjalankan BFS spillover. Subtree sisi yang
// diminta ditelusuri lebih dulu, lalu sisi lainnya.
func findNextAvailableSlot(tx *gorm.DB, startNode *models.TreeNode, preferredSide *string) (*models.TreeNode, string, error) {
	nodeModel := models.TreeNode{}
	var queue []uint

	if preferredSide != nil && *preferredSide == consts.PositionRight {
		if startNode.RightChildID != nil {
			queue = append(queue, *startNode.RightChildID)
		}
		if startNode.LeftChildID != nil {
			queue = append(queue, *startNode.LeftChildID)
		}
	} else {
		if startNode.LeftChildID != nil {
			queue = append(queue, *startNode.LeftChildID)
		}
		if startNode.RightChildID != nil {
			queue = append(queue, *startNode.RightChildID)
		}
	}

	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]

		node, err := nodeModel.FindByID(tx, nodeID)
		if err != nil {
			return nil, "", fmt.Errorf("node %d di antrean BFS hilang: %w", nodeID, ErrInvariantViolation)
		}

		if node.LeftChildID == nil {
			return node, consts.PositionLeft, nil
		}
		if node.RightChildID == nil {
			return node, consts.PositionRight, nil
		}

		queue = append(queue, *node.LeftChildID, *node.RightChildID)
	}

	return nil, "", nil
}

// createChildNode membuat node anak, mengaitkan pointer parent, lalu
// mempropagasikan HU+1 ke seluruh leluhur. Slot diisi lewat update
// bersyarat (slot masih NULL) supaya dua registrasi serentak tidak
// saling menimpa.
func createChildNode(tx *gorm.DB, memberID uint, parentNode *models.TreeNode, position string) (*models.TreeNode, error) {
	newNode := models.TreeNode{
		MemberID:     memberID,
		ParentID:     &parentNode.ID,
		Position:     &position,
		Depth:        parentNode.Depth + 1,
		LeftGroupPV:  decimal.Zero,
		RightGroupPV: decimal.Zero,
	}
	if err := tx.Create(&newNode).Error; err != nil {
		return nil, err
	}

	childColumn := "left_child_id"
	if position == consts.PositionRight {
		childColumn = "right_child_id"
	}

	result := tx.Model(&models.TreeNode{}).
		Where("id = ? AND "+childColumn+" IS NULL", parentNode.ID).
		Update(childColumn, newNode.ID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("slot %s node %d keburu terisi: %w",
			position, parentNode.ID, ErrConcurrencyConflict)
	}

	if position == consts.PositionLeft {
		parentNode.LeftChildID = &newNode.ID
	} else {
		parentNode.RightChildID = &newNode.ID
	}

	if err := propagateHUUp(tx, parentNode, position); err != nil {
		return nil, err
	}

	return &newNode, nil
}

// propagateHUUp menambah 1 ke counter HU sisi yang dilewati, dari parent
// langsung sampai root.
func propagateHUUp(tx *gorm.DB, parentNode *models.TreeNode, childSide string) error {
	if err := incrementHU(tx, parentNode.ID, childSide); err != nil {
		return err
	}

	path, err := ancestorPath(tx, parentNode)
	if err != nil {
		return err
	}

	for _, step := range path {
		if err := incrementHU(tx, step.NodeID, step.Side); err != nil {
			return err
		}
	}

	return nil
}

func incrementHU(tx *gorm.DB, nodeID uint, side string) error {
	column := "left_group_hu"
	if side == consts.PositionRight {
		column = "right_group_hu"
	}

	return tx.Model(&models.TreeNode{}).Where("id = ?", nodeID).
		Update(column, gorm.Expr(column+" + 1")).Error
}

// PropagateVolumeUp menambahkan PV ke akumulator group setiap leluhur,
// di sisi yang mengarah ke node member. Sinkron: selesai penuh atau
// tidak sama sekali relatif terhadap transaksi pemicunya.
func PropagateVolumeUp(tx *gorm.DB, memberID uint, pvAmount decimal.Decimal) error {
	if !pvAmount.IsPositive() {
		return ErrValidation
	}

	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByMemberID(tx, memberID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("member %d belum punya node: %w", memberID, ErrInvariantViolation)
		}
		return err
	}

	path, err := ancestorPath(tx, node)
	if err != nil {
		return err
	}

	for _, step := range path {
		ancestorNode, err := nodeModel.FindByID(tx, step.NodeID)
		if err != nil {
			return fmt.Errorf("node leluhur %d hilang: %w", step.NodeID, ErrInvariantViolation)
		}

		column := "left_group_pv"
		newValue := ancestorNode.LeftGroupPV.Add(pvAmount)
		if step.Side == consts.PositionRight {
			column = "right_group_pv"
			newValue = ancestorNode.RightGroupPV.Add(pvAmount)
		}

		if err := tx.Model(ancestorNode).Update(column, newValue).Error; err != nil {
			return err
		}
	}

	return nil
}

// TreeView adalah potongan subtree untuk tampilan jaringan.
type TreeView struct {
	Node   models.TreeNode `json:"node"`
	Member models.Member   `json:"member"`
	Left   *TreeView       `json:"left"`
	Right  *TreeView       `json:"right"`
}

// GetTree mengambil subtree milik member sampai kedalaman tertentu.
func GetTree(db *gorm.DB, memberID uint, depth int) (*TreeView, error) {
	nodeModel := models.TreeNode{}

	root, err := nodeModel.FindByMemberID(db, memberID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return fetchTreeRecursive(db, root.ID, depth)
}

func fetchTreeRecursive(db *gorm.DB, nodeID uint, depth int) (*TreeView, error) {
	if depth <= 0 {
		return nil, nil
	}

	nodeModel := models.TreeNode{}
	node, err := nodeModel.FindByID(db, nodeID)
	if err != nil {
		return nil, err
	}

	memberModel := models.Member{}
	member, err := memberModel.FindByID(db, node.MemberID)
	if err != nil {
		return nil, err
	}

	view := &TreeView{Node: *node, Member: *member}

	if node.LeftChildID != nil {
		view.Left, err = fetchTreeRecursive(db, *node.LeftChildID, depth-1)
		if err != nil {
			return nil, err
		}
	}
	if node.RightChildID != nil {
		view.Right, err = fetchTreeRecursive(db, *node.RightChildID, depth-1)
		if err != nil {
			return nil, err
		}
	}

	return view, nil
}
