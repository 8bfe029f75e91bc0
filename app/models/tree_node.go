package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TreeNode adalah satu titik di pohon biner. Satu member tepat satu node.
// Link parent/child disimpan sebagai id (bukan pointer objek) supaya aman
// dipersist dan bisa dikunci per baris.
type TreeNode struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	MemberID     uint    `gorm:"uniqueIndex"`
	ParentID     *uint   `gorm:"index"` // null = root
	Position     *string `gorm:"size:10"`
	LeftChildID  *uint
	RightChildID *uint

	LeftGroupPV  decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	RightGroupPV decimal.Decimal `gorm:"type:decimal(14,2);default:0"`
	LeftGroupHU  int             `gorm:"default:0"`
	RightGroupHU int             `gorm:"default:0"`
	Depth        int             `gorm:"index;default:0"`

	CreatedAt time.Time
}

func (n *TreeNode) FindByID(db *gorm.DB, id uint) (*TreeNode, error) {
	var node TreeNode

	err := db.Model(&TreeNode{}).Where("id = ?", id).First(&node).Error
	if err != nil {
		return nil, err
	}

	return &node, nil
}

func (n *TreeNode) FindByMemberID(db *gorm.DB, memberID uint) (*TreeNode, error) {
	var node TreeNode

	err := db.Model(&TreeNode{}).Where("member_id = ?", memberID).First(&node).Error
	if err != nil {
		return nil, err
	}

	return &node, nil
}

// BalancedHU = min(kiri, kanan); basis bonus komunitas dan tier SERACOIN.
func (n TreeNode) BalancedHU() int {
	if n.LeftGroupHU < n.RightGroupHU {
		return n.LeftGroupHU
	}
	return n.RightGroupHU
}

func (n TreeNode) TotalHU() int {
	return n.LeftGroupHU + n.RightGroupHU
}
