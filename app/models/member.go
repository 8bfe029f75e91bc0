package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
)

type Member struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UserID       string `gorm:"size:36;uniqueIndex"` // akun auth eksternal
	Name         string `gorm:"size:255"`
	ReferralCode string `gorm:"size:50;uniqueIndex"`
	SponsorID    *uint  `gorm:"index"` // member yang merekrut, null untuk root
	Sponsor      *Member
	Role         string `gorm:"size:20;index;default:member"`
	Rank         string `gorm:"size:20;index;default:none"`

	PersonalPV        decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	AccumulatedPV     decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	WeeklyRepurchase  decimal.Decimal `gorm:"column:weekly_repurchase_pv;type:decimal(12,2);default:0"`
	LastRepurchaseAt  *time.Time
	JoinPackage       int  `gorm:"default:1"`
	PinCount          int  `gorm:"default:0"`
	IsActive          bool `gorm:"default:true"`
	PlanBActive       bool `gorm:"default:false"`
	PlanCActive       bool `gorm:"default:false"`
	PlanDActive       bool `gorm:"default:false"`

	IsWarung    bool   `gorm:"default:false"`
	WarungName  string `gorm:"size:255"`
	WarungSlug  string `gorm:"size:255"`
	WarungPhoto string `gorm:"size:255"`

	BankName          string `gorm:"size:100"`
	BankAccountNumber string `gorm:"size:50"`
	BankAccountHolder string `gorm:"size:255"`
	Phone             string `gorm:"size:20"`
	Address           string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Member) FindByID(db *gorm.DB, id uint) (*Member, error) {
	var member Member

	err := db.Model(&Member{}).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (m *Member) FindByReferralCode(db *gorm.DB, code string) (*Member, error) {
	var member Member

	err := db.Model(&Member{}).Where("referral_code = ?", code).First(&member).Error
	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (m *Member) FindByUserID(db *gorm.DB, userID string) (*Member, error) {
	var member Member

	err := db.Model(&Member{}).Where("user_id = ?", userID).First(&member).Error
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// FindByRole mengambil semua member dengan role tertentu (bendahara, direktur).
func (m *Member) FindByRole(db *gorm.DB, role string) ([]Member, error) {
	var members []Member

	err := db.Model(&Member{}).Where("role = ?", role).Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

// RankIndex mengembalikan ordinal peringkat; dipakai untuk memastikan
// member hanya bisa naik, tidak pernah turun.
func (m Member) RankIndex() int {
	for i, r := range consts.RankOrder {
		if r == m.Rank {
			return i
		}
	}
	return 0
}
