package seeders

import (
	"fmt"
	"log"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/consts"
	"github.com/putrasera/seranet/app/models"
	"github.com/putrasera/seranet/app/services"
)

// DBSeed mengisi data demo: pengurus, founder sebagai root jaringan,
// satu stokis dengan stok PIN dan PV, beberapa member terdaftar lewat
// alur pendaftaran asli, dan katalog reward. Tidak jalan dua kali:
// database yang sudah berisi member dilewati.
func DBSeed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Member{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Database sudah berisi data, seed dilewati")
		return nil
	}

	root, err := createOfficer(db, "Founder SeraNet", consts.RoleDirektur, "SERA0001")
	if err != nil {
		return err
	}

	if _, err := createOfficer(db, faker.Name(), consts.RoleBendahara, "BEND0001"); err != nil {
		return err
	}
	if _, err := createOfficer(db, faker.Name(), consts.RoleAdmin, "ADMN0001"); err != nil {
		return err
	}

	stokisOwner, err := createOfficer(db, faker.Name(), consts.RoleMember, "STOK0001")
	if err != nil {
		return err
	}

	stokis, err := services.CreateStokis(db, stokisOwner.ID, "Stokis Pusat Jakarta",
		faker.Sentence(), faker.Phonenumber())
	if err != nil {
		return err
	}

	if err := services.AddPvStock(db, stokis.ID, decimal.NewFromInt(10000)); err != nil {
		return err
	}

	pins, err := services.GeneratePins(db, &stokis.ID, &root.ID, 20)
	if err != nil {
		return err
	}

	// Member demo masuk lewat alur pendaftaran asli supaya pohon, bonus,
	// dan omzet ikut terbentuk.
	sponsorCode := root.ReferralCode
	for i := 0; i < 6; i++ {
		side := consts.PositionLeft
		if i%2 == 1 {
			side = consts.PositionRight
		}

		result, err := services.RegisterMember(db, services.RegistrationInput{
			UserID:        uuid.New().String(),
			Name:          faker.Name(),
			Phone:         faker.Phonenumber(),
			Address:       faker.Sentence(),
			PinCode:       pins[i].Code,
			SponsorCode:   sponsorCode,
			PreferredSide: &side,
		})
		if err != nil {
			return fmt.Errorf("seed member %d: %w", i, err)
		}

		// Dua member pertama jadi sponsor gelombang berikutnya.
		if i == 1 {
			sponsorCode = result.ReferralCode
		}
	}

	if err := seedRewards(db); err != nil {
		return err
	}

	log.Println("Seed selesai")
	return nil
}

func createOfficer(db *gorm.DB, name, role, referralCode string) (*models.Member, error) {
	member := models.Member{
		UserID:       uuid.New().String(),
		Name:         name,
		ReferralCode: referralCode,
		Role:         role,
		Rank:         consts.RankNone,
		Phone:        faker.Phonenumber(),
		IsActive:     true,
	}
	if err := db.Create(&member).Error; err != nil {
		return nil, err
	}

	wallet := models.Wallet{MemberID: member.ID}
	if err := db.Create(&wallet).Error; err != nil {
		return nil, err
	}

	return &member, nil
}

func seedRewards(db *gorm.DB) error {
	rewards := []models.Reward{
		{
			Name:         "Motor Matic",
			Description:  "Reward motor untuk peringkat Gold",
			RequiredRank: consts.RankGold,
			RequiredPV:   decimal.NewFromInt(700),
			ValueRupiah:  decimal.NewFromInt(18000000),
			IsActive:     true,
		},
		{
			Name:         "Paket Umroh",
			Description:  "Reward umroh untuk peringkat Diamond",
			RequiredRank: consts.RankDiamond,
			RequiredPV:   decimal.NewFromInt(1000),
			ValueRupiah:  decimal.NewFromInt(35000000),
			IsActive:     true,
		},
		{
			Name:         "Mobil",
			Description:  "Reward mobil untuk peringkat Crown",
			RequiredRank: consts.RankCrown,
			RequiredPV:   decimal.NewFromInt(3000),
			ValueRupiah:  decimal.NewFromInt(150000000),
			IsActive:     true,
		},
	}

	for _, reward := range rewards {
		if err := db.Create(&reward).Error; err != nil {
			return err
		}
	}

	return nil
}
