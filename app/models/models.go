package models

// Model membungkus satu model GORM untuk kebutuhan migrasi.
type Model struct {
	Model interface{}
}

// RegisterModels mendaftarkan semua model yang dimigrasi oleh db:migrate.
func RegisterModels() []Model {
	return []Model{
		{Model: Member{}},
		{Model: TreeNode{}},
		{Model: Wallet{}},
		{Model: Transaction{}},
		{Model: Bonus{}},
		{Model: NationalTurnover{}},
		{Model: SHUPeriod{}},
		{Model: MemberSHU{}},
		{Model: Coin{}},
		{Model: Pin{}},
		{Model: Stokis{}},
		{Model: PvPurchase{}},
		{Model: Withdrawal{}},
		{Model: RankHistory{}},
		{Model: Reward{}},
		{Model: MemberReward{}},
		{Model: ReferralLink{}},
		{Model: Notification{}},
		{Model: SettlementPeriod{}},
	}
}
