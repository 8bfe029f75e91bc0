package consts

// Kurs tetap sistem: 1 PV = Rp1.000. Tidak bisa diubah per transaksi.
const PVToRupiah = 1000

// Rate bonus
const (
	SponsorBonusRate  = 0.20 // 20% dari PV pembelian recruit
	PairingBonusRate  = 0.20 // 20% dari PV yang terpasangkan
	MatchingBonusRate = 0.20 // 20% dari bonus pasangan downline
	PersonalBonusRate = 0.15 // 15% dari PV belanja pribadi

	SHUPoolRate      = 0.20 // 20% omzet nasional
	SeracoinPoolRate = 0.10 // 10% omzet nasional
)

// Bonus per titik (HU)
const (
	PlanBTitikRupiah     = 1000 // Rp1.000 per HU (kiri + kanan)
	PlanCKomunitasRupiah = 2000 // Rp2.000 per HU seimbang
)

// Ambang aktivasi dan eligibilitas
const (
	PairingMinAccumulatedPV = 150
	PlanBMinAccumulatedPV   = 150
	SeracoinMinPV           = 150
	SHUMinAccumulatedPV     = 10
	SHUMinWeeklyRepurchase  = 15

	PlanCActivationHU = 7  // 7 kiri dan 7 kanan
	PlanDActivationHU = 15 // 15 kiri dan 15 kanan

	MinWithdrawalRupiah = 10000
)

// Default PIN pendaftaran
const (
	DefaultPinPV    = 150
	DefaultPinPrice = 150000
)

// Role member
const (
	RoleMember    = "member"
	RoleStokis    = "stokis"
	RoleBendahara = "bendahara"
	RoleDirektur  = "direktur"
	RoleAdmin     = "admin"
)

// Peringkat, urut dari terendah
const (
	RankNone     = "none"
	RankSapphire = "sapphire"
	RankEmerald  = "emerald"
	RankBronze   = "bronze"
	RankSilver   = "silver"
	RankGold     = "gold"
	RankDiamond  = "diamond"
	RankCrown    = "crown"
)

// RankOrder dipakai untuk membandingkan ordinal peringkat (promosi saja,
// tidak pernah demosi).
var RankOrder = []string{
	RankNone, RankSapphire, RankEmerald, RankBronze,
	RankSilver, RankGold, RankDiamond, RankCrown,
}

// Posisi node di pohon biner
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

// Tipe transaksi
const (
	TxPinPurchase     = "pin_purchase"
	TxProductPurchase = "product_purchase"
	TxBonusCredit     = "bonus_credit"
	TxWithdrawal      = "withdrawal"
	TxTransfer        = "transfer"
	TxPvStock         = "pv_stock"
	TxCoinPurchase    = "coin_purchase"
	TxRegistration    = "registration"
	TxRepurchase      = "repurchase"
)

// Status transaksi
const (
	TxStatusPending   = "pending"
	TxStatusApproved  = "approved"
	TxStatusRejected  = "rejected"
	TxStatusCompleted = "completed"
)

// Tipe bonus
const (
	BonusSponsor   = "sponsor"
	BonusPairing   = "pairing"
	BonusMatching  = "matching"
	BonusSHU       = "shu"
	BonusPersonal  = "personal_shopping"
	BonusSeracoin  = "seracoin"
	BonusTitik     = "titik"
	BonusKomunitas = "komunitas"
)

// Status withdrawal (alur persetujuan ganda)
const (
	WithdrawalPending           = "pending"
	WithdrawalBendaharaApproved = "bendahara_approved"
	WithdrawalDirekturApproved  = "direktur_approved"
	WithdrawalCompleted         = "completed"
	WithdrawalRejected          = "rejected"
)

// Status PIN
const (
	PinAvailable = "available"
	PinUsed      = "used"
	PinExpired   = "expired"
)

// Status pembelian PV dari stokis
const (
	PvPurchasePending   = "pending"
	PvPurchaseConfirmed = "confirmed"
	PvPurchaseRejected  = "rejected"
)

// Metode pembayaran pembelian PV
const (
	PaymentWallet         = "wallet"
	PaymentManualTransfer = "manual_transfer"
)

// Tipe mutasi coin
const (
	CoinEarned    = "earned"
	CoinPurchased = "purchased"
	CoinSold      = "sold"
)

// Tipe notifikasi
const (
	NotifWithdrawalRequest   = "withdrawal_request"
	NotifWithdrawalApproved  = "withdrawal_approved"
	NotifWithdrawalRejected  = "withdrawal_rejected"
	NotifWithdrawalCompleted = "withdrawal_completed"
	NotifBonusReceived       = "bonus_received"
	NotifRankUp              = "rank_up"
	NotifSystem              = "system"
	NotifReferralJoined      = "referral_joined"
)

// Jenis periode settlement
const (
	SettlementDaily    = "daily"
	SettlementBiweekly = "biweekly"
)
