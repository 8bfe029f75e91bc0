package services

import "errors"

// Taksonomi error engine. Operasi sinkron mengembalikan salah satu dari
// ini; job periodik mengumpulkan kegagalan per member ke ringkasan.
var (
	// ErrValidation: input tidak valid, ditolak tanpa efek samping.
	ErrValidation = errors.New("input tidak valid")

	// ErrInvalidPin: PIN tidak ditemukan atau sudah dipakai.
	ErrInvalidPin = errors.New("PIN tidak valid atau sudah digunakan")

	// ErrSponsorNotFound: kode referral sponsor tidak dikenal.
	ErrSponsorNotFound = errors.New("kode referral sponsor tidak ditemukan")

	// ErrAlreadyRegistered: user sudah punya profil member.
	ErrAlreadyRegistered = errors.New("user sudah terdaftar sebagai member")

	// ErrNotFound: entitas (member/stokis/node/withdrawal) tidak ada.
	ErrNotFound = errors.New("data tidak ditemukan")

	// ErrInsufficientBalance: saldo kurang; hasil ditolak, tanpa mutasi.
	ErrInsufficientBalance = errors.New("saldo tidak mencukupi")

	// ErrInsufficientStock: stok PV stokis kurang.
	ErrInsufficientStock = errors.New("stok PV tidak mencukupi")

	// ErrInvalidStatus: transisi mesin status tidak sah.
	ErrInvalidStatus = errors.New("status tidak memungkinkan transisi ini")

	// ErrInvariantViolation: struktur pohon rusak (ancestor hilang,
	// slot tertimpa). Fatal untuk run yang bersangkutan.
	ErrInvariantViolation = errors.New("pelanggaran invariant pohon")

	// ErrConcurrencyConflict: kalah race dari operasi serentak lain
	// (slot penempatan keburu terisi, klaim periode bentrok). Transaksi
	// sudah di-rollback; operasi aman diulang.
	ErrConcurrencyConflict = errors.New("konflik akses serentak, ulangi operasi")

	// ErrPeriodAlreadySettled: jendela settlement sudah pernah diklaim.
	ErrPeriodAlreadySettled = errors.New("periode sudah di-settle")

	// ErrCodeCollision: kode referral bentrok; boleh di-retry.
	ErrCodeCollision = errors.New("kode referral bentrok, coba lagi")
)
