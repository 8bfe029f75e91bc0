package services

import (
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/models"
)

// Notify menulis satu event notifikasi. Fire-and-forget: engine hanya
// memproduksi baris, transport pengiriman urusan sistem lain.
func Notify(db *gorm.DB, memberID uint, title, message, notifType string, soundAlert bool) error {
	notif := models.Notification{
		MemberID:   memberID,
		Title:      title,
		Message:    message,
		Type:       notifType,
		SoundAlert: soundAlert,
	}

	return db.Create(&notif).Error
}

// NotifyRole mengirim notifikasi ke semua member dengan role tertentu
// (misal seluruh bendahara saat ada permintaan penarikan).
func NotifyRole(db *gorm.DB, role, title, message, notifType string, soundAlert bool) error {
	memberModel := models.Member{}
	members, err := memberModel.FindByRole(db, role)
	if err != nil {
		return err
	}

	for _, m := range members {
		if err := Notify(db, m.ID, title, message, notifType, soundAlert); err != nil {
			return err
		}
	}

	return nil
}
