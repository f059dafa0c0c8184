package database

import (
	"exhibae/internal/applications"
	"exhibae/internal/chat"
	"exhibae/internal/coupons"
	"exhibae/internal/exhibitions"
	"exhibae/internal/notifications"
	"exhibae/internal/payments"
	"exhibae/internal/stalls"
	"exhibae/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&exhibitions.Exhibition{},
		&stalls.Stall{},
		&stalls.StallInstance{},
		&stalls.MaintenanceLog{},
		&applications.StallApplication{},
		&payments.PaymentTransaction{},
		&coupons.Coupon{},
		&notifications.Notification{},
		&chat.Conversation{},
		&chat.ChatMessage{},
		&chat.SupportTicket{},
	)
}
