package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// At most one pending application may exist per stall instance. The
	// application service pre-checks this, but the partial unique index is
	// the authoritative guard against the check-then-insert race window.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_stall_applications_pending
		ON stall_applications (stall_instance_id)
		WHERE status = 'pending';
	`).Error
	if err != nil {
		return err
	}

	// Index for application listings by exhibition (organiser view)
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_stall_applications_exhibition_id
		ON stall_applications (exhibition_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for unread notification queries per recipient
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_notifications_recipient_unread
		ON notifications (recipient_id) WHERE read = false;
	`).Error
	if err != nil {
		return err
	}

	// Guarded coupon redemption relies on an atomic conditional increment;
	// this check keeps times_used from ever exceeding the usage limit.
	err = db.Exec(`
		ALTER TABLE coupons
		DROP CONSTRAINT IF EXISTS chk_coupons_usage;
	`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		ALTER TABLE coupons
		ADD CONSTRAINT chk_coupons_usage
		CHECK (usage_limit IS NULL OR times_used <= usage_limit);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
